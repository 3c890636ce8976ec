package bloodlinkserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	institutionsapp "github.com/bloodlink/bloodlink-api/internal/domains/institutions/application"
	institutionsdomain "github.com/bloodlink/bloodlink-api/internal/domains/institutions/domain"
	institutionsports "github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// InstitutionAPI implements the hospital and blood bank endpoints.
type InstitutionAPI struct {
	service institutionsports.Service
}

// NewInstitutionAPI wires dependencies.
func NewInstitutionAPI(service institutionsports.Service) InstitutionAPI {
	return InstitutionAPI{service: service}
}

// Institution is the transport representation of a hospital or blood bank.
type Institution struct {
	Id      int64  `json:"id"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Gov     string `json:"gov"`
	City    string `json:"city,omitempty"`
	Address string `json:"addressDescription"`
}

// RegisterInstitutionRequest is the registration payload.
type RegisterInstitutionRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Gov      string `json:"gov" binding:"required"`
	City     string `json:"city"`
	Address  string `json:"addressDescription" binding:"required"`
}

// SignInRequest carries credentials.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse returns the session token and profile.
type SignInResponse struct {
	Token       string      `json:"token"`
	Institution Institution `json:"institution"`
}

// UpdateInstitutionRequest patches profile fields.
type UpdateInstitutionRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Gov      *string `json:"gov"`
	City     *string `json:"city"`
	Address  *string `json:"addressDescription"`
}

// BloodGroupEntry is the transport stock row.
type BloodGroupEntry struct {
	BloodType string `json:"bloodType" binding:"required"`
	Count     int32  `json:"count"`
}

// MergeStockRequest folds adjustments into the stored stock.
type MergeStockRequest struct {
	BloodGroup []BloodGroupEntry `json:"bloodGroup" binding:"required"`
}

func fromDomainInstitution(inst *institutionsdomain.Institution) Institution {
	return Institution{
		Id:      inst.ID,
		Kind:    string(inst.Kind),
		Name:    inst.Name,
		Email:   inst.Email,
		Phone:   inst.Phone,
		Gov:     inst.Gov,
		City:    inst.City,
		Address: inst.Address,
	}
}

func toDomainEntries(rows []BloodGroupEntry) []inventorydomain.BloodGroupEntry {
	entries := make([]inventorydomain.BloodGroupEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, inventorydomain.BloodGroupEntry{
			BloodType: inventorydomain.BloodType(row.BloodType),
			Count:     row.Count,
		})
	}
	return entries
}

func fromDomainEntries(entries []inventorydomain.BloodGroupEntry) []BloodGroupEntry {
	rows := make([]BloodGroupEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, BloodGroupEntry{BloodType: string(e.BloodType), Count: e.Count})
	}
	return rows
}

// Post /v1/hospitals
// Register hospital
func (api *InstitutionAPI) RegisterHospital(c *gin.Context) {
	api.register(c, institutionsdomain.KindHospital)
}

// Post /v1/bloodbanks
// Register blood bank
func (api *InstitutionAPI) RegisterBloodBank(c *gin.Context) {
	api.register(c, institutionsdomain.KindBloodBank)
}

func (api *InstitutionAPI) register(c *gin.Context, kind institutionsdomain.Kind) {
	var payload RegisterInstitutionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	inst, err := api.service.Register(c.Request.Context(), institutionsports.RegisterInput{
		Kind:     kind,
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Phone:    payload.Phone,
		Gov:      payload.Gov,
		City:     payload.City,
		Address:  payload.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainInstitution(inst))
}

// Post /v1/hospitals/signin
// Sign in hospital
func (api *InstitutionAPI) SignInHospital(c *gin.Context) {
	api.signIn(c, institutionsdomain.KindHospital)
}

// Post /v1/bloodbanks/signin
// Sign in blood bank
func (api *InstitutionAPI) SignInBloodBank(c *gin.Context) {
	api.signIn(c, institutionsdomain.KindBloodBank)
}

func (api *InstitutionAPI) signIn(c *gin.Context, kind institutionsdomain.Kind) {
	var payload SignInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, inst, err := api.service.SignIn(c.Request.Context(), kind, payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignInResponse{Token: token, Institution: fromDomainInstitution(inst)})
}

// Post /v1/institutions/signout
// Revoke the current session
func (api *InstitutionAPI) SignOut(c *gin.Context) {
	if _, ok := mustInstitution(c); !ok {
		return
	}
	if err := api.service.SignOut(c.Request.Context(), sessionToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/institutions/me
// Current institution profile
func (api *InstitutionAPI) GetProfile(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	inst, err := api.service.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainInstitution(inst))
}

// Patch /v1/institutions/me
// Update profile fields
func (api *InstitutionAPI) UpdateProfile(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	inst, err := api.service.Update(c.Request.Context(), actor.ID, institutionsports.UpdateInput{
		Name:     payload.Name,
		Password: payload.Password,
		Phone:    payload.Phone,
		Gov:      payload.Gov,
		City:     payload.City,
		Address:  payload.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainInstitution(inst))
}

// Get /v1/institutions/me/stock
// Current blood inventory
func (api *InstitutionAPI) GetStock(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	stock, err := api.service.Stock(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bloodGroup": fromDomainEntries(stock)})
}

// Patch /v1/institutions/me/stock
// Merge submitted counts into the stored inventory
func (api *InstitutionAPI) MergeStock(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload MergeStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	merged, err := api.service.MergeStock(c.Request.Context(), actor.ID, toDomainEntries(payload.BloodGroup))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bloodGroup": fromDomainEntries(merged)})
}

// Get /v1/bloodbanks
// List blood banks, scoped to the caller's governorate for hospitals
// and donors
func (api *InstitutionAPI) ListBloodBanks(c *gin.Context) {
	gov := strings.TrimSpace(c.Query("gov"))
	if actor, ok := actorFrom(c); ok && actor.Kind == authdomain.KindHospital && gov == "" {
		inst, err := api.service.GetByID(c.Request.Context(), actor.ID)
		if err == nil {
			gov = inst.Gov
		}
	}
	banks, err := api.service.ListBanks(c.Request.Context(), gov)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]Institution, 0, len(banks))
	for _, bank := range banks {
		result = append(result, fromDomainInstitution(bank))
	}
	c.JSON(http.StatusOK, result)
}

func institutionProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, institutionsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, institutionsapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, institutionsports.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, institutionsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
