package bloodlinkserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"

	donorsapp "github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	donorsdomain "github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// DonorAPI implements the donor and donation endpoints. Donation
// intake goes through the orchestrator so a connected Temporal worker
// can run it durably.
type DonorAPI struct {
	service donorsports.Service
	intake  donorsports.IntakeOrchestrator
}

// NewDonorAPI wires dependencies.
func NewDonorAPI(service donorsports.Service, intake donorsports.IntakeOrchestrator) DonorAPI {
	return DonorAPI{service: service, intake: intake}
}

// Donor is the transport representation of a donor profile.
type Donor struct {
	Id               int64      `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	BirthDate        time.Time  `json:"birthDate"`
	Gender           string     `json:"gender"`
	Phone            string     `json:"phone"`
	BloodType        string     `json:"bloodType"`
	Diseases         []string   `json:"diseases"`
	Gov              string     `json:"gov"`
	City             string     `json:"city"`
	DonationTimes    int32      `json:"donationTimes"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
}

// DonorSignInResponse returns the session token and profile.
type DonorSignInResponse struct {
	Token string `json:"token"`
	Donor Donor  `json:"donor"`
}

// RegisterDonorRequest carries the registration form.
type RegisterDonorRequest struct {
	FirstName string    `json:"firstName" binding:"required"`
	LastName  string    `json:"lastName" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Password  string    `json:"password" binding:"required"`
	BirthDate time.Time `json:"birthDate" binding:"required"`
	Gender    string    `json:"gender" binding:"required"`
	Phone     string    `json:"phone" binding:"required"`
	BloodType string    `json:"bloodType" binding:"required"`
	Diseases  []string  `json:"diseases"`
	Gov       string    `json:"gov" binding:"required"`
	City      string    `json:"city" binding:"required"`
}

// UpdateDonorRequest patches the mutable profile fields.
type UpdateDonorRequest struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Phone     *string   `json:"phone"`
	Diseases  *[]string `json:"diseases"`
	Gov       *string   `json:"gov"`
	City      *string   `json:"city"`
}

// RecordDonationRequest registers one blood bag for a donor. The
// institution comes from the session.
type RecordDonationRequest struct {
	DonorId   int64      `json:"donorId" binding:"required"`
	DonatedAt *time.Time `json:"donatedAt"`
}

// Donation is the transport donation row.
type Donation struct {
	Id            int64     `json:"id"`
	DonorId       int64     `json:"donorId"`
	InstitutionId int64     `json:"institutionId"`
	BloodType     string    `json:"bloodType"`
	DonatedAt     time.Time `json:"donatedAt"`
}

// DonationAtInstitutionModel is the donor-facing history row.
type DonationAtInstitutionModel struct {
	Donation    Donation                `json:"donation"`
	Institution InstitutionSummaryModel `json:"institution"`
}

// DonationByDonorModel is the institution-facing history row.
type DonationByDonorModel struct {
	Donation  Donation `json:"donation"`
	DonorName string   `json:"donorName"`
	Phone     string   `json:"phone"`
	BloodType string   `json:"bloodType"`
}

func fromDomainDonor(donor *donorsdomain.Donor) Donor {
	return Donor{
		Id:               donor.ID,
		FirstName:        donor.FirstName,
		LastName:         donor.LastName,
		Email:            donor.Email,
		BirthDate:        donor.BirthDate,
		Gender:           string(donor.Gender),
		Phone:            donor.Phone,
		BloodType:        string(donor.BloodType),
		Diseases:         donor.Diseases,
		Gov:              donor.Gov,
		City:             donor.City,
		DonationTimes:    donor.DonationTimes,
		LastDonationDate: donor.LastDonationDate,
	}
}

func fromDomainDonation(donation *donorsdomain.Donation) Donation {
	return Donation{
		Id:            donation.ID,
		DonorId:       donation.DonorID,
		InstitutionId: donation.InstitutionID,
		BloodType:     string(donation.BloodType),
		DonatedAt:     donation.DonatedAt,
	}
}

// Post /v1/donors
// Register a donor account
func (api *DonorAPI) RegisterDonor(c *gin.Context) {
	var payload RegisterDonorRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	donor, token, err := api.service.Register(c.Request.Context(), donorsports.RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		BirthDate: payload.BirthDate,
		Gender:    donorsdomain.Gender(payload.Gender),
		Phone:     payload.Phone,
		BloodType: inventorydomain.BloodType(payload.BloodType),
		Diseases:  payload.Diseases,
		Gov:       payload.Gov,
		City:      payload.City,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, DonorSignInResponse{Token: token, Donor: fromDomainDonor(donor)})
}

// Post /v1/donors/signin
// Exchange credentials for a session token
func (api *DonorAPI) SignInDonor(c *gin.Context) {
	var payload SignInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	donor, token, err := api.service.SignIn(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DonorSignInResponse{Token: token, Donor: fromDomainDonor(donor)})
}

// Post /v1/donors/signout
// Revoke the presented session token
func (api *DonorAPI) SignOut(c *gin.Context) {
	if _, ok := mustDonor(c); !ok {
		return
	}
	if err := api.service.SignOut(c.Request.Context(), sessionToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/donors/me
// Fetch the caller's profile
func (api *DonorAPI) GetProfile(c *gin.Context) {
	actor, ok := mustDonor(c)
	if !ok {
		return
	}
	donor, err := api.service.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainDonor(donor))
}

// Patch /v1/donors/me
// Update the caller's profile
func (api *DonorAPI) UpdateProfile(c *gin.Context) {
	actor, ok := mustDonor(c)
	if !ok {
		return
	}
	var payload UpdateDonorRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	donor, err := api.service.Update(c.Request.Context(), actor.ID, donorsports.UpdateInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Diseases:  payload.Diseases,
		Gov:       payload.Gov,
		City:      payload.City,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainDonor(donor))
}

// Post /v1/donations
// Record a donation at the calling institution
func (api *DonorAPI) RecordDonation(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload RecordDonationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := donorsports.RecordDonationInput{
		DonorID:       payload.DonorId,
		InstitutionID: actor.ID,
	}
	if payload.DonatedAt != nil {
		input.DonatedAt = *payload.DonatedAt
	}
	donation, err := api.intake.RecordDonation(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainDonation(donation))
}

// Get /v1/donors/me/donations
// List the caller's donation history
func (api *DonorAPI) ListDonorDonations(c *gin.Context) {
	actor, ok := mustDonor(c)
	if !ok {
		return
	}
	rows, err := api.service.DonationsByDonor(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]DonationAtInstitutionModel, 0, len(rows))
	for _, row := range rows {
		result = append(result, DonationAtInstitutionModel{
			Donation: fromDomainDonation(row.Donation),
			Institution: InstitutionSummaryModel{
				Id:      row.Institution.ID,
				Name:    row.Institution.Name,
				Phone:   row.Institution.Phone,
				Address: row.Institution.Address,
			},
		})
	}
	c.JSON(http.StatusOK, result)
}

// Get /v1/institutions/me/donations
// List donations recorded at the calling institution
func (api *DonorAPI) ListInstitutionDonations(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	rows, err := api.service.DonationsByInstitution(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]DonationByDonorModel, 0, len(rows))
	for _, row := range rows {
		result = append(result, DonationByDonorModel{
			Donation:  fromDomainDonation(row.Donation),
			DonorName: row.DonorName,
			Phone:     row.Phone,
			BloodType: string(row.BloodType),
		})
	}
	c.JSON(http.StatusOK, result)
}

// Get /v1/donors/heroes
// List the most frequent donors
func (api *DonorAPI) ListTopDonors(c *gin.Context) {
	limit := donorsapp.DefaultTopDonorLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	donors, err := api.service.TopDonors(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]Donor, 0, len(donors))
	for _, donor := range donors {
		result = append(result, fromDomainDonor(donor))
	}
	c.JSON(http.StatusOK, result)
}

func donorProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, donorsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, donorsapp.ErrNotEligible):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, donorsapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, donorsports.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, donorsports.ErrNotFound), errors.Is(err, donorsports.ErrInstitutionNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
