package bloodlinkserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	campaignsapp "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/application"
	campaignsdomain "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
	campaignsports "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// CampaignAPI implements the urgent call and blood drive endpoints.
type CampaignAPI struct {
	service campaignsports.Service
}

// NewCampaignAPI wires dependencies.
func NewCampaignAPI(service campaignsports.Service) CampaignAPI {
	return CampaignAPI{service: service}
}

// UrgentCall is the transport representation of a hospital appeal.
type UrgentCall struct {
	Id          int64             `json:"id"`
	HospitalId  int64             `json:"hospitalId"`
	Gov         string            `json:"gov"`
	City        string            `json:"city"`
	Description string            `json:"description"`
	BloodGroup  []BloodGroupEntry `json:"bloodGroup"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// PostUrgentCallRequest carries a hospital's appeal.
type PostUrgentCallRequest struct {
	Gov         string            `json:"gov" binding:"required"`
	City        string            `json:"city" binding:"required"`
	Description string            `json:"description" binding:"required"`
	BloodGroup  []BloodGroupEntry `json:"bloodGroup" binding:"required"`
}

// UrgentCallViewModel pairs an appeal with the posting hospital.
type UrgentCallViewModel struct {
	Call     UrgentCall              `json:"call"`
	Hospital InstitutionSummaryModel `json:"hospital"`
}

// BloodDrive is the transport representation of a donation drive.
type BloodDrive struct {
	Id          int64     `json:"id"`
	BloodBankId int64     `json:"bloodBankId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Phone       string    `json:"phone"`
	Description string    `json:"description"`
}

// PostBloodDriveRequest carries a blood bank's drive announcement.
type PostBloodDriveRequest struct {
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	Phone       string    `json:"phone" binding:"required"`
	Description string    `json:"description" binding:"required"`
}

// BloodDriveViewModel pairs a drive with the hosting blood bank.
type BloodDriveViewModel struct {
	Drive     BloodDrive              `json:"drive"`
	BloodBank InstitutionSummaryModel `json:"bloodBank"`
}

func fromDomainUrgentCall(call *campaignsdomain.UrgentCall) UrgentCall {
	return UrgentCall{
		Id:          call.ID,
		HospitalId:  call.HospitalID,
		Gov:         call.Gov,
		City:        call.City,
		Description: call.Description,
		BloodGroup:  fromDomainEntries(call.BloodGroup),
		CreatedAt:   call.CreatedAt,
	}
}

func fromDomainBloodDrive(drive *campaignsdomain.BloodDrive) BloodDrive {
	return BloodDrive{
		Id:          drive.ID,
		BloodBankId: drive.BloodBankID,
		StartDate:   drive.StartDate,
		EndDate:     drive.EndDate,
		Phone:       drive.Phone,
		Description: drive.Description,
	}
}

func fromCampaignSummary(summary campaignsports.InstitutionSummary) InstitutionSummaryModel {
	return InstitutionSummaryModel{
		Id:      summary.ID,
		Name:    summary.Name,
		Phone:   summary.Phone,
		Address: summary.Address,
	}
}

// Post /v1/urgent-calls
// Publish an appeal for specific blood groups
func (api *CampaignAPI) PostUrgentCall(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload PostUrgentCallRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	call, err := api.service.PostUrgentCall(c.Request.Context(), campaignsports.PostUrgentCallInput{
		HospitalID:  actor.ID,
		Gov:         payload.Gov,
		City:        payload.City,
		Description: payload.Description,
		BloodGroup:  toDomainEntries(payload.BloodGroup),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainUrgentCall(call))
}

// Get /v1/urgent-calls
// List open appeals with hospital contact details
func (api *CampaignAPI) ListUrgentCalls(c *gin.Context) {
	views, err := api.service.ListUrgentCalls(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]UrgentCallViewModel, 0, len(views))
	for _, view := range views {
		result = append(result, UrgentCallViewModel{
			Call:     fromDomainUrgentCall(view.Call),
			Hospital: fromCampaignSummary(view.Hospital),
		})
	}
	c.JSON(http.StatusOK, result)
}

// Delete /v1/urgent-calls/:callId
// Withdraw an appeal
func (api *CampaignAPI) DeleteUrgentCall(c *gin.Context) {
	if _, ok := mustInstitution(c); !ok {
		return
	}
	callID, err := strconv.ParseInt(c.Param("callId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("callId must be an integer"))
		return
	}
	if err := api.service.DeleteUrgentCall(c.Request.Context(), callID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/blood-drives
// Announce a donation drive
func (api *CampaignAPI) PostBloodDrive(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload PostBloodDriveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	drive, err := api.service.PostBloodDrive(c.Request.Context(), campaignsports.PostBloodDriveInput{
		BloodBankID: actor.ID,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		Phone:       payload.Phone,
		Description: payload.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainBloodDrive(drive))
}

// Get /v1/blood-drives
// List announced drives with blood bank contact details
func (api *CampaignAPI) ListBloodDrives(c *gin.Context) {
	views, err := api.service.ListBloodDrives(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]BloodDriveViewModel, 0, len(views))
	for _, view := range views {
		result = append(result, BloodDriveViewModel{
			Drive:     fromDomainBloodDrive(view.Drive),
			BloodBank: fromCampaignSummary(view.BloodBank),
		})
	}
	c.JSON(http.StatusOK, result)
}

func campaignProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, campaignsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, campaignsports.ErrCampaignNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, campaignsports.ErrInstitutionNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
