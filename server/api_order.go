package bloodlinkserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	authdomain "github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	inventorydomain "github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	ordersapp "github.com/bloodlink/bloodlink-api/internal/domains/orders/application"
	ordersdomain "github.com/bloodlink/bloodlink-api/internal/domains/orders/domain"
	ordersports "github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// OrderAPI implements the transfer order endpoints.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI wires dependencies.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Order is the transport representation of a transfer order.
type Order struct {
	Id          int64             `json:"id"`
	BloodGroup  []BloodGroupEntry `json:"bloodGroup"`
	BloodBankId int64             `json:"bloodBankId"`
	HospitalId  int64             `json:"hospitalId"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CreateOrderRequest carries a transfer request. The caller supplies
// the counterpart institution; its own side comes from the session.
type CreateOrderRequest struct {
	BloodGroup     []BloodGroupEntry `json:"bloodGroup" binding:"required"`
	CounterpartyId int64             `json:"counterpartyId" binding:"required"`
	To             string            `json:"to" binding:"required"`
}

// SettleOrderRequest carries the settlement decision.
type SettleOrderRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// InstitutionSummaryModel is the counterpart projection on order listings.
type InstitutionSummaryModel struct {
	Id      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"addressDescription"`
}

// OrderView pairs an order with both counterpart summaries.
type OrderViewModel struct {
	Order     Order                   `json:"order"`
	Hospital  InstitutionSummaryModel `json:"hospital"`
	BloodBank InstitutionSummaryModel `json:"bloodBank"`
}

func fromDomainOrder(order *ordersdomain.Order) Order {
	return Order{
		Id:          order.ID,
		BloodGroup:  fromDomainEntries(order.BloodGroup),
		BloodBankId: order.BloodBankID,
		HospitalId:  order.HospitalID,
		From:        string(order.From),
		To:          string(order.To),
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}

func fromSummary(summary ordersports.InstitutionSummary) InstitutionSummaryModel {
	return InstitutionSummaryModel{
		Id:      summary.ID,
		Name:    summary.Name,
		Phone:   summary.Phone,
		Address: summary.Address,
	}
}

func fromOrderView(view ordersports.OrderView) OrderViewModel {
	return OrderViewModel{
		Order:     fromDomainOrder(view.Order),
		Hospital:  fromSummary(view.Hospital),
		BloodBank: fromSummary(view.BloodBank),
	}
}

func callerFromActor(actor authdomain.Actor) ordersports.Caller {
	party := ordersdomain.PartyHospital
	if actor.Kind == authdomain.KindBloodBank {
		party = ordersdomain.PartyBloodBank
	}
	return ordersports.Caller{Party: party, InstitutionID: actor.ID}
}

// Post /v1/orders
// Create a pending transfer order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	var payload CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	caller := callerFromActor(actor)
	input := ordersports.CreateOrderInput{
		BloodGroup: toDomainEntries(payload.BloodGroup),
		From:       caller.Party,
		To:         ordersdomain.Party(payload.To),
	}
	if caller.Party == ordersdomain.PartyHospital {
		input.HospitalID = caller.InstitutionID
		input.BloodBankID = payload.CounterpartyId
	} else {
		input.BloodBankID = caller.InstitutionID
		input.HospitalID = payload.CounterpartyId
	}
	order, err := api.service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainOrder(order))
}

// Post /v1/orders/:orderId/settle
// Approve or reject a pending order
func (api *OrderAPI) SettleOrder(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("orderId must be an integer"))
		return
	}
	var payload SettleOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.Settle(c.Request.Context(), orderID, callerFromActor(actor), ordersdomain.Status(payload.Decision))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}

// Get /v1/orders
// List the caller's orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	actor, ok := mustInstitution(c)
	if !ok {
		return
	}
	views, err := api.service.List(c.Request.Context(), callerFromActor(actor))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]OrderViewModel, 0, len(views))
	for _, view := range views {
		result = append(result, fromOrderView(view))
	}
	c.JSON(http.StatusOK, result)
}

// Get /v1/orders/:orderId
// Fetch one order with both counterpart summaries
func (api *OrderAPI) GetOrder(c *gin.Context) {
	if _, ok := mustInstitution(c); !ok {
		return
	}
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("orderId must be an integer"))
		return
	}
	view, err := api.service.Get(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderView(*view))
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrSettlementForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrAlreadySettled):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound), errors.Is(err, ordersports.ErrInstitutionNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
