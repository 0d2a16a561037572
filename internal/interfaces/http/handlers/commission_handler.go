package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/interfaces/http/middleware"
	"leadmarket.backend/internal/interfaces/http/response"
	"leadmarket.backend/internal/usecases"
	"leadmarket.backend/pkg/utils"
)

// CommissionHandler handles commission settlement endpoints
type CommissionHandler struct {
	commissions *usecases.CommissionUsecase
	contractors *usecases.ContractorUsecase
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(commissions *usecases.CommissionUsecase, contractors *usecases.ContractorUsecase) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, contractors: contractors}
}

// ConfirmCompletion confirms the work and opens the commission when one is owed
// POST /api/v1/jobs/:id/confirm
func (h *CommissionHandler) ConfirmCompletion(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	commission, err := h.commissions.ConfirmCompletion(c.Request.Context(), jobID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if commission == nil {
		// PAYMENT-method win: nothing to settle
		response.Success(c, http.StatusOK, gin.H{"commission": nil})
		return
	}
	response.Success(c, http.StatusCreated, commission)
}

// GetByJob returns the commission attached to a job
// GET /api/v1/jobs/:id/commission
func (h *CommissionHandler) GetByJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	commission, err := h.commissions.GetByJob(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, commission)
}

// ListMyCommissions lists the contractor's commissions
// GET /api/v1/contractors/me/commissions
func (h *CommissionHandler) ListMyCommissions(c *gin.Context) {
	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}
	params := paginationFromQuery(c)
	commissions, total, err := h.commissions.ListByContractor(c.Request.Context(), contractor.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": commissions,
		"meta":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// PayCommission charges the contractor's stored payment method
// POST /api/v1/commissions/:id/pay
func (h *CommissionHandler) PayCommission(c *gin.Context) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid commission id")
		return
	}

	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}

	if err := h.commissions.ChargeCommission(c.Request.Context(), commissionID, contractor.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.CommissionStatusPaid})
}

type waiveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Waive forgives a commission
// POST /api/v1/admin/commissions/:id/waive
func (h *CommissionHandler) Waive(c *gin.Context) {
	commissionID, actorID, ok := h.commissionAndActor(c)
	if !ok {
		return
	}

	var req waiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	if err := h.commissions.Waive(c.Request.Context(), commissionID, actorID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.CommissionStatusWaived})
}

type overrideRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ManualOverridePaid marks a commission settled outside the gateway
// POST /api/v1/admin/commissions/:id/override
func (h *CommissionHandler) ManualOverridePaid(c *gin.Context) {
	commissionID, actorID, ok := h.commissionAndActor(c)
	if !ok {
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	if err := h.commissions.ManualOverridePaid(c.Request.Context(), commissionID, actorID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.CommissionStatusPaid})
}

type refundLeadPaymentRequest struct {
	AmountCents int64  `json:"amountCents" binding:"required,gt=0"`
	Reason      string `json:"reason" binding:"required"`
}

// RefundLeadPayment refunds part or all of a lead charge
// POST /api/v1/admin/lead-payments/:id/refund
func (h *CommissionHandler) RefundLeadPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid payment id")
		return
	}

	var req refundLeadPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	refundID, err := h.commissions.RefundLeadPayment(c.Request.Context(), paymentID, actorID, req.AmountCents, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"refundId": refundID})
}

func (h *CommissionHandler) commissionAndActor(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid commission id")
		return uuid.Nil, uuid.Nil, false
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	return commissionID, actorID, true
}

func (h *CommissionHandler) currentContractor(c *gin.Context) (*entities.Contractor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return nil, false
	}
	contractor, err := h.contractors.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return contractor, true
}
