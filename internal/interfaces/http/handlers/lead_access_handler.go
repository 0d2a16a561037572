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
)

// LeadAccessHandler handles lead purchase and access lookup endpoints
type LeadAccessHandler struct {
	leadAccess  *usecases.LeadAccessUsecase
	pricing     *usecases.PricingUsecase
	contractors *usecases.ContractorUsecase
}

// NewLeadAccessHandler creates a new lead access handler
func NewLeadAccessHandler(leadAccess *usecases.LeadAccessUsecase, pricing *usecases.PricingUsecase, contractors *usecases.ContractorUsecase) *LeadAccessHandler {
	return &LeadAccessHandler{leadAccess: leadAccess, pricing: pricing, contractors: contractors}
}

type purchaseLeadRequest struct {
	Method entities.AccessMethod `json:"method" binding:"required,oneof=PAYMENT CREDIT"`
}

// PurchaseLead buys access to a job's full details
// POST /api/v1/jobs/:id/access
func (h *LeadAccessHandler) PurchaseLead(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	var req purchaseLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}

	access, err := h.leadAccess.GrantAccess(c.Request.Context(), jobID, contractor.ID, req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, access)
}

// CheckAccess reports whether the contractor already holds access to a job
// GET /api/v1/jobs/:id/access
func (h *LeadAccessHandler) CheckAccess(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}

	hasAccess, err := h.leadAccess.CheckAccess(c.Request.Context(), jobID, contractor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hasAccess": hasAccess})
}

// GetLeadPrice resolves the lead price for a job without purchasing
// GET /api/v1/jobs/:id/lead-price
func (h *LeadAccessHandler) GetLeadPrice(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	price, err := h.pricing.LeadPriceForJob(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leadPriceCents": price})
}

// ListJobAccesses lists every access grant on a job
// GET /api/v1/jobs/:id/accesses
func (h *LeadAccessHandler) ListJobAccesses(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	accesses, err := h.leadAccess.ListJobAccesses(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": accesses})
}

func (h *LeadAccessHandler) currentContractor(c *gin.Context) (*entities.Contractor, bool) {
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
