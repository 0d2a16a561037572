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

// CreditHandler handles credit balance and ledger endpoints
type CreditHandler struct {
	credits     *usecases.CreditLedgerUsecase
	contractors *usecases.ContractorUsecase
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(credits *usecases.CreditLedgerUsecase, contractors *usecases.ContractorUsecase) *CreditHandler {
	return &CreditHandler{credits: credits, contractors: contractors}
}

// GetBalance returns the contractor's current credit balance
// GET /api/v1/contractors/me/credits
func (h *CreditHandler) GetBalance(c *gin.Context) {
	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"creditsBalance":     contractor.CreditsBalance,
		"weeklyCreditsLimit": contractor.WeeklyCreditsLimit,
	})
}

// GetHistory returns the contractor's credit transaction ledger
// GET /api/v1/contractors/me/credits/history
func (h *CreditHandler) GetHistory(c *gin.Context) {
	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}
	params := paginationFromQuery(c)
	transactions, total, err := h.credits.History(c.Request.Context(), contractor.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": transactions,
		"meta":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// Reconcile checks the ledger sum against the stored balance
// GET /api/v1/contractors/me/credits/reconcile
func (h *CreditHandler) Reconcile(c *gin.Context) {
	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}
	consistent, err := h.credits.Reconcile(c.Request.Context(), contractor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"consistent": consistent})
}

type adjustCreditsRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustCredits applies a manual credit adjustment to a contractor
// POST /api/v1/admin/contractors/:id/credits
func (h *CreditHandler) AdjustCredits(c *gin.Context) {
	contractorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid contractor id")
		return
	}

	var req adjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	if err := h.credits.AdjustCredits(c.Request.Context(), actorID, contractorID, req.Delta, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"adjusted": req.Delta})
}

// TriggerWeeklyReset runs the weekly credit reset sweep on demand
// POST /api/v1/admin/credits/reset
func (h *CreditHandler) TriggerWeeklyReset(c *gin.Context) {
	count, err := h.credits.ResetWeekly(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resetCount": count})
}

func (h *CreditHandler) currentContractor(c *gin.Context) (*entities.Contractor, bool) {
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
