package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/interfaces/http/middleware"
	"leadmarket.backend/internal/interfaces/http/response"
	"leadmarket.backend/internal/usecases"
)

// ContractorHandler handles contractor account endpoints
type ContractorHandler struct {
	contractors *usecases.ContractorUsecase
}

// NewContractorHandler creates a new contractor handler
func NewContractorHandler(contractors *usecases.ContractorUsecase) *ContractorHandler {
	return &ContractorHandler{contractors: contractors}
}

// Register creates the contractor profile for the authenticated user
// POST /api/v1/contractors
func (h *ContractorHandler) Register(c *gin.Context) {
	var input usecases.RegisterContractorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	contractor, err := h.contractors.Register(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contractor)
}

// GetMe returns the authenticated user's contractor profile
// GET /api/v1/contractors/me
func (h *ContractorHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	contractor, err := h.contractors.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contractor)
}
