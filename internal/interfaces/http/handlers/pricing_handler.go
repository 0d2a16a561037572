package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"leadmarket.backend/internal/domain/entities"
	"leadmarket.backend/internal/interfaces/http/response"
	"leadmarket.backend/internal/usecases"
	"leadmarket.backend/pkg/utils"
)

// PricingHandler handles lead pricing configuration endpoints
type PricingHandler struct {
	pricing *usecases.PricingUsecase
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricing *usecases.PricingUsecase) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// GetActive returns the active tier configuration
// GET /api/v1/pricing
func (h *PricingHandler) GetActive(c *gin.Context) {
	pricing, err := h.pricing.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pricing)
}

type updatePricingRequest struct {
	SmallPriceCents  int64 `json:"smallPriceCents" binding:"min=0"`
	MediumPriceCents int64 `json:"mediumPriceCents" binding:"min=0"`
	LargePriceCents  int64 `json:"largePriceCents" binding:"min=0"`
}

// UpdatePricing replaces the active tier configuration
// PUT /api/v1/admin/pricing
func (h *PricingHandler) UpdatePricing(c *gin.Context) {
	var req updatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	now := time.Now()
	pricing := &entities.ServicePricing{
		ID:               utils.GenerateUUIDv7(),
		SmallPriceCents:  req.SmallPriceCents,
		MediumPriceCents: req.MediumPriceCents,
		LargePriceCents:  req.LargePriceCents,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := h.pricing.UpdatePricing(c.Request.Context(), pricing); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pricing)
}
