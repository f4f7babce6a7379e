package handler

import (
	"net/http"

	"lampolaskuri_backend/internal/leads/service"
	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// PublicHandler handles the unauthenticated form-capture endpoints.
type PublicHandler struct {
	svc *service.Service
}

func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// RegisterRoutes registers the public lead routes (rate-limited by the router).
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.GET("/:token", h.GetByToken)
}

// Submit handles POST /api/v1/public/leads.
// The body is the raw form payload; any shape problems are absorbed by the
// normalizer, so the only hard rejection here is invalid JSON.
func (h *PublicHandler) Submit(c *gin.Context) {
	var input transport.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByToken handles GET /api/v1/public/leads/:token
func (h *PublicHandler) GetByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	result, err := h.svc.GetByPublicToken(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
