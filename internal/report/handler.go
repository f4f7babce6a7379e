package report

import (
	"net/http"

	"lampolaskuri_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the public report endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the public report routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token", h.Get)
	rg.GET("/:token/pdf", h.GetPDF)
}

// Get handles GET /api/v1/public/reports/:token
func (h *Handler) Get(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	data, err := h.svc.ForToken(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, data)
}

// GetPDF handles GET /api/v1/public/reports/:token/pdf
func (h *Handler) GetPDF(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	pdf, err := h.svc.PDFForToken(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `inline; filename="saastolaskelma.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
