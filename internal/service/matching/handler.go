package matching

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminSecretHeader = "X-Admin-Secret"

type Handler struct {
	service     *Service
	adminSecret string
}

func NewHandler(service *Service, adminSecret string) *Handler {
	return &Handler{
		service:     service,
		adminSecret: adminSecret,
	}
}

// Execute handles POST /admin/matching/execute
//
//	@Summary	Run the matching engine over all pending registrations
//	@Tags		admin
//	@Produce	json
//	@Param		X-Admin-Secret	header		string	false	"admin secret"
//	@Success	200				{object}	RunResult
//	@Failure	401				{object}	map[string]string
//	@Failure	409				{object}	map[string]string
//	@Failure	500				{object}	map[string]string
//	@Router		/admin/matching/execute [post]
func (h *Handler) Execute(c *gin.Context) {
	result, err := h.service.Execute(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status handles GET /matching/status
//
//	@Summary	The caller's upcoming registrations and groups
//	@Tags		matching
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	UserStatus
//	@Router		/matching/status [get]
func (h *Handler) Status(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.handleError(c, ErrUnauthorized)
		return
	}

	status, err := h.service.UserStatus(c.Request.Context(), userID.(string))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// RequireAdmin guards admin routes with the shared X-Admin-Secret header.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.authorized(c.GetHeader(AdminSecretHeader)) {
			h.handleError(c, ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// An empty secret leaves admin routes open, which is only meant for local runs.
func (h *Handler) authorized(got string) bool {
	if h.adminSecret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.adminSecret)) == 1
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
