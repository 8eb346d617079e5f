package group

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GetMyGroups handles GET /groups
//
//	@Summary	Groups the caller was matched into
//	@Tags		groups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	MyGroupsResponse
//	@Router		/groups [get]
func (h *Handler) GetMyGroups(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.handleError(c, ErrUnauthorized)
		return
	}

	groups, err := h.service.GetUserGroups(c.Request.Context(), userID.(string))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MyGroupsResponse{
		Groups: groups,
		Total:  len(groups),
	})
}

// GetGroup handles GET /groups/:id
//
//	@Summary	Group detail with members
//	@Tags		groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"group id"
//	@Success	200	{object}	GroupResponse
//	@Failure	403	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/groups/{id} [get]
func (h *Handler) GetGroup(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.handleError(c, ErrUnauthorized)
		return
	}

	group, err := h.service.GetGroup(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// UpdateStatus handles PATCH /admin/groups/:id/status
//
//	@Summary	Move a group to its next status
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"group id"
//	@Param		request	body		UpdateStatusRequest	true	"new status"
//	@Success	200		{object}	Group
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/admin/groups/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
