package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/genkan-institute/genkan-api/internal/service"
	appErrors "github.com/genkan-institute/genkan-api/pkg/errors"
	"github.com/genkan-institute/genkan-api/pkg/response"
)

// ContactHandler exposes the public contact form and the admin inbox.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Submit godoc
// @Summary Submit a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body service.ContactRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	msg, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// List godoc
// @Summary List recent contact messages
// @Tags Contact
// @Produce json
// @Param limit query int false "Max messages"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	messages, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}
