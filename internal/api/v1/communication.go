package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/service"
	"github.com/vidinfra/commtrack/internal/types"
)

type CommunicationHandler struct {
	service service.CommunicationService
	log     *logger.Logger
}

func NewCommunicationHandler(service service.CommunicationService, log *logger.Logger) *CommunicationHandler {
	return &CommunicationHandler{
		service: service,
		log:     log,
	}
}

func (h *CommunicationHandler) CreateCommunication(c *gin.Context) {
	var req dto.CreateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCommunication returns an active communication with its full history
func (h *CommunicationHandler) GetCommunication(c *gin.Context) {
	resp, err := h.service.GetWithHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommunicationHandler) ListCommunications(c *gin.Context) {
	var req dto.ListCommunicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	filter := &communication.ListFilter{
		PageFilter: types.NewPageFilter(req.PageNumber, req.PageSize),
		TypeCode:   req.TypeCode,
		StatusCode: req.StatusCode,
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommunicationHandler) TransitionCommunication(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Transition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommunicationHandler) DeleteCommunication(c *gin.Context) {
	if err := h.service.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommunicationHandler) RestoreCommunication(c *gin.Context) {
	resp, err := h.service.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommunicationHandler) VerifyConsistency(c *gin.Context) {
	report, err := h.service.VerifyConsistency(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}
