package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/service"
)

type StatusHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewStatusHandler(service service.CatalogService, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		service: service,
		log:     log,
	}
}

type includeInactiveQuery struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ListStatuses returns the catalog in (phase, sort order, code) order
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	var query includeInactiveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	list := h.service.ListActive
	if query.IncludeInactive {
		list = h.service.ListAll
	}

	statuses, err := list(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListStatusesResponse(statuses))
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	status, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.StatusResponse{GlobalStatus: status})
}

func (h *StatusHandler) ProvisionStatus(c *gin.Context) {
	var req dto.ProvisionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	status, err := h.service.Provision(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, &dto.StatusResponse{GlobalStatus: status})
}

func (h *StatusHandler) ActivateStatus(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateStatus is refused while a mapping or an active communication
// still uses the code
func (h *StatusHandler) DeactivateStatus(c *gin.Context) {
	h.setActive(c, false)
}

func (h *StatusHandler) setActive(c *gin.Context, active bool) {
	status, err := h.service.SetActive(c.Request.Context(), c.Param("code"), active)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.StatusResponse{GlobalStatus: status})
}
