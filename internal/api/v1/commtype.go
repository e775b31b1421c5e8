package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidinfra/commtrack/internal/api/dto"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/service"
)

type TypeHandler struct {
	taxonomy service.TaxonomyService
	mappings service.MappingService
	log      *logger.Logger
}

func NewTypeHandler(
	taxonomy service.TaxonomyService,
	mappings service.MappingService,
	log *logger.Logger,
) *TypeHandler {
	return &TypeHandler{
		taxonomy: taxonomy,
		mappings: mappings,
		log:      log,
	}
}

func (h *TypeHandler) CreateType(c *gin.Context) {
	var req dto.CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.taxonomy.CreateType(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *TypeHandler) GetType(c *gin.Context) {
	resp, err := h.taxonomy.GetType(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TypeHandler) ListTypes(c *gin.Context) {
	var query includeInactiveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	items, err := h.taxonomy.ListTypes(c.Request.Context(), query.IncludeInactive)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ListTypesResponse{Items: items})
}

func (h *TypeHandler) UpdateType(c *gin.Context) {
	var req dto.UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.taxonomy.UpdateType(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TypeHandler) DeleteType(c *gin.Context) {
	if err := h.taxonomy.SoftDeleteType(c.Request.Context(), c.Param("code")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TypeHandler) RestoreType(c *gin.Context) {
	resp, err := h.taxonomy.RestoreType(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMappings returns the active type status rows of a type in sort order
func (h *TypeHandler) ListMappings(c *gin.Context) {
	typeCode := c.Param("code")

	items, err := h.mappings.ListMappings(c.Request.Context(), typeCode)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.MappingsResponse{TypeCode: typeCode, Items: items})
}

// ReplaceMappings swaps the whole allow-list of a type in one transaction
func (h *TypeHandler) ReplaceMappings(c *gin.Context) {
	typeCode := c.Param("code")

	var req dto.ReplaceMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	items, err := h.mappings.ReplaceMappings(c.Request.Context(), typeCode, req.StatusCodes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.MappingsResponse{TypeCode: typeCode, Items: items})
}

func (h *TypeHandler) ValidateStatusCodes(c *gin.Context) {
	typeCode := c.Param("code")

	var req dto.ValidateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	valid, err := h.mappings.ValidateCodes(c.Request.Context(), typeCode, req.StatusCodes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ValidateCodesResponse{
		TypeCode:    typeCode,
		StatusCodes: req.StatusCodes,
		Valid:       valid,
	})
}
