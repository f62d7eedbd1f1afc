package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/services"
)

type TaxonomyHandler struct {
	log             *logger.Logger
	taxonomyService services.TaxonomyService
}

func NewTaxonomyHandler(log *logger.Logger, taxonomyService services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		log:             log.With("handler", "TaxonomyHandler"),
		taxonomyService: taxonomyService,
	}
}

func (h *TaxonomyHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	taxonomies, err := h.taxonomyService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondServiceError(c, "load_taxonomies_failed", err)
		return
	}
	RespondOK(c, gin.H{"taxonomies": taxonomies})
}

func (h *TaxonomyHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	tax, err := h.taxonomyService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_taxonomy_failed", err)
		return
	}
	RespondOK(c, gin.H{"taxonomy": tax})
}

func (h *TaxonomyHandler) Create(c *gin.Context) {
	var payload struct {
		Taxonomies []*types.Taxonomy `json:"taxonomies"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	created, err := h.taxonomyService.Create(c.Request.Context(), payload.Taxonomies)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondServiceError(c, "create_taxonomies_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"taxonomies": created})
}

func (h *TaxonomyHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.taxonomyService.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondServiceError(c, "delete_taxonomy_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaxonomyHandler) CreateMapping(c *gin.Context) {
	var payload struct {
		TaxonomyID int64 `json:"taxonomyId"`
		TargetID   int64 `json:"targetId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	mapping, err := h.taxonomyService.CreateMapping(c.Request.Context(), payload.TaxonomyID, payload.TargetID)
	if err != nil {
		h.log.Error("CreateMapping failed", "error", err)
		RespondServiceError(c, "create_mapping_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mapping": mapping})
}

func (h *TaxonomyHandler) DeleteMapping(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.taxonomyService.DeleteMapping(c.Request.Context(), id); err != nil {
		h.log.Error("DeleteMapping failed", "error", err, "id", id)
		RespondServiceError(c, "delete_mapping_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaxonomyHandler) SetAlignmentStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var payload struct {
		Status int `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.taxonomyService.SetAlignmentStatus(c.Request.Context(), id, payload.Status); err != nil {
		h.log.Error("SetAlignmentStatus failed", "error", err, "id", id)
		RespondServiceError(c, "set_alignment_status_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
