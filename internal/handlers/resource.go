package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/search"
	"github.com/openlumen/catalog/internal/services"
)

type ResourceHandler struct {
	log             *logger.Logger
	engine          *search.Engine
	resourceService services.ResourceService
}

func NewResourceHandler(log *logger.Logger, engine *search.Engine, resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		log:             log.With("handler", "ResourceHandler"),
		engine:          engine,
		resourceService: resourceService,
	}
}

// Search runs the filterable catalog query. Pagination links go out as a
// Link header plus X-Total-Count, alongside the JSON body.
func (h *ResourceHandler) Search(c *gin.Context) {
	req := search.Request{
		Filter:           c.Query("filter"),
		Sort:             c.Query("sort"),
		OrderBy:          c.Query("orderBy"),
		ExpandObjectives: c.Query("expandObjectives") == "true",
	}
	if fields, ok := c.GetQuery("fields"); ok {
		req.Fields = &fields
	}
	if limit := c.Query("limit"); limit != "" {
		req.Limit, _ = strconv.Atoi(limit)
	}
	if offset := c.Query("offset"); offset != "" {
		req.Offset, _ = strconv.Atoi(offset)
	}

	result, err := h.engine.Search(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("search failed", "error", err, "filter", req.Filter)
		RespondSearchError(c, err)
		return
	}

	if link := result.Pagination.LinkHeader(c.Request.URL); link != "" {
		c.Header("Link", link)
	}
	c.Header("X-Total-Count", fmt.Sprintf("%d", result.Pagination.Total))
	RespondOK(c, result)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	var input services.ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	res, err := h.resourceService.Create(c.Request.Context(), input)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondServiceError(c, "create_resource_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resource": res})
}

func (h *ResourceHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	res, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_resource_failed", err)
		return
	}
	RespondOK(c, gin.H{"resource": res})
}

func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var input services.ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	res, err := h.resourceService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.log.Error("Update failed", "error", err, "id", id)
		RespondServiceError(c, "update_resource_failed", err)
		return
	}
	RespondOK(c, gin.H{"resource": res})
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("Delete failed", "error", err, "id", id)
		RespondServiceError(c, "delete_resource_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler) UpsertStats(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var payload struct {
		Stats []*types.ResourceStat `json:"stats"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.resourceService.UpsertStats(c.Request.Context(), id, payload.Stats); err != nil {
		h.log.Error("UpsertStats failed", "error", err, "id", id)
		RespondServiceError(c, "upsert_stats_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
