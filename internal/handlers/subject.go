package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/services"
)

type SubjectHandler struct {
	log            *logger.Logger
	subjectService services.SubjectService
}

func NewSubjectHandler(log *logger.Logger, subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		log:            log.With("handler", "SubjectHandler"),
		subjectService: subjectService,
	}
}

func (h *SubjectHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	subjects, total, err := h.subjectService.List(c.Request.Context(), c.Query("name"), limit, offset)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondServiceError(c, "load_subjects_failed", err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	RespondOK(c, gin.H{"subjects": subjects})
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var payload struct {
		Name     string `json:"name"`
		ParentID *int64 `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	subject, err := h.subjectService.Create(c.Request.Context(), payload.Name, payload.ParentID)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondServiceError(c, "create_subject_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subject": subject})
}
