package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	exportUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/export"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type ExportHandler struct {
	exportUseCase *exportUC.UseCase
	logger        logger.Logger
}

func NewExportHandler(uc *exportUC.UseCase, log logger.Logger) *ExportHandler {
	return &ExportHandler{exportUseCase: uc, logger: log}
}

// Preview answers GET /api/resume/preview?template=&resumeId= with the
// rendered HTML document.
func (h *ExportHandler) Preview(c *gin.Context) {
	email, ok := requireOwnEmail(c, c.Query("email"))
	if !ok {
		return
	}

	var req ExportRequest
	req.TemplateID = c.DefaultQuery("template", "classic")
	if raw := c.Query("resumeId"); raw != "" {
		id, err := parseUUIDParam(raw)
		if err != nil {
			c.Error(err)
			return
		}
		req.ResumeID = id
	}

	html, err := h.exportUseCase.Preview(c.Request.Context(), exportUC.PreviewInput{
		UserEmail:  email,
		ResumeID:   req.ResumeID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Export answers POST /api/resume/export. A degraded artifact is served
// as HTML with 200 so browsers can still show the fallback page.
func (h *ExportHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for export", err))
		return
	}

	email, ok := requireOwnEmail(c, req.Email)
	if !ok {
		return
	}

	output, err := h.exportUseCase.Export(c.Request.Context(), exportUC.ExportInput{
		UserEmail:  email,
		ResumeID:   req.ResumeID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	if !output.Artifact.Degraded {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.Filename))
	}
	c.Data(http.StatusOK, output.Artifact.ContentType, output.Artifact.Bytes)
}

// RetryEngine answers POST /api/resume/export/retry: re-initializes the
// PDF engine after a failed start and reports the resulting state.
func (h *ExportHandler) RetryEngine(c *gin.Context) {
	state := h.exportUseCase.RetryEngine()
	c.JSON(http.StatusOK, gin.H{"engine": state})
}

func (h *ExportHandler) EngineState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"engine": h.exportUseCase.EngineState()})
}
