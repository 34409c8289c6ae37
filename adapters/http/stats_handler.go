package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	statsUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/stats"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type StatsHandler struct {
	getUseCase       *statsUC.GetStatsUseCase
	incrementUseCase *statsUC.IncrementDownloadUseCase
	logger           logger.Logger
}

func NewStatsHandler(get *statsUC.GetStatsUseCase, increment *statsUC.IncrementDownloadUseCase, log logger.Logger) *StatsHandler {
	return &StatsHandler{getUseCase: get, incrementUseCase: increment, logger: log}
}

// UserStats answers GET /api/auth/user-stats?email=.
func (h *StatsHandler) UserStats(c *gin.Context) {
	email, ok := requireOwnEmail(c, c.Query("email"))
	if !ok {
		return
	}

	stats, err := h.getUseCase.Execute(c.Request.Context(), email)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, StatsDTO{
		NoOfResumes:      stats.NoOfResumes,
		ResumeDownloaded: stats.ResumeDownloaded,
	})
}

// IncrementDownload answers POST /api/auth/increment-download-count.
// Clients call it after a download completes on their side; the count
// moves only for completed downloads.
func (h *StatsHandler) IncrementDownload(c *gin.Context) {
	var req IncrementDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for download count", err))
		return
	}

	email, ok := requireOwnEmail(c, req.Email)
	if !ok {
		return
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	if err := h.incrementUseCase.Execute(c.Request.Context(), statsUC.IncrementDownloadInput{
		UserEmail:  email,
		ResumeID:   req.ResumeID,
		TemplateID: req.TemplateID,
		Completed:  completed,
	}); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
