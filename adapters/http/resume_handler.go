package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	resumeUC "github.com/niyatisanja0206/resume-builder/internal/application/usecase/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type ResumeHandler struct {
	resolveUseCase  *resumeUC.ResolveUseCase
	saveUseCase     *resumeUC.SaveSectionUseCase
	newUseCase      *resumeUC.NewResumeUseCase
	listUseCase     *resumeUC.ListResumesUseCase
	deleteUseCase   *resumeUC.DeleteResumeUseCase
	draftUseCase    *resumeUC.DraftUseCase
	purgeUseCase    *resumeUC.PurgeTemporaryUseCase
	logger          logger.Logger
}

func NewResumeHandler(
	resolve *resumeUC.ResolveUseCase,
	save *resumeUC.SaveSectionUseCase,
	newResume *resumeUC.NewResumeUseCase,
	list *resumeUC.ListResumesUseCase,
	deleteResume *resumeUC.DeleteResumeUseCase,
	draft *resumeUC.DraftUseCase,
	purge *resumeUC.PurgeTemporaryUseCase,
	log logger.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		resolveUseCase: resolve,
		saveUseCase:    save,
		newUseCase:     newResume,
		listUseCase:    list,
		deleteUseCase:  deleteResume,
		draftUseCase:   draft,
		purgeUseCase:   purge,
		logger:         log,
	}
}

// requireOwnEmail rejects requests addressing another user's data. The
// token is authoritative; an empty requested email falls back to it.
func requireOwnEmail(c *gin.Context, requested string) (string, bool) {
	email, ok := GetUserEmailFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("user email not found in context"))
		return "", false
	}
	if requested != "" && requested != email {
		c.Error(apperror.NewPermissionDenied("cannot access another user's resume data"))
		return "", false
	}
	return email, true
}

// GetResumeData answers GET /api/resume/data/:email?resumeId=. A user
// with no resume yet gets 404, which clients treat as "no resume", not a
// failure.
func (h *ResumeHandler) GetResumeData(c *gin.Context) {
	email, ok := requireOwnEmail(c, c.Param("email"))
	if !ok {
		return
	}

	sel := session.Selection{}
	if raw := c.Query("resumeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.Error(apperror.NewInvalidInput("resumeId is not a valid id", err))
			return
		}
		sel.ResumeID = &id
	}

	doc, err := h.resolveUseCase.Resolve(c.Request.Context(), email, sel)
	if err != nil {
		c.Error(err)
		return
	}
	if doc == nil {
		c.Error(apperror.NewNotFound("resume", email))
		return
	}

	c.JSON(http.StatusOK, ToResumeDTO(doc))
}

// SaveResume answers POST /api/resume/save with a partial update body.
func (h *ResumeHandler) SaveResume(c *gin.Context) {
	email, ok := requireOwnEmail(c, "")
	if !ok {
		return
	}

	var req SaveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for resume save", err))
		return
	}

	sections := req.Sections()
	if len(sections) == 0 {
		c.Error(apperror.NewInvalidInput("no resume section in request body", nil))
		return
	}

	var resumeID uuid.UUID
	for name, data := range sections {
		output, err := h.saveUseCase.Execute(c.Request.Context(), resumeUC.SaveSectionInput{
			UserEmail: email,
			Section:   name,
			Data:      data,
			ResumeID:  req.ResumeID,
		})
		if err != nil {
			c.Error(err)
			return
		}
		resumeID = output.ResumeID

		// Later sections in the same request target the id the first
		// save settled on.
		if req.ResumeID == nil {
			id := output.ResumeID
			req.ResumeID = &id
		}
	}

	c.JSON(http.StatusOK, SaveResumeResponse{ResumeID: resumeID})
}

func (h *ResumeHandler) NewResume(c *gin.Context) {
	email, ok := requireOwnEmail(c, "")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	// Body is optional for this endpoint.
	_ = c.ShouldBindJSON(&req)

	output, err := h.newUseCase.Execute(c.Request.Context(), resumeUC.NewResumeInput{
		UserEmail: email,
		Title:     req.Title,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, NewResumeResponse{
		ResumeID: output.Resume.ID,
		Resume:   ToResumeDTO(output.Resume),
	})
}

func (h *ResumeHandler) ListResumes(c *gin.Context) {
	email, ok := requireOwnEmail(c, c.Query("email"))
	if !ok {
		return
	}

	output, err := h.listUseCase.Execute(c.Request.Context(), resumeUC.ListResumesInput{UserEmail: email})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]ResumeDTO, len(output.Resumes))
	for i, r := range output.Resumes {
		dtos[i] = ToResumeDTO(r)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	email, ok := requireOwnEmail(c, "")
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("resume id is not valid", err))
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), resumeUC.DeleteResumeInput{
		UserEmail: email,
		ResumeID:  id,
	}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// PurgeTemporary answers DELETE /api/resume/temporary: all unsaved state
// for the user goes at once.
func (h *ResumeHandler) PurgeTemporary(c *gin.Context) {
	var req PurgeTemporaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for purge", err))
		return
	}

	email, ok := requireOwnEmail(c, req.UserEmail)
	if !ok {
		return
	}

	if err := h.purgeUseCase.Execute(c.Request.Context(), email); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "purged"})
}

func (h *ResumeHandler) PutDraft(c *gin.Context) {
	email, ok := requireOwnEmail(c, "")
	if !ok {
		return
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for draft", err))
		return
	}

	if err := h.draftUseCase.Put(c.Request.Context(), email, c.Param("section"), req.Data); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

func (h *ResumeHandler) GetDraft(c *gin.Context) {
	email, ok := requireOwnEmail(c, "")
	if !ok {
		return
	}

	data, err := h.draftUseCase.Get(c.Request.Context(), email, c.Param("section"))
	if err != nil {
		c.Error(err)
		return
	}
	if data == nil {
		c.Error(apperror.NewNotFound("draft", c.Param("section")))
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}
