package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	adrender "github.com/niyatisanja0206/resume-builder/adapters/render"
	"github.com/niyatisanja0206/resume-builder/internal/application/usecase/stats"
	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/internal/render"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// Resolver is the slice of the resume resolver this use case needs.
type Resolver interface {
	Resolve(ctx context.Context, userEmail string, sel session.Selection) (*resume.Resume, error)
}

// UseCase drives preview and export: resolve the active document, render
// it through the selected template, and hand exports to whichever engine
// the loader has active.
type UseCase struct {
	resolver  Resolver
	sessions  session.Store
	loader    *adrender.Loader
	downloads *stats.IncrementDownloadUseCase
	logger    logger.Logger
}

func NewUseCase(
	resolver Resolver,
	sessions session.Store,
	loader *adrender.Loader,
	downloads *stats.IncrementDownloadUseCase,
	log logger.Logger,
) *UseCase {
	return &UseCase{
		resolver:  resolver,
		sessions:  sessions,
		loader:    loader,
		downloads: downloads,
		logger:    log,
	}
}

func (uc *UseCase) selection(ctx context.Context, userEmail string, resumeID *uuid.UUID) (session.Selection, error) {
	if resumeID != nil {
		return session.Selection{ResumeID: resumeID}, nil
	}
	return uc.sessions.GetSelection(ctx, userEmail)
}

type PreviewInput struct {
	UserEmail  string
	ResumeID   *uuid.UUID
	TemplateID string
}

// Preview renders the HTML view of the active resume. A user with no
// resume yet still gets a previewable page: placeholder identity plus
// "add now" affordances for every section.
func (uc *UseCase) Preview(ctx context.Context, input PreviewInput) (string, error) {
	tplID, err := render.ParseTemplateID(input.TemplateID)
	if err != nil {
		return "", apperror.NewInvalidInput(err.Error(), err)
	}

	sel, err := uc.selection(ctx, input.UserEmail, input.ResumeID)
	if err != nil {
		return "", err
	}

	doc, err := uc.resolver.Resolve(ctx, input.UserEmail, sel)
	if err != nil {
		return "", err
	}
	if doc == nil {
		doc = &resume.Resume{UserEmail: input.UserEmail, Status: resume.StatusDraft}
	}

	return render.Render(doc, tplID, render.ModePreview)
}

type ExportInput struct {
	UserEmail  string
	ResumeID   *uuid.UUID
	TemplateID string
}

type ExportOutput struct {
	Artifact *adrender.Artifact
	Filename string
}

// Export produces the downloadable artifact. When the PDF engine is in
// its failed state the fallback engine answers instead, and the attempt
// is still recorded server-side.
func (uc *UseCase) Export(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	tplID, err := render.ParseTemplateID(input.TemplateID)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	sel, err := uc.selection(ctx, input.UserEmail, input.ResumeID)
	if err != nil {
		return nil, err
	}

	doc, err := uc.resolver.Resolve(ctx, input.UserEmail, sel)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFound("resume", input.UserEmail)
	}

	html, err := render.Render(doc, tplID, render.ModeExport)
	if err != nil {
		// Document construction failure: surfaces as a diagnostic, never
		// a crash. The handler offers retry / reload on top of this.
		return nil, err
	}

	engine := uc.loader.Engine()
	artifact, err := engine.Render(ctx, html)
	if err != nil {
		return nil, apperror.NewInternal("export rendering failed", err)
	}

	if artifact.Degraded {
		var docID *uuid.UUID
		if doc.ID != uuid.Nil {
			id := doc.ID
			docID = &id
		}
		attempt := stats.IncrementDownloadInput{
			UserEmail:  input.UserEmail,
			ResumeID:   docID,
			TemplateID: string(tplID),
			Completed:  false,
		}
		if err := uc.downloads.Execute(ctx, attempt); err != nil {
			uc.logger.Warn("failed to record degraded download attempt", zap.Error(err))
		}
	}

	return &ExportOutput{
		Artifact: artifact,
		Filename: exportFilename(doc, tplID),
	}, nil
}

// RetryEngine re-enters the loader's Loading state after a failure and
// reports where the machine landed.
func (uc *UseCase) RetryEngine() string {
	uc.loader.Retry()
	return uc.loader.State().String()
}

func (uc *UseCase) EngineState() string {
	return uc.loader.State().String()
}

func exportFilename(doc *resume.Resume, tplID render.TemplateID) string {
	base := "resume"
	if doc.Basic != nil && doc.Basic.Name != "" {
		base = strings.ToLower(strings.ReplaceAll(doc.Basic.Name, " ", "-"))
	}
	return fmt.Sprintf("%s-%s.pdf", base, tplID)
}
