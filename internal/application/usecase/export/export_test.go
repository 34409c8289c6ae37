package export

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niyatisanja0206/resume-builder/adapters/event"
	adrender "github.com/niyatisanja0206/resume-builder/adapters/render"
	"github.com/niyatisanja0206/resume-builder/internal/application/usecase/stats"
	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/internal/domain/session"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type fakeResolver struct {
	doc     *resume.Resume
	err     error
	lastSel session.Selection
}

func (f *fakeResolver) Resolve(ctx context.Context, userEmail string, sel session.Selection) (*resume.Resume, error) {
	f.lastSel = sel
	return f.doc, f.err
}

// fakeSessions stubs only selection reads; the rest panics via the nil
// embedded interface.
type fakeSessions struct {
	session.Store
	sel session.Selection
}

func (f *fakeSessions) GetSelection(ctx context.Context, userEmail string) (session.Selection, error) {
	return f.sel, nil
}

type fakeStatsRepo struct {
	resume.Repository

	mu             sync.Mutex
	incrementCalls int
}

func (f *fakeStatsRepo) IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	return nil
}

type nopStatsCache struct{}

func (nopStatsCache) Get(ctx context.Context, userEmail string) (*resume.Stats, error) { return nil, nil }
func (nopStatsCache) Set(ctx context.Context, userEmail string, s *resume.Stats) error { return nil }
func (nopStatsCache) Delete(ctx context.Context, userEmail string) error               { return nil }

type capturePublisher struct {
	mu       sync.Mutex
	payloads []event.DownloadEventPayload
}

func (p *capturePublisher) PublishDownloadEvent(ctx context.Context, payload event.DownloadEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type pdfEngine struct{}

func (pdfEngine) Render(ctx context.Context, html string) (*adrender.Artifact, error) {
	return &adrender.Artifact{Bytes: []byte("%PDF-1.4"), ContentType: "application/pdf"}, nil
}

func sampleDoc() *resume.Resume {
	return &resume.Resume{
		ID:        uuid.New(),
		UserEmail: "dana@b.com",
		Title:     "My Resume",
		Status:    resume.StatusDraft,
		Basic:     &resume.BasicInfo{Name: "Dana Okafor", Email: "dana@b.com"},
	}
}

type fixture struct {
	uc        *UseCase
	resolver  *fakeResolver
	repo      *fakeStatsRepo
	publisher *capturePublisher
	loader    *adrender.Loader
}

func newFixture(doc *resume.Resume, engineErr error) *fixture {
	resolver := &fakeResolver{doc: doc}
	repo := &fakeStatsRepo{}
	publisher := &capturePublisher{}
	downloads := stats.NewIncrementDownloadUseCase(repo, nopStatsCache{}, publisher, logger.NewNop())
	loader := adrender.NewLoader(func() (adrender.Engine, error) {
		if engineErr != nil {
			return nil, engineErr
		}
		return pdfEngine{}, nil
	}, adrender.NewFallbackEngine(), logger.NewNop())
	uc := NewUseCase(resolver, &fakeSessions{}, loader, downloads, logger.NewNop())
	return &fixture{uc: uc, resolver: resolver, repo: repo, publisher: publisher, loader: loader}
}

func TestPreview_RendersActiveResume(t *testing.T) {
	f := newFixture(sampleDoc(), nil)

	html, err := f.uc.Preview(context.Background(), PreviewInput{
		UserEmail:  "dana@b.com",
		TemplateID: "classic",
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Dana Okafor")
}

func TestPreview_NoResumeStillPreviewable(t *testing.T) {
	f := newFixture(nil, nil)

	html, err := f.uc.Preview(context.Background(), PreviewInput{
		UserEmail:  "new@b.com",
		TemplateID: "classic",
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Your Name")
	assert.Contains(t, html, "Add them now.")
}

func TestPreview_RejectsUnknownTemplate(t *testing.T) {
	f := newFixture(sampleDoc(), nil)

	_, err := f.uc.Preview(context.Background(), PreviewInput{
		UserEmail:  "dana@b.com",
		TemplateID: "fancy",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestExport_ProducesPDFFromActiveEngine(t *testing.T) {
	f := newFixture(sampleDoc(), nil)

	out, err := f.uc.Export(context.Background(), ExportInput{
		UserEmail:  "dana@b.com",
		TemplateID: "modern",
	})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.Artifact.ContentType)
	assert.False(t, out.Artifact.Degraded)
	assert.Equal(t, "dana-okafor-modern.pdf", out.Filename)

	// A successful export does not move the download counter; the client
	// reports completion separately.
	assert.Zero(t, f.repo.incrementCalls)
	assert.Empty(t, f.publisher.payloads)
}

func TestExport_ExplicitIDPinsSelection(t *testing.T) {
	doc := sampleDoc()
	f := newFixture(doc, nil)

	_, err := f.uc.Export(context.Background(), ExportInput{
		UserEmail:  "dana@b.com",
		ResumeID:   &doc.ID,
		TemplateID: "classic",
	})

	require.NoError(t, err)
	require.NotNil(t, f.resolver.lastSel.ResumeID)
	assert.Equal(t, doc.ID, *f.resolver.lastSel.ResumeID)
}

func TestExport_NoResumeIsNotFound(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.uc.Export(context.Background(), ExportInput{
		UserEmail:  "nobody@b.com",
		TemplateID: "classic",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestExport_DegradedEngineRecordsAttempt(t *testing.T) {
	f := newFixture(sampleDoc(), errors.New("chrome missing"))

	out, err := f.uc.Export(context.Background(), ExportInput{
		UserEmail:  "dana@b.com",
		TemplateID: "classic",
	})

	require.NoError(t, err)
	assert.True(t, out.Artifact.Degraded)
	assert.Contains(t, string(out.Artifact.Bytes), "Refresh Page")

	// The attempt is recorded without moving the counter.
	assert.Zero(t, f.repo.incrementCalls)
	require.Len(t, f.publisher.payloads, 1)
	assert.False(t, f.publisher.payloads[0].Completed)
}

func TestRetryEngine_RecoversFromFailedState(t *testing.T) {
	bootErr := errors.New("chrome missing")
	f := newFixture(sampleDoc(), bootErr)

	_, err := f.uc.Export(context.Background(), ExportInput{
		UserEmail:  "dana@b.com",
		TemplateID: "classic",
	})
	require.NoError(t, err)
	assert.Equal(t, "failed", f.uc.EngineState())

	state := f.uc.RetryEngine()
	assert.Equal(t, "failed", state)
}

func TestExportFilename_FallsBackWithoutName(t *testing.T) {
	doc := sampleDoc()
	doc.Basic = nil

	assert.Equal(t, "resume-classic.pdf", exportFilename(doc, "classic"))
}
