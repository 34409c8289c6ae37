package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// ChromeEngine prints HTML to PDF through a headless browser.
type ChromeEngine struct {
	execPath string
	timeout  time.Duration
}

// NewChromeEngine probes for a usable browser binary up front so a missing
// or broken installation fails at construction, not mid-export. The caller
// installs the fallback engine when this returns an error.
func NewChromeEngine(chromePath string, timeout time.Duration) (*ChromeEngine, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	if chromePath != "" {
		if _, err := os.Stat(chromePath); err != nil {
			return nil, fmt.Errorf("configured browser %q not usable: %w", chromePath, err)
		}
		return &ChromeEngine{execPath: chromePath, timeout: timeout}, nil
	}

	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return &ChromeEngine{execPath: p, timeout: timeout}, nil
		}
	}
	return nil, fmt.Errorf("no headless browser found on PATH")
}

func (e *ChromeEngine) Render(ctx context.Context, html string) (*Artifact, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(e.execPath),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, e.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-export-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> 8.27in x 11.69in
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf print failed: %w", err)
	}

	return &Artifact{Bytes: pdfBuf, ContentType: "application/pdf"}, nil
}
