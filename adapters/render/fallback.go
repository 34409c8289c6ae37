package render

import (
	"context"
	"strings"
)

const fallbackNotice = `<div style="border:1px solid #c0392b; background:#fdecea; color:#7b241c; padding:14px 18px; font-family:sans-serif; margin-bottom:20px;">
  <strong>PDF export is unavailable right now.</strong>
  <p>The document below is your resume content rendered without the PDF engine.</p>
  <ul>
    <li><a href="javascript:window.location.reload()">Refresh Page</a> to try loading the PDF engine again.</li>
    <li>Or copy the content below and paste it into an external editor to save it yourself.</li>
  </ul>
</div>`

// FallbackEngine is the degraded-mode renderer installed when the browser
// engine cannot be constructed. It returns the HTML document itself,
// prefixed with a notice carrying the refresh and copy-content recovery
// actions.
type FallbackEngine struct{}

func NewFallbackEngine() *FallbackEngine { return &FallbackEngine{} }

func (e *FallbackEngine) Render(_ context.Context, html string) (*Artifact, error) {
	out := html
	if i := strings.Index(out, "<body>"); i >= 0 {
		out = out[:i+len("<body>")] + "\n" + fallbackNotice + out[i+len("<body>"):]
	} else {
		out = fallbackNotice + out
	}
	return &Artifact{
		Bytes:       []byte(out),
		ContentType: "text/html; charset=utf-8",
		Degraded:    true,
	}, nil
}
