package render

import "context"

// Artifact is the binary output of an export. Degraded marks output
// produced by the fallback engine instead of a real PDF.
type Artifact struct {
	Bytes       []byte
	ContentType string
	Degraded    bool
}

// Engine turns a rendered HTML document into a downloadable artifact.
// Callers never know whether the primary or the fallback engine is behind
// the interface.
type Engine interface {
	Render(ctx context.Context, html string) (*Artifact, error)
}
