package driven

import (
	"context"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// DetectionSource yields raw decoded payloads.
// Camera streams and gallery imports are consumed uniformly.
type DetectionSource interface {
	// Mode reports whether the source is a continuous stream or a one-shot import.
	Mode() domain.SourceMode

	// Events starts producing payloads. The channel is closed when the
	// source is exhausted or ctx is cancelled.
	Events(ctx context.Context) (<-chan string, error)
}
