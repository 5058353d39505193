package source

import (
	"context"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
)

// Ensure GallerySource implements the interface.
var _ driven.DetectionSource = (*GallerySource)(nil)

// GallerySource emits a fixed list of payloads, in order, and ends.
type GallerySource struct {
	payloads []string
}

// NewGallerySource creates a gallery source.
func NewGallerySource(payloads ...string) *GallerySource {
	return &GallerySource{payloads: append([]string(nil), payloads...)}
}

// Mode returns domain.SourceModeGallery.
func (s *GallerySource) Mode() domain.SourceMode {
	return domain.SourceModeGallery
}

// Events emits every payload and closes the channel.
func (s *GallerySource) Events(ctx context.Context) (<-chan string, error) {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, p := range s.payloads {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
