package source

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// Ensure StreamSource implements the interface.
var _ driven.DetectionSource = (*StreamSource)(nil)

// maxPayloadSize bounds a single line.
const maxPayloadSize = 1 << 20

// ErrAlreadyStarted is returned when a single-use source is started twice.
var ErrAlreadyStarted = errors.New("source already started")

// StreamSource reads one payload per line. Blank lines are skipped and
// a trailing carriage return is dropped.
type StreamSource struct {
	r io.Reader

	mu      sync.Mutex
	started bool
}

// NewStreamSource creates a stream source over r.
func NewStreamSource(r io.Reader) *StreamSource {
	return &StreamSource{r: r}
}

// Mode returns domain.SourceModeStream.
func (s *StreamSource) Mode() domain.SourceMode {
	return domain.SourceModeStream
}

// Events starts reading. The reader is consumed by a background goroutine
// that exits when the reader reaches EOF; the returned channel closes as
// soon as ctx is cancelled even if a read is still blocked.
func (s *StreamSource) Events(ctx context.Context) (<-chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrAlreadyStarted
	}
	s.started = true

	lines := make(chan string)
	go s.scan(ctx, lines)

	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return
				}
				select {
				case out <- line:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *StreamSource) scan(ctx context.Context, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxPayloadSize)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("stream source: %v", err)
	}
}
