// Package loader fetches the performance document from an ordered chain of
// sources, falling back to the empty document when every source fails.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

var ErrDataUnavailable = errors.New("no performance data available")

// OriginEmpty names the built-in empty document in Load results.
const OriginEmpty = "empty"

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

type Loader struct {
	sources []Source
	logger  *slog.Logger
	now     func() time.Time
}

func New(logger *slog.Logger, sources ...Source) *Loader {
	return &Loader{sources: sources, logger: logger, now: time.Now}
}

// Load returns the first document that can be fetched and decoded, along with
// the name of the source it came from. When all sources fail it returns the
// empty document together with an error wrapping ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context) (*snapshot.Snapshot, string, error) {
	var errs []error
	for _, src := range l.sources {
		snap, err := l.loadFrom(ctx, src)
		if err != nil {
			l.logger.Warn("snapshot source failed", "source", src.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		l.logger.Debug("snapshot loaded", "source", src.Name(), "last_updated", snap.LastUpdated,
			"members", len(snap.Members), "version", snap.Version)
		return snap, src.Name(), nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no sources configured"))
	}
	return snapshot.Empty(l.now()), OriginEmpty, fmt.Errorf("%w: %w", ErrDataUnavailable, errors.Join(errs...))
}

func (l *Loader) loadFrom(ctx context.Context, src Source) (*snapshot.Snapshot, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(data)
}
