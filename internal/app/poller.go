package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"

	"github.com/five82/runlog/internal/logtail"
	"github.com/five82/runlog/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Source produces the current contents of a followed log.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads a log file through logtail.
type FileSource struct {
	Path      string
	TailLines int
}

func (f FileSource) Read(context.Context) ([]byte, error) {
	return logtail.Read(f.Path, f.TailLines)
}

// StartPoller launches a background goroutine that re-reads src and
// publishes changes to the store. The first read happens one interval after
// the call; callers seed the store themselves. After failures the wait
// doubles up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, src Source, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		hasher := blake3.New()
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := refresh(ctx, store, src, hasher); err != nil {
				failures++
				slog.Warn("log read failed",
					"error", err,
					"failures", failures,
					"retry_in", calculateBackoff(failures, interval))
				continue
			}
			failures = 0
		}
	}()
}

// calculateBackoff returns the wait before the next read after the given
// number of consecutive failures: base, then doubling, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures && wait < maxBackoff; i++ {
		wait *= 2
	}
	if wait > maxBackoff {
		return maxBackoff
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, src Source, hasher *blake3.Hasher) error {
	raw, err := src.Read(ctx)
	if err != nil {
		store.Update(nil, state.Digest{}, err)
		return err
	}
	if store.Update(raw, digest(hasher, raw), nil) {
		slog.Debug("log changed", "bytes", len(raw), "version", store.Version())
	}
	return nil
}

func digest(hasher *blake3.Hasher, raw []byte) state.Digest {
	hasher.Reset()
	_, _ = hasher.Write(raw)
	var d state.Digest
	copy(d[:], hasher.Sum(nil))
	return d
}
