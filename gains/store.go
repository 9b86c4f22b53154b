package gains

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/westphae/quadctl/control"
)

// Store publishes whole gain snapshots to a controller. Gains may be called from the
// control tick while another goroutine calls Set, Reload or Poll.
type Store struct {
	cur atomic.Pointer[control.GainMatrix]

	mu      sync.Mutex // serializes loaders
	modTime time.Time
}

// NewStore returns a Store publishing a copy of g, or zero gains if g is nil.
func NewStore(g *control.GainMatrix) *Store {
	s := new(Store)
	if g == nil {
		g = new(control.GainMatrix)
	}
	s.Set(g)
	return s
}

// Gains returns the current snapshot. It must not be modified.
func (s *Store) Gains() *control.GainMatrix {
	return s.cur.Load()
}

// Set publishes a copy of g.
func (s *Store) Set(g *control.GainMatrix) {
	c := *g
	s.cur.Store(&c)
}

// Reload reads fn and publishes it. On error the current gains stay in place.
func (s *Store) Reload(fn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(fn)
}

func (s *Store) reload(fn string) error {
	fi, err := os.Stat(fn)
	if err != nil {
		return errors.Wrapf(err, "error reading gains from %s", fn)
	}
	g, err := Load(fn)
	if err != nil {
		return err
	}
	s.cur.Store(g)
	s.modTime = fi.ModTime()
	return nil
}

// Poll checks fn every period and reloads it whenever its modification time changes,
// until ctx is done. Load errors are logged and the previous gains kept.
func (s *Store) Poll(ctx context.Context, fn string, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		fi, err := os.Stat(fn)
		if err != nil {
			log.Printf("Gains: %s\n", err)
			continue
		}
		s.mu.Lock()
		if !fi.ModTime().Equal(s.modTime) {
			if err = s.reload(fn); err != nil {
				log.Printf("Gains: keeping previous gains: %s\n", err)
				s.modTime = fi.ModTime()
			} else {
				log.Printf("Gains: reloaded %s\n", fn)
			}
		}
		s.mu.Unlock()
	}
}
