package collaborator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
)

// PacedReporter notifies a named authority endpoint about incidents,
// pacing calls through a rate limiter so a burst of incidents cannot flood
// the reporting channel.
type PacedReporter struct {
	authority string
	limiter   *rate.Limiter

	mu       sync.Mutex
	notified []string
}

// NewPacedReporter builds a reporter for the given authority. perMinute is
// the sustained notification rate; burst allows short spikes.
func NewPacedReporter(authority string, perMinute, burst int) *PacedReporter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &PacedReporter{
		authority: authority,
		limiter:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

// Notify reports one incident to the authority.
func (r *PacedReporter) Notify(ctx context.Context, rec *incident.Record) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notification to %s rate limited: %w", r.authority, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, rec.ID())
	return nil
}

// Authority returns the name of the endpoint this reporter notifies.
func (r *PacedReporter) Authority() string {
	return r.authority
}

// Notified returns the incident IDs reported so far, in order.
func (r *PacedReporter) Notified() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notified))
	copy(out, r.notified)
	return out
}
