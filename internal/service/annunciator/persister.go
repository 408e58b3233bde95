package annunciator

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	"github.com/oshokin/annunciator/internal/logger"
	repo "github.com/oshokin/annunciator/internal/repository/state"
)

// persister writes the latest alarm state off the control loop.
// Offer never blocks: a pending state is replaced by a newer one.
type persister struct {
	// repo handles persistent storage of alarm state.
	repo repo.Repository
	// pending holds at most one state waiting to be written.
	pending chan domain.State
}

// newPersister creates a persister backed by the provided repository.
func newPersister(repository repo.Repository) *persister {
	return &persister{
		repo:    repository,
		pending: make(chan domain.State, 1),
	}
}

// Offer queues the state for writing, replacing any state not yet written.
func (p *persister) Offer(state domain.State) {
	for {
		select {
		case p.pending <- state:
			return
		default:
		}

		// Drop the stale state and try again.
		select {
		case <-p.pending:
		default:
		}
	}
}

// Run writes offered states until ctx is done, then flushes the last one.
func (p *persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			select {
			case state := <-p.pending:
				p.save(context.WithoutCancel(ctx), &state)
			default:
			}

			return
		case state := <-p.pending:
			p.save(ctx, &state)
		}
	}
}

// save writes one state and logs failures; a failed write is retried by the next change.
func (p *persister) save(ctx context.Context, state *domain.State) {
	if err := p.repo.Save(ctx, state); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarm state", "error", err)

		return
	}

	logger.DebugKV(ctx, "Alarm state persisted", "level", state.Level, "muted", state.Muted)
}

// restoreState loads the last persisted state; a missing file means a fresh unit.
func restoreState(ctx context.Context, repository repo.Repository) (*domain.State, error) {
	state, err := repository.Load(ctx)

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Alarm state restored",
			"level", state.Level,
			"message", state.Message,
			"muted", state.Muted,
		)

		return state, nil
	case errors.Is(err, repo.ErrNotFound):
		// Keep default state.
		return nil, nil
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}
}
