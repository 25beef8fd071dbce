// Package processor keeps the derived search columns in sync with the owning
// archival system. It consumes person change messages and recomputes
// folded_full_name and simhash64 whenever a name moves.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/laurel/internal/repositories/person"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Processor handles incoming person change messages
type Processor struct {
	logger     ectologger.Logger
	personRepo *person.Repository
	emitter    *events.Emitter
}

// NewProcessor creates a new processor. The emitter may be nil when event
// emission is disabled.
func NewProcessor(logger ectologger.Logger, personRepo *person.Repository, emitter *events.Emitter) *Processor {
	return &Processor{
		logger:     logger,
		personRepo: personRepo,
		emitter:    emitter,
	}
}

// HandleMessage processes a single person change message. Returning an error
// leaves the message uncommitted so the consumer retries it.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	if !msg.IsNameChange() {
		return nil
	}

	change := msg.PersonChange
	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"person_id": change.PersonID,
		"action":    change.Action,
	})

	updated, err := p.personRepo.RecomputeDerived(ctx, change.PersonID)
	if err != nil {
		log.WithError(err).Error("Failed to recompute derived columns")
		return err
	}
	if updated == nil {
		// Row already gone; the change message outlived the record.
		log.Warn("Person no longer exists, skipping reindex")
		return nil
	}

	log.Debug("Recomputed derived search columns")

	if p.emitter != nil {
		_ = p.emitter.EmitPersonReindexed(ctx, change.PersonID)
	}

	return nil
}
