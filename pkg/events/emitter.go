// Package events handles event emission for person lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for Laurel
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitPersonMerged emits a person.merged event after a merge commits.
// Consumers key off the surviving person id.
func (e *Emitter) EmitPersonMerged(ctx context.Context, outcome *models.MergeOutcome) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPersonMerged")
	defer span.End()

	event := &kafka.PersonEvent{
		EventType:              "person.merged",
		SchemaVersion:          SchemaVersion,
		PersonID:               outcome.KeepID,
		KeepID:                 outcome.KeepID,
		MergedID:               outcome.MergeID,
		SubjectsReassigned:     outcome.SubjectsReassigned,
		ContributorsReassigned: outcome.ContributorsReassigned,
		CorrelationID:          uuid.New().String(),
	}

	if err := e.producer.PublishPersonEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit person.merged event")
		return err
	}

	return nil
}

// EmitPersonReindexed emits a person.reindexed event after the derived search
// columns for a person are recomputed.
func (e *Emitter) EmitPersonReindexed(ctx context.Context, personID int64) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPersonReindexed")
	defer span.End()

	event := &kafka.PersonEvent{
		EventType:     "person.reindexed",
		SchemaVersion: SchemaVersion,
		PersonID:      personID,
		CorrelationID: uuid.New().String(),
	}

	if err := e.producer.PublishPersonEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit person.reindexed event")
		return err
	}

	return nil
}
