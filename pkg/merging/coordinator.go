// Package merging implements the person merge operation: rewire every
// reference from the merge record to the keep record and delete the merge
// record, as a single all-or-nothing transaction.
package merging

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/laurel/internal/repositories/person"
	"github.com/Ramsey-B/laurel/internal/repositories/reference"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Coordinator runs merge transactions
type Coordinator struct {
	logger        ectologger.Logger
	personRepo    *person.Repository
	referenceRepo *reference.Repository
	emitter       *events.Emitter
}

// NewCoordinator creates a new merge coordinator. The emitter may be nil
// when event emission is disabled.
func NewCoordinator(
	logger ectologger.Logger,
	personRepo *person.Repository,
	referenceRepo *reference.Repository,
	emitter *events.Emitter,
) *Coordinator {
	return &Coordinator{
		logger:        logger,
		personRepo:    personRepo,
		referenceRepo: referenceRepo,
		emitter:       emitter,
	}
}

// MergePeople merges req.MergeID into req.KeepID. Exactly two terminal
// outcomes exist: committed (keep owns the union of both records'
// references, merge row gone) or rolled back (no visible change).
//
// The transaction locks both person rows for its duration, so two merges
// over overlapping ids serialize. Once the transaction is open the merge is
// not cancelled mid-flight; callers that time out must re-query state
// before retrying.
func (c *Coordinator) MergePeople(ctx context.Context, req models.MergePeopleRequest) (*models.MergeOutcome, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Coordinator.MergePeople")
	defer span.End()

	if err := validate(req); err != nil {
		return nil, err
	}

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"keep_id":  req.KeepID,
		"merge_id": req.MergeID,
	})

	ctxTx, tx, err := c.personRepo.DB().GetTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.WithError(err).Error("Failed to open merge transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to merge people")
	}
	defer tx.Rollback(ctxTx)

	locked, err := c.personRepo.GetForUpdateTx(ctxTx, tx, []int64{req.KeepID, req.MergeID})
	if err != nil {
		return nil, err
	}
	if len(locked) != 2 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "person not found")
	}

	subjects, err := c.referenceRepo.ReassignSubjectsTx(ctxTx, tx, req.MergeID, req.KeepID)
	if err != nil {
		return nil, err
	}

	contributors, err := c.referenceRepo.ReassignContributorsTx(ctxTx, tx, req.MergeID, req.KeepID)
	if err != nil {
		return nil, err
	}

	if err := c.personRepo.DeleteTx(ctxTx, tx, req.MergeID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctxTx); err != nil {
		log.WithError(err).Error("Failed to commit merge transaction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to merge people")
	}

	outcome := &models.MergeOutcome{
		KeepID:                 req.KeepID,
		MergeID:                req.MergeID,
		SubjectsReassigned:     subjects,
		ContributorsReassigned: contributors,
	}

	log.WithFields(map[string]any{
		"subjects_reassigned":     subjects,
		"contributors_reassigned": contributors,
	}).Info("Merged person records")

	// The merge is durable at this point; a failed event is logged inside
	// the emitter and never unwinds the commit.
	if c.emitter != nil {
		_ = c.emitter.EmitPersonMerged(ctx, outcome)
	}

	return outcome, nil
}

func validate(req models.MergePeopleRequest) error {
	if req.KeepID == 0 || req.MergeID == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "keep_id and merge_id are required")
	}
	if req.KeepID == req.MergeID {
		return httperror.NewHTTPError(http.StatusBadRequest, "keep_id and merge_id must differ")
	}
	return nil
}
