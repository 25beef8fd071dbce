// Package reference handles the edges other records hold onto people:
// many-to-many subject links and one-to-many contributor links. Both tables
// are owned by the surrounding archival system; this service only rewires
// them during a merge, always inside the caller's transaction.
package reference

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Repository rewires reference edges between person records
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new reference repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ReassignSubjectsTx moves every subject edge from one person to another:
// additive first (insert the keep-side edge where missing), then
// subtractive (drop the merge-side edges). The keep side ends up a superset
// and no duplicate edges are created when keep was already linked.
func (r *Repository) ReassignSubjectsTx(ctx context.Context, tx database.Tx, fromPersonID, toPersonID int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "reference.Repository.ReassignSubjectsTx")
	defer span.End()

	insertQuery := `
		INSERT INTO record_subjects (record_id, person_id)
		SELECT record_id, $2
		FROM record_subjects
		WHERE person_id = $1
		ON CONFLICT (record_id, person_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insertQuery, fromPersonID, toPersonID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromPersonID, "to": toPersonID}).Error("Failed to add subject edges to keep person")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign subject references")
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM record_subjects WHERE person_id = $1", fromPersonID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromPersonID}).Error("Failed to remove subject edges from merge person")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign subject references")
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign subject references")
	}
	return moved, nil
}

// ReassignContributorsTx repoints contributor edges in bulk, preserving the
// role each edge carries.
func (r *Repository) ReassignContributorsTx(ctx context.Context, tx database.Tx, fromPersonID, toPersonID int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "reference.Repository.ReassignContributorsTx")
	defer span.End()

	result, err := tx.ExecContext(ctx, "UPDATE record_contributors SET person_id = $2 WHERE person_id = $1", fromPersonID, toPersonID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromPersonID, "to": toPersonID}).Error("Failed to repoint contributor edges")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign contributor references")
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign contributor references")
	}
	return moved, nil
}
