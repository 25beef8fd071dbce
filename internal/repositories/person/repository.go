// Package person handles person authority record persistence
package person

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
	"github.com/Ramsey-B/laurel/pkg/simhash"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

var personColumns = []string{
	"id", "first_name", "last_name", "wikidata_id", "wiki_url",
	"authority_url", "other_url", "folded_full_name", "simhash64",
	"created_at", "updated_at",
}

var candidateColumns = "id, first_name, last_name, wikidata_id, wiki_url, authority_url, other_url, folded_full_name"

// Repository handles person row access
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new person repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// DB exposes the underlying handle so callers can open transactions that
// span this repository and the reference repository.
func (r *Repository) DB() database.DB {
	return r.db
}

// GetByID returns the person row, or nil if absent.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...)
	sb.From("people")
	sb.Where(sb.Equal("id", id))
	sb.Limit(1)

	query, args := sb.Build()
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get person")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get person")
	}
	return &person, nil
}

// GetByIDs returns full rows for the given ids, in storage order.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...)
	sb.From("people")
	sb.Where(sb.In("id", sqlbuilder.List(ids)))

	query, args := sb.Build()
	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id_count": len(ids)}).Error("Failed to get people by ids")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people")
	}
	return people, nil
}

// SearchSingleToken unions three buckets for a lone query token: whole-word
// match on folded_full_name, first-name prefix, last-name prefix. Single
// tokens are too short for the simhash prefilter to be reliable.
func (r *Repository) SearchSingleToken(ctx context.Context, token string, excludeID int64, limit int) ([]models.PersonCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.SearchSingleToken")
	defer span.End()

	// Token is already normalized to word characters, so it is safe inside
	// the regex; prefix patterns still need LIKE metacharacters escaped.
	query := `
		SELECT ` + candidateColumns + `
		FROM people
		WHERE (folded_full_name ~ ('\m' || $1 || '\M')
		   OR first_name ILIKE $2
		   OR last_name ILIKE $2)
		  AND ($3 = 0 OR id <> $3)
		ORDER BY id
		LIMIT $4
	`

	var candidates []models.PersonCandidate
	err := r.db.SelectContext(ctx, &candidates, query, token, escapeLike(token)+"%", excludeID, limit)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"token": token}).Error("Failed single-token candidate search")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search people")
	}
	return candidates, nil
}

// SearchMultiToken unions the simhash Hamming-radius bucket with a
// last-token whole-word safety net (initials or reordering can push a true
// match outside the radius).
//
// Performance note: bit_count over the XOR needs Postgres 14+ and scans the
// simhash64 index rather than using it for the distance itself; the LIMIT
// keeps the scan bounded.
func (r *Repository) SearchMultiToken(ctx context.Context, fingerprint uint64, maxHamming int, lastToken string, excludeID int64, limit int) ([]models.PersonCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.SearchMultiToken")
	defer span.End()

	query := `
		SELECT ` + candidateColumns + `
		FROM people
		WHERE (bit_count((simhash64 # $1)::bit(64)) <= $2
		   OR folded_full_name ~ ('\m' || $3 || '\M'))
		  AND ($4 = 0 OR id <> $4)
		ORDER BY id
		LIMIT $5
	`

	var candidates []models.PersonCandidate
	err := r.db.SelectContext(ctx, &candidates, query, int64(fingerprint), maxHamming, lastToken, excludeID, limit)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"max_hamming": maxHamming, "last_token": lastToken}).Error("Failed multi-token candidate search")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search people")
	}
	return candidates, nil
}

// UpdateName writes new name fields and recomputes the derived
// folded_full_name and simhash64 in the same statement. Every name-changing
// write path must go through here to keep the derived columns consistent.
func (r *Repository) UpdateName(ctx context.Context, id int64, firstName, lastName string) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.UpdateName")
	defer span.End()

	folded := normalizers.FoldFullName(firstName, lastName)
	fp := simhash.Fingerprint(folded)

	query := `
		UPDATE people
		SET first_name = $2,
		    last_name = $3,
		    folded_full_name = $4,
		    simhash64 = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + strings.Join(personColumns, ", ")

	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id, firstName, lastName, folded, int64(fp)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to update person name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update person")
	}
	return &person, nil
}

// RecomputeDerived refreshes folded_full_name and simhash64 from the stored
// name fields. Used when the owning system reports a name change without the
// derived values. Returns the row, or nil if the person no longer exists.
func (r *Repository) RecomputeDerived(ctx context.Context, id int64) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.RecomputeDerived")
	defer span.End()

	person, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, nil
	}

	folded := normalizers.FoldFullName(person.FirstName, person.LastName)
	fp := simhash.Fingerprint(folded)
	if folded == person.FoldedFullName && int64(fp) == person.Simhash {
		return person, nil
	}

	return r.UpdateName(ctx, id, person.FirstName, person.LastName)
}

// GetForUpdateTx loads and exclusively locks both rows of a merge pair. Rows
// are locked in ascending id order so overlapping merges serialize instead
// of deadlocking.
func (r *Repository) GetForUpdateTx(ctx context.Context, tx database.Tx, ids []int64) ([]models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.GetForUpdateTx")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...)
	sb.From("people")
	sb.Where(sb.In("id", sqlbuilder.List(ids)))
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	query += " FOR UPDATE"

	var people []models.Person
	if err := tx.SelectContext(ctx, &people, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"ids": ids}).Error("Failed to lock people for merge")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to lock people")
	}
	return people, nil
}

// DeleteTx removes a person row inside the caller's transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx database.Tx, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.DeleteTx")
	defer span.End()

	result, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = $1", id)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to delete person")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete person")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "person not found")
	}
	return nil
}

// escapeLike escapes LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
