// Package matching implements person similarity search: candidate retrieval
// over two bucketing paths, batched scoring, and ranking.
package matching

import (
	"context"
	"math"
	"net/http"
	"sort"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/simhash"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Default search parameters. Each can be overridden per request.
const (
	DefaultLimit         = 10
	DefaultMinSimilarity = 0.2
	DefaultMaxCandidates = 5000
	DefaultMaxHamming    = 8

	scoreWorkers = 8
)

// Options are per-request search knobs.
type Options struct {
	Limit         int     // max results returned (default 10)
	MinSimilarity float64 // retain candidates scoring >= MinSimilarity*100 (default 0.2)
	MaxCandidates int     // retrieval bound (default 5000)
	MaxHamming    int     // simhash prefilter radius for multi-token queries (default 8)
}

// fillFrom copies any field the request left unset from the fallback.
func (o Options) fillFrom(fallback Options) Options {
	if o.Limit <= 0 {
		o.Limit = fallback.Limit
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = fallback.MinSimilarity
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = fallback.MaxCandidates
	}
	if o.MaxHamming <= 0 {
		o.MaxHamming = fallback.MaxHamming
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.MaxHamming <= 0 {
		o.MaxHamming = DefaultMaxHamming
	}
	return o
}

// PersonStore is the read surface the search path needs from storage.
type PersonStore interface {
	// GetByID returns the person row, or nil if absent.
	GetByID(ctx context.Context, id int64) (*models.Person, error)
	// GetByIDs returns full rows for the given ids, in any order.
	GetByIDs(ctx context.Context, ids []int64) ([]models.Person, error)
	// SearchSingleToken unions whole-word, first-name-prefix and
	// last-name-prefix buckets for a lone query token.
	SearchSingleToken(ctx context.Context, token string, excludeID int64, limit int) ([]models.PersonCandidate, error)
	// SearchMultiToken unions the simhash Hamming-radius bucket with a
	// last-token whole-word safety net.
	SearchMultiToken(ctx context.Context, fingerprint uint64, maxHamming int, lastToken string, excludeID int64, limit int) ([]models.PersonCandidate, error)
}

// Service runs the similarity search pipeline. The search path is read-only
// and stateless across requests; any number of instances may serve
// concurrently.
type Service struct {
	logger   ectologger.Logger
	store    PersonStore
	scorer   *Scorer
	defaults Options
}

// NewService creates a new matching service.
func NewService(logger ectologger.Logger, store PersonStore) *Service {
	return &Service{
		logger: logger,
		store:  store,
		scorer: NewScorer(),
	}
}

// SetDefaults overrides the built-in search defaults. Per-request Options
// still win for any field they set.
func (s *Service) SetDefaults(opts Options) {
	s.defaults = opts
}

// FindSimilarToPerson searches for records similar to an existing person,
// using the person's own name as the query and excluding the person itself.
func (s *Service) FindSimilarToPerson(ctx context.Context, personID int64, opts Options) ([]models.SimilarPerson, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.FindSimilarToPerson")
	defer span.End()

	person, err := s.store.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "person not found")
	}

	return s.FindSimilar(ctx, person.FullName(), person.ID, opts)
}

// FindSimilar retrieves, scores and ranks candidates for a free-text name.
// excludeID, when nonzero, drops that person from the candidate set. An
// empty or whitespace-only query returns an empty list without touching
// storage.
func (s *Service) FindSimilar(ctx context.Context, rawQuery string, excludeID int64, opts Options) ([]models.SimilarPerson, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.FindSimilar")
	defer span.End()

	opts = opts.fillFrom(s.defaults).withDefaults()

	query := ParseQuery(rawQuery)
	if query == nil {
		return []models.SimilarPerson{}, nil
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"query":      query.Text(),
		"exclude_id": excludeID,
	})

	candidates, err := s.retrieve(ctx, query, excludeID, opts)
	if err != nil {
		return nil, err
	}

	// Retrieval is the expensive leg; if the request deadline is already
	// gone, report partial-unavailable instead of burning the scoring
	// budget on a response nobody is waiting for.
	if ctx.Err() != nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "search aborted: request deadline exceeded during retrieval")
	}

	scores, err := s.scoreCandidates(ctx, query, candidates, opts)
	if err != nil {
		return nil, err
	}

	ranked, err := s.rank(ctx, candidates, scores, opts)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]any{
		"candidate_count": len(candidates),
		"result_count":    len(ranked),
	}).Debug("Similarity search complete")

	return ranked, nil
}

// retrieve dispatches to the bucketing strategy for the query variant.
func (s *Service) retrieve(ctx context.Context, query Query, excludeID int64, opts Options) ([]models.PersonCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.retrieve")
	defer span.End()

	switch q := query.(type) {
	case SingleToken:
		return s.store.SearchSingleToken(ctx, string(q), excludeID, opts.MaxCandidates)
	case MultiToken:
		fp := simhash.Fingerprint(q.Text())
		return s.store.SearchMultiToken(ctx, fp, opts.MaxHamming, q.Last(), excludeID, opts.MaxCandidates)
	default:
		return nil, nil
	}
}

// scoreCandidates computes a score per candidate. The n-gram similarity is a
// single batched computation over query + candidates; the per-candidate
// ratio and boosts are independent and run on a bounded worker pool.
func (s *Service) scoreCandidates(ctx context.Context, query Query, candidates []models.PersonCandidate, opts Options) ([]int, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.scoreCandidates")
	defer span.End()

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.FoldedFullName
	}

	var ngramSims []float64
	if mt, ok := query.(MultiToken); ok {
		sims, err := NGramSimilarities(mt.Text(), texts, opts.MaxCandidates)
		if err != nil {
			// Recoverable: score on the ratio leg alone rather than
			// failing the whole query.
			s.logger.WithContext(ctx).WithError(err).Warn("N-gram similarity unavailable, substituting zero")
			sims = make([]float64, len(candidates))
		}
		ngramSims = sims
	}

	scores := make([]int, len(candidates))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(scoreWorkers)
	for i := range candidates {
		g.Go(func() error {
			switch q := query.(type) {
			case SingleToken:
				scores[i] = s.scorer.ScoreSingleToken(q, texts[i])
			case MultiToken:
				scores[i] = s.scorer.ScoreMultiToken(q, texts[i], ngramSims[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scores, nil
}

// rank filters below-threshold candidates, sorts by score descending with
// retrieval order breaking ties, truncates to the limit, and re-fetches full
// rows for the survivors.
func (s *Service) rank(ctx context.Context, candidates []models.PersonCandidate, scores []int, opts Options) ([]models.SimilarPerson, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.rank")
	defer span.End()

	threshold := int(math.Round(opts.MinSimilarity * 100))

	type ranked struct {
		id    int64
		score int
	}
	retained := make([]ranked, 0, len(candidates))
	for i, c := range candidates {
		if scores[i] >= threshold {
			retained = append(retained, ranked{id: c.ID, score: scores[i]})
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].score > retained[j].score
	})
	if len(retained) > opts.Limit {
		retained = retained[:opts.Limit]
	}

	if len(retained) == 0 {
		return []models.SimilarPerson{}, nil
	}

	ids := make([]int64, len(retained))
	for i, r := range retained {
		ids[i] = r.id
	}

	people, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	results := make([]models.SimilarPerson, 0, len(retained))
	for _, r := range retained {
		person, ok := byID[r.id]
		if !ok {
			// Row deleted between scoring and re-fetch; skip it.
			continue
		}
		results = append(results, models.SimilarPerson{
			Person:            person,
			SimilarityPercent: r.score,
		})
	}

	return results, nil
}
