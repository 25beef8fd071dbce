// Package person exposes the person similarity and merge HTTP endpoints
package person

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/merging"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

var validate = validator.New()

// Register registers person routes
func Register(g *echo.Group) {
	g.GET("/:id/similar", FindSimilarPeople)
	g.POST("/merge", MergePeople)
}

// FindSimilarPeople returns people ranked by name similarity to the person
// identified in the path.
func FindSimilarPeople(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "person.FindSimilarPeople")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid person id")
	}

	opts, err := parseSearchOptions(c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	results, err := svc.FindSimilarToPerson(ctx, id, opts)
	if err != nil {
		return err
	}
	if results == nil {
		results = []models.SimilarPerson{}
	}

	return c.JSON(http.StatusOK, results)
}

// MergePeople merges one person record into another and reports how many
// references moved.
func MergePeople(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "person.MergePeople")
	defer span.End()

	var req models.MergePeopleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "keep_id and merge_id are required and must differ")
	}

	ctx, coordinator, err := ectoinject.GetContext[*merging.Coordinator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	outcome, err := coordinator.MergePeople(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.MergePeopleResponse{
		Message:        "people merged successfully",
		KeepID:         outcome.KeepID,
		DeletedMergeID: outcome.MergeID,
	})
}

func parseSearchOptions(c echo.Context) (matching.Options, error) {
	var opts matching.Options

	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return opts, httperror.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		opts.Limit = v
	}
	if raw := c.QueryParam("min_similarity"); raw != "" {
		// Zero is indistinguishable from "unset" downstream, where the
		// configured default would silently take over; reject it here.
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 1 {
			return opts, httperror.NewHTTPError(http.StatusBadRequest, "min_similarity must be greater than 0 and at most 1")
		}
		opts.MinSimilarity = v
	}
	if raw := c.QueryParam("max_candidates"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return opts, httperror.NewHTTPError(http.StatusBadRequest, "max_candidates must be a positive integer")
		}
		opts.MaxCandidates = v
	}
	if raw := c.QueryParam("max_hamming"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 64 {
			return opts, httperror.NewHTTPError(http.StatusBadRequest, "max_hamming must be between 0 and 64")
		}
		opts.MaxHamming = v
	}

	return opts, nil
}
