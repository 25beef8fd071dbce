package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/routes/health"
	"github.com/Ramsey-B/laurel/pkg/routes/person"
)

func newRequestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFindSimilarPeople_InvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		c, _ := newRequestContext(t, http.MethodGet, "/people/"+id+"/similar", "")
		c.SetParamNames("id")
		c.SetParamValues(id)

		err := person.FindSimilarPeople(c)
		require.Error(t, err, "id=%s", id)
		assert.Contains(t, err.Error(), "invalid person id")
	}
}

func TestFindSimilarPeople_InvalidQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "bad limit", query: "limit=zero", want: "limit"},
		{name: "negative limit", query: "limit=-1", want: "limit"},
		{name: "similarity above one", query: "min_similarity=1.5", want: "min_similarity"},
		{name: "negative similarity", query: "min_similarity=-0.1", want: "min_similarity"},
		{name: "zero similarity", query: "min_similarity=0", want: "min_similarity"},
		{name: "bad candidates", query: "max_candidates=0", want: "max_candidates"},
		{name: "hamming above 64", query: "max_hamming=65", want: "max_hamming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newRequestContext(t, http.MethodGet, "/people/1/similar?"+tt.query, "")
			c.SetParamNames("id")
			c.SetParamValues("1")

			err := person.FindSimilarPeople(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMergePeople_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `not json`},
		{name: "missing merge id", body: `{"keep_id": 1}`},
		{name: "missing keep id", body: `{"merge_id": 2}`},
		{name: "equal ids", body: `{"keep_id": 3, "merge_id": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newRequestContext(t, http.MethodPost, "/people/merge", tt.body)

			err := person.MergePeople(c)
			require.Error(t, err)
		})
	}
}

func TestMergeRequestRoundTrip(t *testing.T) {
	var req models.MergePeopleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"keep_id": 10, "merge_id": 20}`), &req))
	assert.Equal(t, int64(10), req.KeepID)
	assert.Equal(t, int64(20), req.MergeID)

	resp := models.MergePeopleResponse{Message: "people merged successfully", KeepID: 10, DeletedMergeID: 20}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"people merged successfully","keep_id":10,"deleted_merge_id":20}`, string(data))
}

func TestSimilarPersonJSON_HidesDerivedColumns(t *testing.T) {
	sp := models.SimilarPerson{
		Person: models.Person{
			ID:             1,
			FirstName:      "Vladimir",
			LastName:       "Lenin",
			FoldedFullName: "vladimir lenin",
			Simhash:        12345,
		},
		SimilarityPercent: 87,
	}

	data, err := json.Marshal(sp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "folded_full_name")
	assert.NotContains(t, raw, "simhash64")
	assert.EqualValues(t, 87, raw["similarity_percent"])
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return assert.AnError }

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func TestHealthEndpoints(t *testing.T) {
	checker := health.NewChecker(okPinger{}, "test")

	c, rec := newRequestContext(t, http.MethodGet, "/health", "")
	require.NoError(t, checker.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRequestContext(t, http.MethodGet, "/health/live", "")
	require.NoError(t, checker.Live(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRequestContext(t, http.MethodGet, "/health/ready", "")
	require.NoError(t, checker.Ready(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready until SetReady(true)")

	checker.SetReady(true)
	c, rec = newRequestContext(t, http.MethodGet, "/health/ready", "")
	require.NoError(t, checker.Ready(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_UnhealthyDatabase(t *testing.T) {
	checker := health.NewChecker(failingPinger{}, "test")

	c, rec := newRequestContext(t, http.MethodGet, "/health", "")
	require.NoError(t, checker.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status health.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
}
