package wb

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/auth"
	"Loadsheet/internal/repo"
)

const scenarioA = `{"aircraft":"CRJ200","task":{"takeoff_fuel":3786,"trip_fuel":1273,
"adults":41,"children":2,"cabin_baggage":91,"seating":[12,12,9,10],"cargo":181}}`

func newHandler() (*Handler, *repo.Memory) {
	mem := repo.NewMemory()
	return &Handler{Profiles: aircraft.NewCache(aircraft.Builtin(), 4, time.Minute), Calcs: mem}, mem
}

func call(h http.HandlerFunc, ctx context.Context, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body)).WithContext(ctx)
	h(rec, req)
	return rec
}

func TestCalcHandler(t *testing.T) {
	h, mem := newHandler()
	ctx := auth.WithUser(context.Background(), 7, "ops")

	rec := call(h.Calc, ctx, http.MethodPost, "/", scenarioA)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 17841.0, res.ZFW)
	assert.InDelta(t, 13.09, res.MACZFW, 0.01)
	assert.Equal(t, 7.6, res.StabEICAS)

	calcs, err := mem.Calculations(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.Equal(t, "CRJ200", calcs[0].Aircraft)
	assert.NotEmpty(t, calcs[0].Result)
	assert.Empty(t, calcs[0].Kind)
}

func TestCalcHandlerErrors(t *testing.T) {
	h, mem := newHandler()
	ctx := auth.WithUser(context.Background(), 7, "ops")

	tests := []struct {
		name   string
		body   string
		status int
		kind   Kind
	}{
		{"unknown aircraft", `{"aircraft":"A320","task":{"seating":[0,0,0,0]}}`, http.StatusBadRequest, KindInput},
		{"trip fuel", `{"aircraft":"CRJ200","task":{"takeoff_fuel":1000,"trip_fuel":2000,"seating":[0,0,0,0]}}`,
			http.StatusBadRequest, KindInput},
		{"too heavy", `{"aircraft":"CRJ200","task":{"takeoff_fuel":3786,"trip_fuel":1273,"cargo":9000,"seating":[0,0,0,0]}}`,
			http.StatusUnprocessableEntity, KindConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(h.Calc, ctx, http.MethodPost, "/", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body errorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}

	calcs, err := mem.Calculations(ctx, 7, 10)
	require.NoError(t, err)
	// Unknown aircraft fails before the solver runs.
	assert.Len(t, calcs, 2)
	assert.Equal(t, string(KindConstraint), calcs[0].Kind)
}

func TestCalcHandlerRejectsBadBody(t *testing.T) {
	h, _ := newHandler()
	ctx := context.Background()
	assert.Equal(t, http.StatusBadRequest, call(h.Calc, ctx, http.MethodPost, "/", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.Calc, ctx, http.MethodPost, "/", `{"task":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		call(h.Calc, ctx, http.MethodPost, "/", `{"aircraft":"CRJ200","pax":3}`).Code)
}

func TestHistory(t *testing.T) {
	h, _ := newHandler()
	ctx := auth.WithUser(context.Background(), 3, "ops")
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, call(h.Calc, ctx, http.MethodPost, "/", scenarioA).Code)
	}

	rec := call(h.History, ctx, http.MethodGet, "/?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var calcs []repo.Calculation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&calcs))
	require.Len(t, calcs, 2)
	assert.Greater(t, calcs[0].ID, calcs[1].ID)

	assert.Equal(t, http.StatusBadRequest, call(h.History, ctx, http.MethodGet, "/?limit=x", "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		call(h.History, context.Background(), http.MethodGet, "/", "").Code)

	rec = call(h.History, auth.WithUser(context.Background(), 4, "other"), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRecordLogsEncodeErrors(t *testing.T) {
	h, mem := newHandler()
	var logs bytes.Buffer
	h.Log = slog.New(slog.NewJSONHandler(&logs, nil))
	ctx := auth.WithUser(context.Background(), 5, "ops")

	_, _, err := h.Solve(ctx, Request{Aircraft: "CRJ200", Task: Task{Cargo: math.NaN(), Seating: []int{0, 0, 0, 0}}})
	var invalid *InvalidTaskError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, logs.String(), "encode calculation task")
	calcs, err := mem.Calculations(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, calcs)

	h.record(ctx, Request{Aircraft: "CRJ200"}, Result{MACZFW: math.NaN()}, nil)
	assert.Contains(t, logs.String(), "encode calculation result")
	calcs, err = mem.Calculations(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.Empty(t, calcs[0].Result)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(KindInput))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(KindConstraint))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(KindDomain))
	assert.Equal(t, http.StatusInternalServerError, Status(KindConfiguration))
	assert.Equal(t, http.StatusInternalServerError, Status(KindCompatibility))
	assert.Equal(t, http.StatusServiceUnavailable, Status(KindCanceled))
}
