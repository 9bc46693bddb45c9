package wb

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/auth"
	"Loadsheet/internal/repo"
)

const maxBody = 1 << 20

// Request is the body of a calculation call. Weights default to
// DefaultWeights.
type Request struct {
	Aircraft string           `json:"aircraft"`
	Weights  *StandardWeights `json:"weights,omitempty"`
	Task     Task             `json:"task"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

// Handler serves solver calls. Calcs is optional.
type Handler struct {
	Profiles aircraft.Resolver
	Calcs    repo.CalculationLog
	Log      *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Log
}

// Status maps an error kind to an HTTP status code.
func Status(k Kind) int {
	switch k {
	case KindInput:
		return http.StatusBadRequest
	case KindConstraint, KindDomain:
		return http.StatusUnprocessableEntity
	case KindCanceled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WriteError writes err as {"error", "kind"} with the status of its kind.
func WriteError(w http.ResponseWriter, err error) {
	k := Classify(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(k))
	json.NewEncoder(w).Encode(errorBody{Error: err.Error(), Kind: k})
}

// DecodeRequest reads a Request body.
func DecodeRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Request{}, false
	}
	if req.Aircraft == "" {
		http.Error(w, "aircraft is required", http.StatusBadRequest)
		return Request{}, false
	}
	return req, true
}

// Solve resolves the aircraft and runs req, recording the run for the
// calling user.
func (h *Handler) Solve(ctx context.Context, req Request) (*aircraft.Profile, Result, error) {
	log := h.logger()
	p, err := h.Profiles.Profile(ctx, req.Aircraft)
	if err != nil {
		return nil, Result{}, err
	}
	weights := DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	res, err := NewSolver(p, weights, WithLogger(log)).Solve(req.Task)
	h.record(ctx, req, res, err)
	if err != nil {
		log.Info("calculation failed", "aircraft", req.Aircraft, "user", auth.UserLogin(ctx),
			"kind", Classify(err), "err", err)
		return p, Result{}, err
	}
	return p, res, nil
}

func (h *Handler) record(ctx context.Context, req Request, res Result, err error) {
	if h.Calcs == nil {
		return
	}
	userID, ok := auth.UserID(ctx)
	if !ok {
		return
	}
	c := repo.Calculation{UserID: userID, Aircraft: req.Aircraft}
	var merr error
	if c.Task, merr = json.Marshal(req.Task); merr != nil {
		h.logger().Error("encode calculation task", "user", userID, "err", merr)
		return
	}
	if err != nil {
		c.Kind, c.Error = string(Classify(err)), err.Error()
	} else if c.Result, merr = json.Marshal(res); merr != nil {
		h.logger().Error("encode calculation result", "user", userID, "err", merr)
	}
	if rerr := h.Calcs.RecordCalculation(ctx, c); rerr != nil {
		h.logger().Error("record calculation", "user", userID, "err", rerr)
	}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	req, ok := DecodeRequest(w, r)
	if !ok {
		return
	}
	_, res, err := h.Solve(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// History lists the caller's calculations, newest first. ?limit defaults
// to 50.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.Calcs == nil {
		http.Error(w, "Calculation log is disabled", http.StatusNotFound)
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	calcs, err := h.Calcs.Calculations(r.Context(), userID, limit)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		h.logger().Error("list calculations", "user", userID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if calcs == nil {
		calcs = []repo.Calculation{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(calcs)
}
