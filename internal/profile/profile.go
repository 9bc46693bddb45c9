// Package profile serves aircraft profile specs over HTTP.
package profile

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/auth"
	"Loadsheet/internal/repo"
)

const MaxSpecSize = 1 << 20

// ProfileHandler reads specs from Catalog, which should include Store, and
// writes them to Store. Only admins write, and never under a name Reserved
// knows. Cache is purged on every write.
type ProfileHandler struct {
	Store    repo.AircraftStore
	Catalog  aircraft.Catalog
	Reserved aircraft.Catalog
	Cache    *aircraft.Cache
	Log      *slog.Logger
}

func (h *ProfileHandler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.Catalog.Names(r.Context())
	if err != nil {
		h.logger().Error("list aircraft", "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// GetProfile returns the stored spec of {name}. With ?resolved=true the spec
// is merged over its base chain, ?format=yaml returns YAML.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var (
		spec aircraft.Spec
		err  error
	)
	if r.URL.Query().Get("resolved") == "true" {
		spec, err = aircraft.Flatten(r.Context(), h.Catalog, name)
	} else {
		spec, err = h.Catalog.Spec(r.Context(), name)
	}
	if errors.Is(err, aircraft.ErrUnknownAircraft) {
		http.Error(w, "Aircraft not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger().Error("get aircraft", "name", name, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		data, err := aircraft.EncodeYAML(spec)
		if err != nil {
			http.Error(w, "Encoding error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

// UpdateProfile stores the JSON or YAML spec in the body under {name}. The
// spec must build together with its bases.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !auth.IsAdmin(r.Context()) {
		h.logger().Warn("aircraft write refused", "name", name, "user", auth.UserLogin(r.Context()))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if h.Reserved != nil {
		_, err := h.Reserved.Spec(r.Context(), name)
		if err == nil {
			http.Error(w, "Built-in aircraft type cannot be replaced", http.StatusConflict)
			return
		}
		if !errors.Is(err, aircraft.ErrUnknownAircraft) {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSpecSize))
	if err != nil {
		http.Error(w, "Spec too big", http.StatusBadRequest)
		return
	}

	ext := ".json"
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); strings.Contains(ct, "yaml") {
		ext = ".yaml"
	}
	spec, err := aircraft.Decode(data, ext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if spec.Name == "" {
		spec.Name = name
	}
	if spec.Name != name {
		http.Error(w, "Spec name does not match the URL", http.StatusBadRequest)
		return
	}

	candidate := aircraft.Chain{aircraft.NewStatic(spec), h.Catalog}
	if _, err := aircraft.Resolve(r.Context(), candidate, name); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.Store.SaveSpec(r.Context(), spec); err != nil {
		h.logger().Error("save aircraft", "name", name, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if h.Cache != nil {
		h.Cache.Purge()
	}
	h.logger().Info("aircraft spec saved", "name", name, "base", spec.Base, "user", auth.UserLogin(r.Context()))
	writeJSON(w, http.StatusOK, spec)
}
