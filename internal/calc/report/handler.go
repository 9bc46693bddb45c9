package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"Loadsheet/internal/auth"
	"Loadsheet/internal/calc/wb"
)

// Input is a calculation request plus the loadsheet header.
type Input struct {
	wb.Request
	Meta Meta `json:"meta"`
}

type Handler struct {
	Calc *wb.Handler
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Aircraft == "" {
		http.Error(w, "aircraft is required", http.StatusBadRequest)
		return
	}
	if input.Meta.PreparedBy == "" {
		input.Meta.PreparedBy = auth.UserLogin(r.Context())
	}

	p, res, err := h.Calc.Solve(r.Context(), input.Request)
	if err != nil {
		wb.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Loadsheet(&buf, p, res, input.Meta); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "loadsheet-"+p.Name+".pdf"))
	buf.WriteTo(w)
}
