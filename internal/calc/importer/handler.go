package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"Loadsheet/internal/calc/batch"
	"Loadsheet/internal/calc/wb"
)

const MaxUploadSize = 10 << 20

type Handler struct {
	Runner *batch.Runner
}

// RowOutcome is a batch outcome tagged with its sheet row.
type RowOutcome struct {
	Row int `json:"row"`
	batch.Outcome
}

type Response struct {
	Outcomes []RowOutcome `json:"outcomes"`
	Errors   []RowError   `json:"errors,omitempty"`
}

// Import solves every task row of the uploaded "file" workbook. The optional
// "aircraft" form value fills rows without one. With ?format=xlsx the
// outcomes and the rows that failed to parse come back as a workbook.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := Read(file, r.FormValue("aircraft"))
	if err != nil {
		http.Error(w, "Invalid workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := Response{Outcomes: []RowOutcome{}, Errors: parsed.Errors}
	var outcomes []batch.Outcome
	if len(parsed.Items) > 0 {
		outcomes, err = h.Runner.Calculate(r.Context(), parsed.Items)
		if err != nil && !errors.Is(err, batch.ErrNoItems) {
			wb.WriteError(w, err)
			return
		}
	}
	for i, o := range outcomes {
		resp.Outcomes = append(resp.Outcomes, RowOutcome{Row: parsed.Rows[i], Outcome: o})
	}

	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := Write(&buf, parsed, outcomes); err != nil {
			http.Error(w, "Export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
		buf.WriteTo(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
