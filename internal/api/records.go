package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// ─── Records API ────────────────────────────────────────────────────────────
// GET    /records       all records of the caller, insertion order
// GET    /records/{id}  one record
// POST   /records       create from {type, category, amount, date}
// PUT    /records/{id}  update the fields present in the body
// DELETE /records/{id}  delete, responds with the removed record

// recordRequest is the JSON body of create and update calls.
type recordRequest struct {
	Type     *model.RecordType     `json:"type"`
	Category *model.RecordCategory `json:"category"`
	Date     *string               `json:"date"`
	Amount   amountField           `json:"amount"`

	dateErr error
}

// input converts a create body. Unusable amounts and dates become zero
// values so the record validation reports them in its usual order.
func (req *recordRequest) input() model.RecordInput {
	var in model.RecordInput
	if req.Type != nil {
		in.Type = *req.Type
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Amount.set {
		in.Amount = req.Amount.value
	}
	if req.Date != nil {
		in.Date = req.parseDate()
	}
	return in
}

// patch converts an update body. An empty date string counts as absent.
func (req *recordRequest) patch() model.RecordPatch {
	p := model.RecordPatch{
		Type:     req.Type,
		Category: req.Category,
	}
	if req.Amount.set {
		amount := req.Amount.value
		p.Amount = &amount
	}
	if req.Date != nil && *req.Date != "" {
		date := req.parseDate()
		p.Date = &date
	}
	return p
}

func (req *recordRequest) parseDate() time.Time {
	date, err := model.ParseDate(*req.Date)
	req.dateErr = err
	return date
}

// explain replaces a failed amount or date check with the decode error that
// zeroed the field, so callers see why the value was rejected.
func (req *recordRequest) explain(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidAmount) && req.Amount.err != nil:
		return common.NewInputError(req.Amount.err)
	case errors.Is(err, common.ErrInvalidDate) && req.dateErr != nil:
		return common.NewInputError(req.dateErr)
	}
	return err
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.GetAll(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := s.records.GetOne(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := s.records.Create(r.Context(), identity(r), req.input())
	if err != nil {
		writeServiceError(w, r, req.explain(err))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req recordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := s.records.Update(r.Context(), identity(r), id, req.patch())
	if err != nil {
		writeServiceError(w, r, req.explain(err))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := s.records.Delete(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// recordID parses the {id} path parameter. Ids that cannot name a record are not found.
func recordID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("record %q: %w", raw, common.ErrNotFound)
	}
	return id, nil
}
