package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// ─── Account API ────────────────────────────────────────────────────────────
// GET  /account          the caller's account
// POST /account          open with {name, balance}
// PUT  /account          rename with {name}
// POST /account/deposit  {amount}
// POST /account/withdraw {amount}
// POST /account/adjust   {amount}, sets the balance

type openAccountRequest struct {
	Name    string      `json:"name"`
	Balance amountField `json:"balance"`
}

type renameAccountRequest struct {
	Name string `json:"name"`
}

type amountRequest struct {
	Amount amountField `json:"amount"`
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := req.Balance.required()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	account, err := s.accounts.Open(r.Context(), identity(r), req.Name, balance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleRenameAccount(w http.ResponseWriter, r *http.Request) {
	var req renameAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := s.accounts.Rename(r.Context(), identity(r), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleAmount(w, r, s.accounts.Deposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleAmount(w, r, s.accounts.Withdraw)
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	s.handleAmount(w, r, s.accounts.Adjust)
}

func (s *Server) handleAmount(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int64) (*model.Account, error)) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := req.Amount.required()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	account, err := op(r.Context(), identity(r), amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
