package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"stakemint/native/staking"
	"stakemint/observability/metrics"
)

type stakeParams struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type accountParams struct {
	Account string `json:"account"`
}

type claimResult struct {
	Minted string `json:"minted"`
}

type unstakeResult struct {
	Returned string `json:"returned"`
}

type priceResult struct {
	Price string `json:"price"`
}

type positionResult struct {
	Account       string `json:"account"`
	Staked        string `json:"staked"`
	LastClaimTs   uint64 `json:"lastClaimTs"`
	PendingReward string `json:"pendingReward"`
}

func decodeAddress(raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid account address %q", raw)
	}
	return common.HexToAddress(trimmed), nil
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return value, nil
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, op string, err error) {
	m := metrics.Staking()
	switch {
	case errors.Is(err, staking.ErrInvalidAmount):
		m.ObserveFailure(op, "invalid_amount")
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, staking.ErrInsufficientAllowance):
		m.ObserveFailure(op, "insufficient_allowance")
		writeError(w, http.StatusBadRequest, "insufficient_allowance", err.Error())
	case errors.Is(err, staking.ErrNoActiveStake):
		m.ObserveFailure(op, "no_active_stake")
		writeError(w, http.StatusConflict, "no_active_stake", err.Error())
	case errors.Is(err, staking.ErrCollaborator):
		m.ObserveCollaboratorFailure(op)
		writeError(w, http.StatusBadGateway, "collaborator_failure", err.Error())
	case errors.Is(err, staking.ErrArithmeticOverflow):
		m.ObserveFailure(op, "overflow")
		writeError(w, http.StatusInternalServerError, "overflow", err.Error())
	default:
		m.ObserveFailure(op, "internal")
		s.log.Error("staking operation failed", "op", op, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "operation failed")
	}
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var params stakeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", "invalid request body")
		return
	}
	account, err := decodeAddress(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	if err := s.engine.Stake(account, amount); err != nil {
		s.writeEngineError(w, "stake", err)
		return
	}
	s.log.Info("stake accepted", "account", account.Hex(), "amount", amount.String())
	s.writePosition(w, account)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var params accountParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", "invalid request body")
		return
	}
	account, err := decodeAddress(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	minted, err := s.engine.Claim(account)
	if err != nil {
		s.writeEngineError(w, "claim", err)
		return
	}
	if minted.Sign() > 0 {
		s.log.Info("reward claimed", "account", account.Hex(), "minted", minted.String())
	}
	writeJSON(w, http.StatusOK, claimResult{Minted: minted.String()})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var params accountParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", "invalid request body")
		return
	}
	account, err := decodeAddress(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	returned, err := s.engine.Unstake(account)
	if err != nil {
		s.writeEngineError(w, "unstake", err)
		return
	}
	s.log.Info("unstake completed", "account", account.Hex(), "returned", returned.String())
	writeJSON(w, http.StatusOK, unstakeResult{Returned: returned.String()})
}

func (s *Server) handlePrice(w http.ResponseWriter, _ *http.Request) {
	price, err := s.engine.LatestPrice()
	if err != nil {
		s.writeEngineError(w, "price", err)
		return
	}
	writeJSON(w, http.StatusOK, priceResult{Price: price.String()})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := decodeAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}
	s.writePosition(w, account)
}

func (s *Server) writePosition(w http.ResponseWriter, account common.Address) {
	staked, err := s.engine.Staked(account)
	if err != nil {
		s.writeEngineError(w, "position", err)
		return
	}
	lastClaim, err := s.engine.LastClaim(account)
	if err != nil {
		s.writeEngineError(w, "position", err)
		return
	}
	pending, err := s.engine.CalculateReward(account)
	if err != nil {
		s.writeEngineError(w, "position", err)
		return
	}
	writeJSON(w, http.StatusOK, positionResult{
		Account:       account.Hex(),
		Staked:        staked.String(),
		LastClaimTs:   lastClaim,
		PendingReward: pending.String(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	if s.recorder == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	type eventView struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}
	log := s.recorder.Events()
	out := make([]eventView, 0, len(log))
	for _, evt := range log {
		out = append(out, eventView{Type: evt.Type, Attributes: evt.Attributes})
	}
	writeJSON(w, http.StatusOK, out)
}
