package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/service"
	"github.com/toolbay/rental-engine/pkg/response"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RecordPayment handles POST /payments
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	memberID, _ := uuid.Parse(req.MemberID)
	selected := make([]uuid.UUID, 0, len(req.TransactionIDs))
	for _, raw := range req.TransactionIDs {
		id, _ := uuid.Parse(raw)
		selected = append(selected, id)
	}

	payment, err := h.service.ApplyPayment(r.Context(), memberID, req.Amount, req.Method, selected)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, payment)
}

// ChargeRepairCost handles POST /repair-charges
func (h *LedgerHandler) ChargeRepairCost(w http.ResponseWriter, r *http.Request) {
	var req domain.RepairChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	memberID, _ := uuid.Parse(req.MemberID)
	rentalID, _ := uuid.Parse(req.RentalID)

	charge, err := h.service.ChargeRepairCost(r.Context(), memberID, rentalID, req.Amount, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, charge)
}

// GetBalance handles GET /members/{memberId}/balance
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(mux.Vars(r)["memberId"])
	if err != nil {
		response.BadRequest(w, "invalid member id", err)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, domain.BalanceResponse{MemberID: memberID, TotalDebt: balance})
}

// ListTransactions handles GET /members/{memberId}/transactions
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(mux.Vars(r)["memberId"])
	if err != nil {
		response.BadRequest(w, "invalid member id", err)
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, domain.TransactionHistoryResponse{MemberID: memberID, Transactions: txs})
}
