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
	"github.com/toolbay/rental-engine/pkg/utils"
)

type RentalHandler struct {
	service   *service.RentalService
	validator *validator.Validate
}

func NewRentalHandler(service *service.RentalService) *RentalHandler {
	return &RentalHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RequestRental handles POST /rentals/requests (member flow, stays pending)
func (h *RentalHandler) RequestRental(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	memberID, _ := uuid.Parse(req.MemberID)
	toolID, _ := uuid.Parse(req.ToolID)
	startDate, _ := utils.ParseDate(req.StartDate)
	endDate, _ := utils.ParseDate(req.EndDate)

	rental, err := h.service.RequestRental(r.Context(), memberID, toolID, startDate, endDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, rental)
}

// BookDirect handles POST /rentals (admin flow, active immediately)
func (h *RentalHandler) BookDirect(w http.ResponseWriter, r *http.Request) {
	var req domain.BookDirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	memberID, _ := uuid.Parse(req.MemberID)
	toolID, _ := uuid.Parse(req.ToolID)
	startDate, _ := utils.ParseDate(req.StartDate)
	endDate, _ := utils.ParseDate(req.EndDate)

	rental, err := h.service.BookDirect(r.Context(), memberID, toolID, startDate, endDate, req.Price)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, rental)
}

// ApproveRental handles POST /rentals/{rentalId}/approve
func (h *RentalHandler) ApproveRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := uuid.Parse(mux.Vars(r)["rentalId"])
	if err != nil {
		response.BadRequest(w, "invalid rental id", err)
		return
	}

	var req domain.ApproveRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	rental, err := h.service.ApproveRental(r.Context(), rentalID, req.FinalPrice)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rental)
}

// RejectRental handles POST /rentals/{rentalId}/reject
func (h *RentalHandler) RejectRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := uuid.Parse(mux.Vars(r)["rentalId"])
	if err != nil {
		response.BadRequest(w, "invalid rental id", err)
		return
	}

	rental, err := h.service.RejectRental(r.Context(), rentalID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rental)
}

// CompleteRental handles POST /rentals/{rentalId}/complete
func (h *RentalHandler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := uuid.Parse(mux.Vars(r)["rentalId"])
	if err != nil {
		response.BadRequest(w, "invalid rental id", err)
		return
	}

	var req domain.CompleteRentalRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body", err)
			return
		}
	}

	rental, err := h.service.CompleteRental(r.Context(), rentalID, req.ReturnComment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rental)
}

// GetRental handles GET /rentals/{rentalId}
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := uuid.Parse(mux.Vars(r)["rentalId"])
	if err != nil {
		response.BadRequest(w, "invalid rental id", err)
		return
	}

	rental, err := h.service.GetRental(r.Context(), rentalID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rental)
}

// ListPending handles GET /rentals/pending
func (h *RentalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.ListPending(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rentals)
}

// ListActive handles GET /rentals/active
func (h *RentalHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rentals)
}

// ListHistory handles GET /rentals/history with optional query filters
// member_id, tool_id, status, from, to
func (h *RentalHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	var filter domain.RentalHistoryFilter
	q := r.URL.Query()

	if v := q.Get("member_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid member_id filter", err)
			return
		}
		filter.MemberID = &id
	}
	if v := q.Get("tool_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid tool_id filter", err)
			return
		}
		filter.ToolID = &id
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("from"); v != "" {
		from, err := utils.ParseDate(v)
		if err != nil {
			response.BadRequest(w, "invalid from filter", err)
			return
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := utils.ParseDate(v)
		if err != nil {
			response.BadRequest(w, "invalid to filter", err)
			return
		}
		filter.To = &to
	}

	rentals, err := h.service.ListHistory(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, rentals)
}
