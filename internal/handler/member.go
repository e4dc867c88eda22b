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

type MemberHandler struct {
	service   *service.MemberService
	validator *validator.Validate
}

func NewMemberHandler(service *service.MemberService) *MemberHandler {
	return &MemberHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	expiry, _ := utils.ParseDate(req.MembershipExpiry)
	member, err := h.service.CreateMember(r.Context(), req.Name, req.Email, expiry)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, member)
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, members)
}

// GetMember handles GET /members/{memberId}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(mux.Vars(r)["memberId"])
	if err != nil {
		response.BadRequest(w, "invalid member id", err)
		return
	}

	member, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, member)
}
