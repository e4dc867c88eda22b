package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/toolbay/rental-engine/internal/domain"
	"github.com/toolbay/rental-engine/internal/service"
	"github.com/toolbay/rental-engine/pkg/response"
	"github.com/toolbay/rental-engine/pkg/utils"
)

type ToolHandler struct {
	service   *service.ToolService
	validator *validator.Validate
}

func NewToolHandler(service *service.ToolService) *ToolHandler {
	return &ToolHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateTool handles POST /tools
func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	var lastMaintenance *time.Time
	if req.LastMaintenanceDate != nil {
		day, _ := utils.ParseDate(*req.LastMaintenanceDate)
		lastMaintenance = &day
	}

	tool, err := h.service.CreateTool(r.Context(), req.Name, req.WeeklyPrice, req.MaintenanceImportance, lastMaintenance, req.MaintenanceIntervalMonths)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Created(w, tool)
}

// ListTools handles GET /tools
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.service.ListTools(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, tools)
}

// GetTool handles GET /tools/{toolId}
func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	toolID, err := uuid.Parse(mux.Vars(r)["toolId"])
	if err != nil {
		response.BadRequest(w, "invalid tool id", err)
		return
	}

	tool, err := h.service.GetTool(r.Context(), toolID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, tool)
}

type recordMaintenanceRequest struct {
	ServiceDate string `json:"service_date" validate:"required,datetime=2006-01-02"`
}

// RecordMaintenance handles POST /tools/{toolId}/maintenance
func (h *ToolHandler) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	toolID, err := uuid.Parse(mux.Vars(r)["toolId"])
	if err != nil {
		response.BadRequest(w, "invalid tool id", err)
		return
	}

	var req recordMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	serviceDate, _ := utils.ParseDate(req.ServiceDate)
	tool, err := h.service.RecordMaintenance(r.Context(), toolID, serviceDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, tool)
}

// ConditionLog handles GET /tools/{toolId}/conditions
func (h *ToolHandler) ConditionLog(w http.ResponseWriter, r *http.Request) {
	toolID, err := uuid.Parse(mux.Vars(r)["toolId"])
	if err != nil {
		response.BadRequest(w, "invalid tool id", err)
		return
	}

	entries, err := h.service.ConditionLog(r.Context(), toolID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, domain.ToolConditionLogResponse{ToolID: toolID, Entries: entries})
}
