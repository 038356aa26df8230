package corehandler

import (
	"net/http"

	"hrkpi/internal/domain/core"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type divisionRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
}

type positionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func requireName(v *shared.Validator, name *string) string {
	if name == nil {
		v.Add("name", "Name is required")
		return ""
	}
	v.Required("name", *name, "Name is required")
	return *name
}

func (h *Handler) handleListDivisions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	items, total, err := h.Service.ListDivisions(r.Context(), nameFilter(r, page))
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if items == nil {
		items = []core.Division{}
	}
	api.Success(w, shared.ListData("divisions", items, page, total), requestID)
}

func (h *Handler) handleGetDivision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "divisionID", "division_not_found", "Division not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	division, err := h.Service.GetDivision(r.Context(), id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, division, requestID)
}

func (h *Handler) handleCreateDivision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload divisionRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	name := requireName(v, payload.Name)
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	division, err := h.Service.CreateDivision(r.Context(), core.DivisionInput{
		Name:        name,
		Description: payload.Description,
		Weight:      payload.Weight,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, division, requestID)
}

func (h *Handler) handleUpdateDivision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "divisionID", "division_not_found", "Division not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload divisionRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	division, err := h.Service.UpdateDivision(r.Context(), id, core.DivisionPatch{
		Name:        payload.Name,
		Description: payload.Description,
		Weight:      payload.Weight,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, division, requestID)
}

func (h *Handler) handleDeleteDivision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "divisionID", "division_not_found", "Division not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if err := h.Service.DeleteDivision(r.Context(), id); err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, deleted(id), requestID)
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	items, total, err := h.Service.ListPositions(r.Context(), nameFilter(r, page))
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if items == nil {
		items = []core.Position{}
	}
	api.Success(w, shared.ListData("positions", items, page, total), requestID)
}

func (h *Handler) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "positionID", "position_not_found", "Position not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	position, err := h.Service.GetPosition(r.Context(), id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, position, requestID)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload positionRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	name := requireName(v, payload.Name)
	if v.Reject(w, requestID) {
		return
	}

	position, err := h.Service.CreatePosition(r.Context(), core.PositionInput{Name: name, Description: payload.Description})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, position, requestID)
}

func (h *Handler) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "positionID", "position_not_found", "Position not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload positionRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	position, err := h.Service.UpdatePosition(r.Context(), id, core.PositionPatch{Name: payload.Name, Description: payload.Description})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, position, requestID)
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "positionID", "position_not_found", "Position not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if err := h.Service.DeletePosition(r.Context(), id); err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, deleted(id), requestID)
}
