package corehandler

import (
	"net/http"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type employeeRequest struct {
	EmployeeNumber *string `json:"employeeNumber"`
	PNOSNumber     *string `json:"pnosNumber"`
	DateJoined     *string `json:"dateJoined"`
	DivisionID     *string `json:"divisionId"`
	PositionID     *string `json:"positionId"`
	UserID         *string `json:"userId"`
}

type linkUserRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type employeeDetail struct {
	core.Employee
	RecentAssessments []performance.Assessment `json:"recentAssessments"`
}

func employeeID(r *http.Request) (string, error) {
	return shared.ParseID(r, "employeeID", "employee_not_found", "Employee not found")
}

func (p employeeRequest) validate(v *shared.Validator) {
	optionalID(v, "divisionId", "Division not found", p.DivisionID)
	optionalID(v, "positionId", "Position not found", p.PositionID)
	optionalID(v, "userId", "User not found", p.UserID)
}

// visible applies field masking for viewers other than admins and the
// employee's own linked user.
func visible(emp *core.Employee, viewer auth.UserContext) {
	isSelf := emp.User != nil && emp.User.ID == viewer.UserID
	core.FilterEmployeeFields(emp, viewer, isSelf)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	query := r.URL.Query()
	filter := core.EmployeeFilter{
		Search:     query.Get("search"),
		DivisionID: query.Get("divisionId"),
		PositionID: query.Get("positionId"),
		Limit:      page.Limit,
		Offset:     page.Offset(),
	}
	v := shared.NewValidator()
	optionalID(v, "divisionId", "Division id must be a valid id", &filter.DivisionID)
	optionalID(v, "positionId", "Position id must be a valid id", &filter.PositionID)
	if v.Reject(w, requestID) {
		return
	}

	items, total, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	viewer, _ := middleware.GetUser(r.Context())
	for i := range items {
		visible(&items[i], viewer)
	}
	if items == nil {
		items = []core.Employee{}
	}
	api.Success(w, shared.ListData("employees", items, page, total), requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := employeeID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}

	detail := employeeDetail{Employee: emp, RecentAssessments: []performance.Assessment{}}
	if h.Assessments != nil {
		recent, _, err := h.Assessments.ListAssessments(r.Context(), performance.AssessmentFilter{EmployeeID: id, Limit: recentAssessmentLimit})
		if err != nil {
			api.Error(w, err, requestID)
			return
		}
		if recent != nil {
			detail.RecentAssessments = performance.RoundAll(recent)
		}
	}

	viewer, _ := middleware.GetUser(r.Context())
	visible(&detail.Employee, viewer)
	api.Success(w, detail, requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	dateJoined := v.Date("dateJoined", payload.DateJoined)
	if v.Reject(w, requestID) {
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.CreateEmployee(r.Context(), actor.UserID, core.EmployeeInput{
		EmployeeNumber: payload.EmployeeNumber,
		PNOSNumber:     payload.PNOSNumber,
		DateJoined:     dateJoined,
		DivisionID:     payload.DivisionID,
		PositionID:     payload.PositionID,
		UserID:         payload.UserID,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := employeeID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	if payload.UserID != nil {
		v.Add("userId", "Use the link-user endpoint to change the linked user")
	}
	dateJoined := v.Date("dateJoined", payload.DateJoined)
	if v.Reject(w, requestID) {
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.UpdateEmployee(r.Context(), actor.UserID, id, core.EmployeePatch{
		EmployeeNumber: payload.EmployeeNumber,
		PNOSNumber:     payload.PNOSNumber,
		DateJoined:     dateJoined,
		DivisionID:     payload.DivisionID,
		PositionID:     payload.PositionID,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := employeeID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Service.DeleteEmployee(r.Context(), actor.UserID, id); err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, deleted(id), requestID)
}

func (h *Handler) handleLinkUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := employeeID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload linkUserRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.LinkUser(r.Context(), actor.UserID, id, payload.UserID)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleUnlinkUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := employeeID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	actor, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.UnlinkUser(r.Context(), actor.UserID, id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}
