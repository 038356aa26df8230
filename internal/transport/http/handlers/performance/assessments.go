package performancehandler

import (
	"net/http"

	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type assessmentRequest struct {
	EmployeeID string   `json:"employeeId" validate:"required,uuid"`
	KPIID      string   `json:"kpiId" validate:"required,uuid"`
	Weight     *float64 `json:"weight" validate:"required"`
	Target     *float64 `json:"target" validate:"required"`
	Actual     *float64 `json:"actual" validate:"required"`
	Period     string   `json:"period" validate:"required"`
}

type assessmentPatchRequest struct {
	Weight *float64 `json:"weight"`
	Target *float64 `json:"target"`
	Actual *float64 `json:"actual"`
}

func assessmentID(r *http.Request) (string, error) {
	return shared.ParseID(r, "assessmentID", "assessment_not_found", "Assessment not found")
}

// parseFilter reads the assessment query parameters shared by the list and
// history endpoints.
func parseFilter(r *http.Request, v *shared.Validator) performance.AssessmentFilter {
	query := r.URL.Query()
	var filter performance.AssessmentFilter

	if id := query.Get("employeeId"); id != "" {
		if !shared.ValidUUID(id) {
			v.Add("employeeId", "Employee id must be a valid id")
		}
		filter.EmployeeID = id
	}
	if id := query.Get("kpiId"); id != "" {
		if !shared.ValidUUID(id) {
			v.Add("kpiId", "KPI id must be a valid id")
		}
		filter.KPIID = id
	}
	if raw := query.Get("period"); raw != "" {
		period, ok := performance.ParsePeriod(raw)
		if !ok {
			v.Add("period", "Period must be a valid month (YYYY-MM)")
		}
		filter.Period = period
	}

	start, end := query.Get("startDate"), query.Get("endDate")
	from := v.Date("startDate", &start)
	to := v.Date("endDate", &end)
	if from != nil {
		filter.From = *from
	}
	if to != nil {
		filter.To = *to
	}
	if from != nil && to != nil && to.Before(*from) {
		v.Add("endDate", "End date must not be before start date")
	}
	return filter
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	filter.Limit, filter.Offset = page.Limit, page.Offset()

	items, total, err := h.Service.ListAssessments(r.Context(), filter)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, shared.ListData("assessments", performance.RoundAll(items), page, total), requestID)
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := assessmentID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	a, err := h.Service.GetAssessment(r.Context(), id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, a.Rounded(), requestID)
}

func (h *Handler) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload assessmentRequest
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
	a, err := h.Service.CreateAssessment(r.Context(), actor.UserID, performance.AssessmentInput{
		EmployeeID: payload.EmployeeID,
		KPIID:      payload.KPIID,
		Weight:     payload.Weight,
		Target:     payload.Target,
		Actual:     payload.Actual,
		Period:     payload.Period,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, a.Rounded(), requestID)
}

func (h *Handler) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := assessmentID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload assessmentPatchRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	a, err := h.Service.UpdateAssessment(r.Context(), actor.UserID, id, performance.AssessmentPatch{
		Weight: payload.Weight,
		Target: payload.Target,
		Actual: payload.Actual,
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, a.Rounded(), requestID)
}

func (h *Handler) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := assessmentID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Service.DeleteAssessment(r.Context(), actor.UserID, id); err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestID)
}

func (h *Handler) handleEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := shared.ParseID(r, "employeeID", "employee_not_found", "Employee not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, requestID) {
		return
	}

	history, err := h.Service.EmployeeHistory(r.Context(), employeeID, filter)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, history, requestID)
}
