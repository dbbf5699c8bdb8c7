package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hrdesk/leave_service/internal/apperr"
	"github.com/hrdesk/leave_service/internal/controllers"
	"github.com/hrdesk/leave_service/internal/entity"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Controllers *controllers.Controllers
	Logger      *slog.Logger
}

func NewServer(deps *controllers.Dependens) *Server {
	return &Server{
		Controllers: controllers.NewControllers(deps),
		Logger:      deps.Logger,
	}
}

// RegisterRoutes mounts every endpoint on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", s.GetEmployees)
			r.Post("/", s.CreateEmployee)
			r.Get("/{id}", s.GetEmployeeByID)
			r.Put("/{id}", s.UpdateEmployee)
			r.Delete("/{id}", s.DeleteEmployee)
			r.Get("/{id}/balance", s.GetEmployeeBalance)
			r.Put("/{id}/balance", s.UpdateEmployeeBalance)
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Get("/", s.GetLeaveRequests)
			r.Post("/", s.CreateLeaveRequest)
			r.Get("/stats", s.GetLeaveStats)
			r.Get("/{id}", s.GetLeaveRequestByID)
			r.Put("/{id}", s.ReviewLeaveRequest)
			r.Delete("/{id}", s.CancelLeaveRequest)
		})
	})
}

func (s *Server) pathID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	resp := map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	}

	respData, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		s.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}

// errorResponse maps a controller error onto the wire. Conflict errors carry
// the overlapping requests alongside the message.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)

	if appErr, ok := apperr.As(err); ok {
		if len(appErr.Conflicts) > 0 {
			s.httpResponse(w, status, map[string]any{
				"error":                appErr.Message,
				"overlapping_requests": appErr.Conflicts,
			}, "error")
			return
		}

		s.httpResponse(w, status, map[string]string{"error": appErr.Message}, "error")
		return
	}

	s.httpResponse(w, status, map[string]string{"error": "Internal server error"}, "error")
}

// GetEmployees get all employees.
func (s *Server) GetEmployees(w http.ResponseWriter, _ *http.Request) {
	employees, err := s.Controllers.EmployeeController.GetEmployees()
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, employees, "success")
}

// GetEmployeeByID get employee by id, with their leave requests.
func (s *Server) GetEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee id"}, "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.GetEmployeeByID(id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, employee, "success")
}

// CreateEmployee create new employee.
func (s *Server) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.CreateEmployee(req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, employee, "success")
}

// UpdateEmployee update employee by id.
func (s *Server) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee id"}, "error")
		return
	}

	var req entity.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.UpdateEmployee(id, req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, employee, "success")
}

// DeleteEmployee delete employee and their leave requests.
func (s *Server) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee id"}, "error")
		return
	}

	if err := s.Controllers.EmployeeController.DeleteEmployee(id); err != nil {
		s.errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetEmployeeBalance get employee balance summary.
func (s *Server) GetEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee id"}, "error")
		return
	}

	balance, err := s.Controllers.EmployeeController.GetEmployeeBalance(id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, balance, "success")
}

// UpdateEmployeeBalance set employee balance (HR adjustment).
func (s *Server) UpdateEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee id"}, "error")
		return
	}

	var req entity.UpdateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	result, err := s.Controllers.EmployeeController.SetEmployeeBalance(id, req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, result, "success")
}

// CreateLeaveRequest submit a new leave request.
func (s *Server) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req entity.SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	result, err := s.Controllers.LeaveController.SubmitLeaveRequest(req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, result, "success")
}

// GetLeaveRequests list leave requests with optional filters and pagination.
func (s *Server) GetLeaveRequests(w http.ResponseWriter, r *http.Request) {
	params := entity.ListLeaveParams{}
	query := r.URL.Query()

	if v := query.Get("employee_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee_id"}, "error")
			return
		}
		params.EmployeeID = &id
	}

	if v := query.Get("status"); v != "" {
		status := entity.LeaveStatus(v)
		if !status.Valid() {
			s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid status filter"}, "error")
			return
		}
		params.Status = &status
	}

	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			params.Page = page
		}
	}

	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			params.Limit = limit
		}
	}

	page, err := s.Controllers.LeaveController.ListLeaveRequests(params)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

// GetLeaveRequestByID get one leave request with its day count.
func (s *Server) GetLeaveRequestByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid leave request id"}, "error")
		return
	}

	request, err := s.Controllers.LeaveController.GetLeaveRequestByID(id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, request, "success")
}

// ReviewLeaveRequest approve or reject a pending request.
func (s *Server) ReviewLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid leave request id"}, "error")
		return
	}

	var req entity.ReviewLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	request, err := s.Controllers.LeaveController.ReviewLeaveRequest(id, req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, request, "success")
}

// CancelLeaveRequest cancel a pending request.
func (s *Server) CancelLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(r)
	if !ok {
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid leave request id"}, "error")
		return
	}

	if err := s.Controllers.LeaveController.CancelLeaveRequest(id); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Leave request cancelled successfully"}, "success")
}

// GetLeaveStats get yearly leave statistics, company-wide or for one employee.
func (s *Server) GetLeaveStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year := time.Now().UTC().Year()
	if v := query.Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid year"}, "error")
			return
		}
		year = parsed
	}

	if v := query.Get("employee_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid employee_id"}, "error")
			return
		}

		stats, statsErr := s.Controllers.StatsController.GetEmployeeLeaveStats(id, year)
		if statsErr != nil {
			s.errorResponse(w, statsErr)
			return
		}

		s.httpResponse(w, http.StatusOK, stats, "success")
		return
	}

	stats, err := s.Controllers.StatsController.GetCompanyLeaveStats(year)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, stats, "success")
}
