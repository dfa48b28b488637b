package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"
)

// EmployeeService fronts the Employee resource. Employees are users created
// through a dedicated registration endpoint; the backend links them to a
// supervisor and a role on creation.
type EmployeeService struct {
	Gateway *gateway.Client

	mu      sync.RWMutex
	cached  []models.User
	lastErr string
	filters map[string]interface{}
}

func NewEmployeeService(gw *gateway.Client) *EmployeeService {
	return &EmployeeService{Gateway: gw}
}

func (s *EmployeeService) List(filters map[string]interface{}) []models.User {
	body := map[string]interface{}{}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/Employee", body)
	if err != nil {
		return s.failList(err)
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		return s.failList(err)
	}

	employees := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		var u models.User
		if err := json.Unmarshal(raw, &u); err == nil {
			employees = append(employees, u)
		}
	}

	s.mu.Lock()
	s.cached = employees
	s.filters = filters
	s.lastErr = ""
	s.mu.Unlock()
	return append([]models.User(nil), employees...)
}

func (s *EmployeeService) failList(err error) []models.User {
	s.mu.Lock()
	s.lastErr = err.Error()
	cached := append([]models.User(nil), s.cached...)
	s.mu.Unlock()
	return cached
}

func (s *EmployeeService) Data() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.cached...)
}

func (s *EmployeeService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *EmployeeService) Refetch() []models.User {
	s.mu.RLock()
	filters := s.filters
	s.mu.RUnlock()
	return s.List(filters)
}

func (s *EmployeeService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

type RegisterEmployeeDTO struct {
	Name         string `json:"name" binding:"required"`
	UserName     string `json:"userName" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	RoleId       int    `json:"roleId"`
	SupervisorId int    `json:"supervisorId"`
}

// Register creates an employee. A profile image, when provided, switches the
// payload to multipart.
func (s *EmployeeService) Register(data RegisterEmployeeDTO, image *gateway.FilePart) (interface{}, error) {
	if data.Name == "" || data.UserName == "" || data.Password == "" {
		return common.NewErrorResponse("Name, username and password are required", nil, http.StatusBadRequest), nil
	}

	var err error
	if image != nil {
		fields := map[string]string{
			"name":     data.Name,
			"userName": data.UserName,
			"password": data.Password,
			"mobile":   data.Mobile,
			"email":    data.Email,
		}
		if data.RoleId > 0 {
			fields["roleId"] = fmt.Sprint(data.RoleId)
		}
		if data.SupervisorId > 0 {
			fields["supervisorId"] = fmt.Sprint(data.SupervisorId)
		}
		_, err = s.Gateway.PostMultipart("/Employee/register", nil, fields, []gateway.FilePart{*image})
	} else {
		_, err = s.Gateway.Post("/Employee/register", data)
	}
	if err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.Invalidate()
	return common.NewSuccessResponse(nil, "Employee registered"), nil
}

func (s *EmployeeService) Edit(id int, data map[string]interface{}) (interface{}, error) {
	if _, err := s.Gateway.Put(fmt.Sprintf("/Employee/Edit/%d", id), data); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Employee updated"), nil
}

func (s *EmployeeService) Delete(id int) (interface{}, error) {
	if _, err := s.Gateway.Delete(fmt.Sprintf("/Employee/%d", id)); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Employee deleted"), nil
}
