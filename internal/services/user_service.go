package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"
)

// UserService fronts the Users resource. Listing is POST-with-filter-body,
// edit takes query-string scalars plus an optional multipart profile image.
type UserService struct {
	Gateway *gateway.Client

	mu      sync.RWMutex
	cached  []models.User
	lastErr string
	filters map[string]interface{}
}

func NewUserService(gw *gateway.Client) *UserService {
	return &UserService{Gateway: gw}
}

func (s *UserService) List(filters map[string]interface{}) []models.User {
	body := map[string]interface{}{}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/Users", body)
	if err != nil {
		return s.failList(err)
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		return s.failList(err)
	}

	users := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		var u models.User
		if err := json.Unmarshal(raw, &u); err == nil {
			users = append(users, u)
		}
	}

	s.mu.Lock()
	s.cached = users
	s.filters = filters
	s.lastErr = ""
	s.mu.Unlock()
	return append([]models.User(nil), users...)
}

func (s *UserService) failList(err error) []models.User {
	s.mu.Lock()
	s.lastErr = err.Error()
	cached := append([]models.User(nil), s.cached...)
	s.mu.Unlock()
	return cached
}

func (s *UserService) Data() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.cached...)
}

func (s *UserService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *UserService) Refetch() []models.User {
	s.mu.RLock()
	filters := s.filters
	s.mu.RUnlock()
	return s.List(filters)
}

func (s *UserService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// DropDown returns the lightweight user list used to resolve beneficiaries.
// When the except-employee endpoint is down, the full drop-down is fetched
// and employees are filtered out here instead.
func (s *UserService) DropDown(exceptEmployees bool) ([]models.User, error) {
	path := "/Users/GetDropDown"
	if exceptEmployees {
		path = "/Users/GetDropDownExceptEmployee"
	}
	resp, err := s.Gateway.Get(path, nil)
	if err != nil && exceptEmployees {
		resp, err = s.Gateway.Get("/Users/GetDropDown", nil)
	}
	if err != nil {
		return nil, err
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			continue
		}
		if exceptEmployees && u.IsEmployee() {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

type RegisterUserDTO struct {
	Name     string `json:"name" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// Register creates a plain user. The registration endpoint only speaks
// multipart, with or without a profile image.
func (s *UserService) Register(data RegisterUserDTO, image *gateway.FilePart) (interface{}, error) {
	if data.Name == "" || data.UserName == "" {
		return common.NewErrorResponse("Name and user name are required", nil, http.StatusBadRequest), nil
	}
	if data.Password == "" {
		return common.NewErrorResponse("Password is required", nil, http.StatusBadRequest), nil
	}

	fields := map[string]string{
		"name":     data.Name,
		"userName": data.UserName,
		"password": data.Password,
	}
	if data.Mobile != "" {
		fields["mobile"] = data.Mobile
	}
	if data.Email != "" {
		fields["email"] = data.Email
	}

	var files []gateway.FilePart
	if image != nil {
		files = append(files, *image)
	}

	if _, err := s.Gateway.PostMultipart("/Auth/register", nil, fields, files); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.Invalidate()
	return common.NewSuccessResponse(nil, "User created"), nil
}

type EditUserDTO struct {
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	RoleId       int    `json:"roleId"`
	SupervisorId int    `json:"supervisorId"`
	IsActive     *bool  `json:"isActive"`
}

// Edit updates a user. Scalars ride the query string, the profile image (if
// any) rides a multipart body; that is the shape this backend insists on.
func (s *UserService) Edit(id int, data EditUserDTO, image *gateway.FilePart) (interface{}, error) {
	query := url.Values{}
	if data.Name != "" {
		query.Set("name", data.Name)
	}
	if data.Mobile != "" {
		query.Set("mobile", data.Mobile)
	}
	if data.Email != "" {
		query.Set("email", data.Email)
	}
	if data.RoleId > 0 {
		query.Set("roleId", fmt.Sprint(data.RoleId))
	}
	if data.SupervisorId > 0 {
		query.Set("supervisorId", fmt.Sprint(data.SupervisorId))
	}
	if data.IsActive != nil {
		query.Set("isActive", fmt.Sprint(*data.IsActive))
	}

	var files []gateway.FilePart
	if image != nil {
		files = append(files, *image)
	}

	if _, err := s.Gateway.PostMultipart(fmt.Sprintf("/Users/Edit/%d", id), query, nil, files); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.Invalidate()
	return common.NewSuccessResponse(nil, "User updated"), nil
}

func (s *UserService) ChangePassword(id int, oldPassword, newPassword string) (interface{}, error) {
	if newPassword == "" {
		return common.NewErrorResponse("New password is required", nil, http.StatusBadRequest), nil
	}
	payload := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	if _, err := s.Gateway.Post(fmt.Sprintf("/Users/changepassword/%d", id), payload); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	return common.NewSuccessResponse(nil, "Password changed"), nil
}

// RefreshUser re-reads a single user and patches the cached copy. Used to
// resync a balance after a recharge approval.
func (s *UserService) RefreshUser(id int) (*models.User, error) {
	resp, err := s.Gateway.Post("/Users", map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil || len(raws) == 0 {
		return nil, fmt.Errorf("user %d not found on refresh", id)
	}

	var user models.User
	if err := json.Unmarshal(raws[0], &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID == user.ID {
			s.cached[i] = user
			break
		}
	}
	s.mu.Unlock()
	return &user, nil
}

// Exists reports whether the id resolves to a known user, consulting the
// cache first and the drop-down endpoint when the cache is cold.
func (s *UserService) Exists(id int) bool {
	if id <= 0 {
		return false
	}
	s.mu.RLock()
	for _, u := range s.cached {
		if u.ID == id {
			s.mu.RUnlock()
			return true
		}
	}
	cold := len(s.cached) == 0
	s.mu.RUnlock()

	if !cold {
		return false
	}
	users, err := s.DropDown(false)
	if err != nil {
		// Cannot verify; let the backend be the judge.
		return true
	}
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
