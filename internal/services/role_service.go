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

type RoleService struct {
	Gateway *gateway.Client

	mu      sync.RWMutex
	cached  []models.Role
	lastErr string
}

func NewRoleService(gw *gateway.Client) *RoleService {
	return &RoleService{Gateway: gw}
}

func (s *RoleService) List(filters map[string]interface{}) []models.Role {
	body := map[string]interface{}{}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/Roles", body)
	if err != nil {
		return s.failList(err)
	}
	return s.storeList(resp)
}

// All uses the unfiltered flat-list endpoint, kept for drop-downs.
func (s *RoleService) All() []models.Role {
	resp, err := s.Gateway.Get("/Roles/getallList", nil)
	if err != nil {
		return s.failList(err)
	}
	return s.storeList(resp)
}

func (s *RoleService) storeList(resp []byte) []models.Role {
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		return s.failList(err)
	}

	roles := make([]models.Role, 0, len(raws))
	for _, raw := range raws {
		var r models.Role
		if err := json.Unmarshal(raw, &r); err == nil {
			roles = append(roles, r)
		}
	}

	s.mu.Lock()
	s.cached = roles
	s.lastErr = ""
	s.mu.Unlock()
	return append([]models.Role(nil), roles...)
}

func (s *RoleService) failList(err error) []models.Role {
	s.mu.Lock()
	s.lastErr = err.Error()
	cached := append([]models.Role(nil), s.cached...)
	s.mu.Unlock()
	return cached
}

func (s *RoleService) Data() []models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Role(nil), s.cached...)
}

func (s *RoleService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *RoleService) Refetch() []models.Role {
	return s.List(nil)
}

func (s *RoleService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

type RegisterRoleDTO struct {
	Name   string `json:"name" binding:"required"`
	NameAr string `json:"nameAr"`
}

func (s *RoleService) Register(data RegisterRoleDTO) (interface{}, error) {
	if data.Name == "" {
		return common.NewErrorResponse("Role name is required", nil, http.StatusBadRequest), nil
	}
	if _, err := s.Gateway.Post("/Roles/register", data); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Role created"), nil
}

func (s *RoleService) Edit(id int, data RegisterRoleDTO) (interface{}, error) {
	if _, err := s.Gateway.Put(fmt.Sprintf("/Roles/Edit/%d", id), data); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Role updated"), nil
}

// UpdatePermissions replaces the role's permission set. The backend expects
// the misspelled body key; do not fix it here. Duplicate type/value pairs are
// collapsed before sending; the backend rejects sets containing repeats.
func (s *RoleService) UpdatePermissions(roleId int, permissions []models.Permission) (interface{}, error) {
	deduped := models.Role{}
	for _, p := range permissions {
		if !deduped.HasPermission(p.Type, p.Value) {
			deduped.Permissions = append(deduped.Permissions, p)
		}
	}

	payload := map[string]interface{}{
		"roleId":     roleId,
		"permisions": deduped.Permissions,
	}
	if _, err := s.Gateway.Post("/Roles/UpdatePermissions", payload); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Permissions updated"), nil
}

func (s *RoleService) Delete(id int) (interface{}, error) {
	if _, err := s.Gateway.Delete(fmt.Sprintf("/Roles/%d", id)); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Role deleted"), nil
}
