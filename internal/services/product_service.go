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

type ProductService struct {
	Gateway *gateway.Client

	mu      sync.RWMutex
	cached  []models.Product
	lastErr string
	filters map[string]interface{}
}

func NewProductService(gw *gateway.Client) *ProductService {
	return &ProductService{Gateway: gw}
}

// List is POST-with-filter-body on this backend.
func (s *ProductService) List(filters map[string]interface{}) []models.Product {
	body := map[string]interface{}{}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/Product", body)
	if err != nil {
		return s.failList(err)
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		return s.failList(err)
	}

	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			products = append(products, p)
		}
	}

	s.mu.Lock()
	s.cached = products
	s.filters = filters
	s.lastErr = ""
	s.mu.Unlock()
	return append([]models.Product(nil), products...)
}

func (s *ProductService) failList(err error) []models.Product {
	s.mu.Lock()
	s.lastErr = err.Error()
	cached := append([]models.Product(nil), s.cached...)
	s.mu.Unlock()
	return cached
}

func (s *ProductService) Data() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.cached...)
}

func (s *ProductService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ProductService) Refetch() []models.Product {
	s.mu.RLock()
	filters := s.filters
	s.mu.RUnlock()
	return s.List(filters)
}

func (s *ProductService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

type RegisterProductDTO struct {
	Name          string  `json:"name" binding:"required"`
	NameAr        string  `json:"nameAr"`
	Description   string  `json:"description"`
	DescriptionAr string  `json:"descriptionAr"`
	Points        float64 `json:"points" binding:"required"`
}

func (s *ProductService) Register(data RegisterProductDTO, image *gateway.FilePart) (interface{}, error) {
	if data.Name == "" {
		return common.NewErrorResponse("Product name is required", nil, http.StatusBadRequest), nil
	}
	if data.Points <= 0 {
		return common.NewErrorResponse("Points cost must be positive", nil, http.StatusBadRequest), nil
	}

	var err error
	if image != nil {
		fields := map[string]string{
			"name":          data.Name,
			"nameAr":        data.NameAr,
			"description":   data.Description,
			"descriptionAr": data.DescriptionAr,
			"points":        fmt.Sprint(data.Points),
		}
		_, err = s.Gateway.PostMultipart("/Product/register", nil, fields, []gateway.FilePart{*image})
	} else {
		_, err = s.Gateway.Post("/Product/register", data)
	}
	if err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.Invalidate()
	return common.NewSuccessResponse(nil, "Product created"), nil
}

// Edit updates a product. A replacement image, when provided, switches the
// payload to multipart.
func (s *ProductService) Edit(id int, data RegisterProductDTO, image *gateway.FilePart) (interface{}, error) {
	if data.Name == "" {
		return common.NewErrorResponse("Product name is required", nil, http.StatusBadRequest), nil
	}
	if data.Points <= 0 {
		return common.NewErrorResponse("Points cost must be positive", nil, http.StatusBadRequest), nil
	}

	var err error
	if image != nil {
		fields := map[string]string{
			"name":          data.Name,
			"nameAr":        data.NameAr,
			"description":   data.Description,
			"descriptionAr": data.DescriptionAr,
			"points":        fmt.Sprint(data.Points),
		}
		_, err = s.Gateway.PutMultipart(fmt.Sprintf("/Product/Edit/%d", id), fields, []gateway.FilePart{*image})
	} else {
		_, err = s.Gateway.Put(fmt.Sprintf("/Product/Edit/%d", id), data)
	}
	if err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.Invalidate()
	return common.NewSuccessResponse(nil, "Product updated"), nil
}

func (s *ProductService) Delete(id int) (interface{}, error) {
	if _, err := s.Gateway.Delete(fmt.Sprintf("/Product/%d", id)); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Product deleted"), nil
}
