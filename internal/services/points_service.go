package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"

	"github.com/shopspring/decimal"
)

// PointsService fronts the point-conversion settings and performs the
// amount/points exchange math with decimals so repeated conversions do not
// drift.
type PointsService struct {
	Gateway *gateway.Client

	mu      sync.RWMutex
	cached  *models.PointConversionSetting
	lastErr string
}

func NewPointsService(gw *gateway.Client) *PointsService {
	return &PointsService{Gateway: gw}
}

func (s *PointsService) Get() (*models.PointConversionSetting, error) {
	resp, err := s.Gateway.Get("/PointConversionSetting", nil)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		cached := s.cached
		s.mu.Unlock()
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}

	var setting models.PointConversionSetting
	raws, _, listErr := gateway.DecodeList(resp)
	if listErr == nil && len(raws) > 0 {
		// Some deployments return the single setting wrapped in a list.
		err = json.Unmarshal(raws[0], &setting)
	} else {
		raw, objErr := gateway.DecodeObject(resp)
		if objErr != nil {
			return nil, objErr
		}
		err = json.Unmarshal(raw, &setting)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = &setting
	s.lastErr = ""
	s.mu.Unlock()
	return &setting, nil
}

func (s *PointsService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *PointsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

type EditConversionDTO struct {
	Amount float64 `json:"amount" binding:"required"`
	Points float64 `json:"points" binding:"required"`
}

func (s *PointsService) Edit(id int, data EditConversionDTO) (interface{}, error) {
	if data.Amount <= 0 || data.Points <= 0 {
		return common.NewErrorResponse("Amount and points must both be positive", nil, http.StatusBadRequest), nil
	}
	if _, err := s.Gateway.Put(fmt.Sprintf("/PointConversionSetting/Edit/%d", id), data); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	return common.NewSuccessResponse(nil, "Conversion rate updated"), nil
}

// ToPoints converts a monetary amount into points at the cached rate,
// rounding down so the system never over-awards.
func (s *PointsService) ToPoints(amount float64) (float64, error) {
	setting, err := s.currentSetting()
	if err != nil {
		return 0, err
	}
	points := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(setting.Points)).
		Div(decimal.NewFromFloat(setting.Amount)).
		RoundDown(2)
	f, _ := points.Float64()
	return f, nil
}

// ToAmount converts points back to a monetary amount at the cached rate.
func (s *PointsService) ToAmount(points float64) (float64, error) {
	setting, err := s.currentSetting()
	if err != nil {
		return 0, err
	}
	amount := decimal.NewFromFloat(points).
		Mul(decimal.NewFromFloat(setting.Amount)).
		Div(decimal.NewFromFloat(setting.Points)).
		RoundDown(2)
	f, _ := amount.Float64()
	return f, nil
}

func (s *PointsService) currentSetting() (*models.PointConversionSetting, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached == nil {
		var err error
		cached, err = s.Get()
		if err != nil {
			return nil, err
		}
	}
	if cached.Amount <= 0 || cached.Points <= 0 {
		return nil, errors.New("conversion setting is not configured")
	}
	return cached, nil
}
