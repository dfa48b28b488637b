package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"

	"github.com/hibiken/asynq"
)

// Task type for deferred notification dispatch (mirrored in internal/worker
// to avoid an import cycle).
const (
	TypeNotifyUser = "notify-user"

	QueueNotifications = "notifications"
)

type NotifyPayload struct {
	UserId      int    `json:"userId"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	ReferenceId string `json:"referenceId,omitempty"`
}

// NotificationService reads the authenticated user's notifications and
// dispatches the workflow's notification side-effects. Dispatch is always
// best-effort: a failed notification never fails the operation that fired it.
type NotificationService struct {
	Gateway *gateway.Client
	Bus     *events.Bus
	Tasks   *asynq.Client // optional; when set, dispatch rides the notifications queue

	mu       sync.RWMutex
	cached   []models.Notification
	lastErr  string
	lastUser int
}

func NewNotificationService(gw *gateway.Client, bus *events.Bus, tasks *asynq.Client) *NotificationService {
	return &NotificationService{Gateway: gw, Bus: bus, Tasks: tasks}
}

// List fetches and caches the user's notifications.
func (s *NotificationService) List(userId int) []models.Notification {
	query := url.Values{}
	if userId > 0 {
		query.Set("userId", fmt.Sprint(userId))
	}

	resp, err := s.Gateway.Get("/Notification/GetUserNotifications", query)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		cached := append([]models.Notification(nil), s.cached...)
		s.mu.Unlock()
		return cached
	}

	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		cached := append([]models.Notification(nil), s.cached...)
		s.mu.Unlock()
		return cached
	}

	items := make([]models.Notification, 0, len(raws))
	for _, raw := range raws {
		var n models.Notification
		if err := json.Unmarshal(raw, &n); err == nil {
			items = append(items, n)
		}
	}

	s.mu.Lock()
	s.cached = items
	s.lastErr = ""
	s.lastUser = userId
	s.mu.Unlock()
	return append([]models.Notification(nil), items...)
}

func (s *NotificationService) Data() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification(nil), s.cached...)
}

func (s *NotificationService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *NotificationService) Refetch() []models.Notification {
	s.mu.RLock()
	userId := s.lastUser
	s.mu.RUnlock()
	return s.List(userId)
}

func (s *NotificationService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *NotificationService) MarkAsRead(id int) (interface{}, error) {
	if _, err := s.Gateway.Put(fmt.Sprintf("/Notification/MarkAsRead/%d", id), nil); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	s.publishUpdated()
	return common.NewSuccessResponse(nil, "Notification marked as read"), nil
}

func (s *NotificationService) MarkAllRead() (interface{}, error) {
	if _, err := s.Gateway.Put("/Notification/MarkAsReadAll", nil); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}
	s.Invalidate()
	s.publishUpdated()
	return common.NewSuccessResponse(nil, "All notifications marked as read"), nil
}

// Notify fires a notification side-effect. With a task client configured it
// is queued for the dispatch worker, otherwise delivered inline.
func (s *NotificationService) Notify(payload NotifyPayload) {
	if payload.UserId == 0 {
		return
	}

	if s.Tasks != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			_, err = s.Tasks.Enqueue(
				asynq.NewTask(TypeNotifyUser, data),
				asynq.Queue(QueueNotifications),
			)
			if err == nil {
				return
			}
		}
		Sugar.Warnw("falling back to inline notification dispatch", "error", err)
	}

	s.Dispatch(payload)
}

// Dispatch performs the actual delivery: a best-effort create on the backend
// plus a notifications:updated broadcast.
func (s *NotificationService) Dispatch(payload NotifyPayload) {
	body := map[string]interface{}{
		"userId":  payload.UserId,
		"type":    payload.Type,
		"title":   payload.Title,
		"message": payload.Message,
	}
	if payload.ReferenceId != "" {
		body["referenceId"] = payload.ReferenceId
	}

	if _, err := s.Gateway.Post("/Notification/register", body); err != nil {
		Sugar.Warnw("notification delivery failed",
			"userId", payload.UserId,
			"type", payload.Type,
			"error", err,
		)
	}

	s.publishUpdated()
}

func (s *NotificationService) publishUpdated() {
	if s.Bus != nil {
		s.Bus.Publish(events.TopicNotificationsUpdated, nil)
	}
}
