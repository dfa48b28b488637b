package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// Refetch task types (mirrored in internal/worker to avoid an import cycle).
const (
	TypeRefetchOrders   = "refetch-orders"
	TypeRefetchMyOrders = "refetch-my-orders"
	TypeRefetchPending  = "refetch-pending"

	QueueRefetch = "refetch"
)

type RefetchPayload struct {
	UserId int `json:"userId,omitempty"`
}

// RefetchDelays controls the deferred reconciliation reads that absorb the
// backend's replication lag. Tests shrink these.
type RefetchDelays struct {
	MyOrdersRetry  time.Duration // retry after an optimistic create
	RechargeFirst  time.Duration // first staggered refetch after a recharge
	RechargeSecond time.Duration // second staggered refetch after a recharge
	EditReconcile  time.Duration // full refetch after an optimistic edit
}

func DefaultRefetchDelays() RefetchDelays {
	return RefetchDelays{
		MyOrdersRetry:  1500 * time.Millisecond,
		RechargeFirst:  1 * time.Second,
		RechargeSecond: 3 * time.Second,
		EditReconcile:  1200 * time.Millisecond,
	}
}

// OrderService owns the client-side view of orders: the full list, the
// pending subset and the current user's own orders. It mediates every
// lifecycle transition and keeps local state eventually consistent with the
// backend through refetch-after-mutation. Creation and field edits apply an
// optimistic local update for responsiveness; approve/reject never touch
// local state before server confirmation because the transition is
// irreversible.
type OrderService struct {
	Gateway       *gateway.Client
	Notifications *NotificationService
	Users         *UserService
	Bus           *events.Bus
	Tasks         *asynq.Client // optional; timers are used when absent
	Delays        RefetchDelays

	mu          sync.RWMutex
	orders      []models.Order
	pending     []models.Order
	myOrders    []models.Order
	totalItems  int
	currentPage int
	lastErr     string
	lastFilters map[string]interface{}
	myUserId    int
}

func NewOrderService(gw *gateway.Client, notifications *NotificationService, users *UserService, bus *events.Bus, tasks *asynq.Client) *OrderService {
	return &OrderService{
		Gateway:       gw,
		Notifications: notifications,
		Users:         users,
		Bus:           bus,
		Tasks:         tasks,
		Delays:        DefaultRefetchDelays(),
	}
}

// ---- Fetching ----

// FetchOrders loads a page of orders. It never returns an error: failures
// are recorded as the user-visible error state and the previous list is kept.
func (s *OrderService) FetchOrders(page int, filters map[string]interface{}) []models.Order {
	if page < 1 {
		page = 1
	}
	body := map[string]interface{}{"page": page}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/UserRequest", body)
	if err != nil {
		return s.failOrders(err)
	}
	raws, info, err := gateway.DecodeList(resp)
	if err != nil {
		return s.failOrders(err)
	}

	orders := unmarshalOrders(raws)
	sortByCreationDesc(orders)

	s.mu.Lock()
	s.orders = orders
	s.totalItems = info.TotalItems
	if s.totalItems == 0 {
		s.totalItems = len(orders)
	}
	s.currentPage = info.CurrentPage
	if s.currentPage == 0 {
		s.currentPage = page
	}
	s.lastFilters = filters
	s.lastErr = ""
	s.mu.Unlock()

	return append([]models.Order(nil), orders...)
}

// FetchMyOrders loads the user's own orders. The dedicated endpoint has a
// history of dropping one of the two order types for mixed queries, so two
// type-filtered reads are issued and merged by id, last write wins. If both
// fail, a single unfiltered read is the fallback.
func (s *OrderService) FetchMyOrders(filters map[string]interface{}, userId int) []models.Order {
	merged := map[int]models.Order{}
	failures := 0

	for _, typeValue := range []int{models.OrderTypeProduct, models.OrderTypeRecharge} {
		body := map[string]interface{}{"userId": userId, "typeValue": typeValue}
		for k, v := range filters {
			body[k] = v
		}
		resp, err := s.Gateway.Post("/UserRequest/GetMyRequests", body)
		if err != nil {
			failures++
			continue
		}
		raws, _, err := gateway.DecodeList(resp)
		if err != nil {
			failures++
			continue
		}
		for _, order := range unmarshalOrders(raws) {
			merged[order.ID] = order
		}
	}

	if failures == 2 {
		resp, err := s.Gateway.Post("/UserRequest/GetMyRequests", map[string]interface{}{"userId": userId})
		if err != nil {
			return s.failMyOrders(err, userId)
		}
		raws, _, err := gateway.DecodeList(resp)
		if err != nil {
			return s.failMyOrders(err, userId)
		}
		for _, order := range unmarshalOrders(raws) {
			merged[order.ID] = order
		}
	}

	mine := make([]models.Order, 0, len(merged))
	for _, order := range merged {
		mine = append(mine, order)
	}
	sortByCreationDesc(mine)

	s.mu.Lock()
	s.myOrders = mine
	s.myUserId = userId
	s.lastErr = ""
	s.mu.Unlock()

	return append([]models.Order(nil), mine...)
}

// FetchPendingOrders loads the approval queue.
func (s *OrderService) FetchPendingOrders(filters map[string]interface{}) []models.Order {
	body := map[string]interface{}{}
	for k, v := range filters {
		body[k] = v
	}

	resp, err := s.Gateway.Post("/UserRequest/GetPending", body)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		cached := append([]models.Order(nil), s.pending...)
		s.mu.Unlock()
		return cached
	}
	raws, _, err := gateway.DecodeList(resp)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		cached := append([]models.Order(nil), s.pending...)
		s.mu.Unlock()
		return cached
	}

	pending := unmarshalOrders(raws)
	sortByCreationDesc(pending)

	s.mu.Lock()
	s.pending = pending
	s.lastErr = ""
	s.mu.Unlock()

	return append([]models.Order(nil), pending...)
}

// PendingOrAll is the degraded-mode view: when the pending endpoint comes
// back empty but the main list still holds pending entries, show those.
func (s *OrderService) PendingOrAll() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pending) > 0 {
		return append([]models.Order(nil), s.pending...)
	}
	var fallback []models.Order
	for _, order := range s.orders {
		if order.Status == models.OrderPending {
			fallback = append(fallback, order)
		}
	}
	return fallback
}

func (s *OrderService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

func (s *OrderService) MyOrders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.myOrders...)
}

func (s *OrderService) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalItems
}

func (s *OrderService) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

func (s *OrderService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ---- Creation ----

type CreateProductOrderDTO struct {
	ProductId   int    `json:"productId" binding:"required"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity" binding:"required"`
	ForUserId   int    `json:"forUserId"`
}

// CreateProductOrder validates and submits a product redemption. On success
// the created order is optimistically prepended to the user's own list, then
// everything is refetched, with a delayed retry on my-orders to tolerate
// replication lag.
func (s *OrderService) CreateProductOrder(data CreateProductOrderDTO, currentUser models.User) (interface{}, error) {
	if data.ProductId <= 0 {
		return common.NewErrorResponse("Select a product first", nil, http.StatusBadRequest), nil
	}
	if data.Quantity < 1 || data.Quantity > 99 {
		return common.NewErrorResponse("Quantity must be between 1 and 99", nil, http.StatusBadRequest), nil
	}
	forUserId := data.ForUserId
	if forUserId == 0 {
		forUserId = currentUser.ID
	}
	if forUserId == 0 {
		return common.NewErrorResponse("The request beneficiary could not be resolved", nil, http.StatusBadRequest), nil
	}
	if s.Users != nil && !s.Users.Exists(forUserId) {
		return common.NewErrorResponse("The selected user does not exist", nil, http.StatusBadRequest), nil
	}

	ref := uuid.NewString()
	payload := map[string]interface{}{
		"productId":         data.ProductId,
		"quantity":          data.Quantity,
		"forUserId":         forUserId,
		"requestedByUserId": currentUser.ID,
		"clientRef":         ref,
	}

	resp, err := s.Gateway.Post("/UserRequest/registerProductRequest", payload)
	if err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	created := decodeOrder(resp)
	if created != nil {
		s.prependMyOrder(*created)
	}

	s.refetchAfterMutation()
	s.FetchMyOrders(nil, forUserId)
	s.scheduleRefetch(TypeRefetchMyOrders, forUserId, s.Delays.MyOrdersRetry)

	s.Notifications.Notify(NotifyPayload{
		UserId:      currentUser.ID,
		Type:        models.NotifyOrderCreated,
		Title:       "Request submitted",
		Message:     fmt.Sprintf("Your product request for %s (x%d) was submitted and is pending approval.", productLabel(data.ProductName, data.ProductId), data.Quantity),
		ReferenceId: ref,
	})

	if created != nil {
		return common.NewSuccessResponse(*created, "Request submitted"), nil
	}
	return common.NewSuccessResponse(nil, "Request submitted"), nil
}

type RechargeRequestDTO struct {
	Amount            float64
	ForUserId         int
	RequestedByUserId int
	TransferProof     *gateway.FilePart
}

// CreateRechargeRequest validates and submits a balance top-up as multipart.
// No synthetic order is injected locally (its temporary id would never match
// the server's); instead three staggered refetches absorb the backend's
// eventual consistency.
func (s *OrderService) CreateRechargeRequest(data RechargeRequestDTO) (interface{}, error) {
	if data.Amount <= 0 {
		return common.NewErrorResponse("Amount must be a positive number", nil, http.StatusBadRequest), nil
	}
	if data.TransferProof == nil || len(data.TransferProof.Content) == 0 {
		return common.NewErrorResponse("A transfer proof image is required", nil, http.StatusBadRequest), nil
	}
	if data.ForUserId <= 0 {
		return common.NewErrorResponse("The request beneficiary could not be resolved", nil, http.StatusBadRequest), nil
	}

	requestedBy := data.RequestedByUserId
	if requestedBy == 0 {
		requestedBy = data.ForUserId
	}

	ref := common.GenerateRequestRef()
	fields := map[string]string{
		"amount":            fmt.Sprint(data.Amount),
		"forUserId":         fmt.Sprint(data.ForUserId),
		"requestedByUserId": fmt.Sprint(requestedBy),
		"reference":         ref,
	}

	// Upstream route name keeps its typo.
	_, err := s.Gateway.PostMultipart("/UserRequest/registerRechargeReuest", nil, fields, []gateway.FilePart{*data.TransferProof})
	if err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.refetchAfterMutation()
	s.FetchMyOrders(nil, data.ForUserId)
	for _, delay := range []time.Duration{s.Delays.RechargeFirst, s.Delays.RechargeSecond} {
		s.scheduleRefetch(TypeRefetchOrders, 0, delay)
		s.scheduleRefetch(TypeRefetchMyOrders, data.ForUserId, delay)
	}

	s.Notifications.Notify(NotifyPayload{
		UserId:      requestedBy,
		Type:        models.NotifyRechargeFiled,
		Title:       "Recharge submitted",
		Message:     fmt.Sprintf("Your recharge request of %.2f was submitted and is pending approval.", data.Amount),
		ReferenceId: ref,
	})

	return common.NewSuccessResponse(nil, "Recharge request submitted"), nil
}

// ---- Editing ----

// EditRechargeRequest patches the amount optimistically, submits, merges the
// authoritative response over the patch and defers a full refetch long enough
// that a stale read cannot clobber the optimistic value.
func (s *OrderService) EditRechargeRequest(id int, amount float64) (interface{}, error) {
	if amount <= 0 {
		return common.NewErrorResponse("Amount must be a positive number", nil, http.StatusBadRequest), nil
	}
	if local := s.find(id); local != nil && !local.Editable() {
		return common.NewErrorResponse("This request has already been processed and can no longer be edited", nil, http.StatusBadRequest), nil
	}

	s.patchLocal(id, func(o *models.Order) { o.Amount = amount })

	// Upstream route name keeps its typo.
	resp, err := s.Gateway.Put(fmt.Sprintf("/UserRequest/EditRechargeReuest/%d", id), map[string]interface{}{"amount": amount})
	if err != nil {
		s.scheduleRefetch(TypeRefetchOrders, 0, s.Delays.EditReconcile)
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	if authoritative := decodeOrder(resp); authoritative != nil && authoritative.ID == id {
		s.replaceLocal(*authoritative)
	}
	s.deferEditReconcile(id)

	return common.NewSuccessResponse(nil, "Recharge request updated"), nil
}

// EditProductRequest patches the quantity with the same optimistic policy.
func (s *OrderService) EditProductRequest(id int, quantity int) (interface{}, error) {
	if quantity < 1 || quantity > 99 {
		return common.NewErrorResponse("Quantity must be between 1 and 99", nil, http.StatusBadRequest), nil
	}
	if local := s.find(id); local != nil && !local.Editable() {
		return common.NewErrorResponse("This request has already been processed and can no longer be edited", nil, http.StatusBadRequest), nil
	}

	s.patchLocal(id, func(o *models.Order) { o.Quantity = quantity })

	resp, err := s.Gateway.Put(fmt.Sprintf("/UserRequest/EditProductRequest/%d", id), map[string]interface{}{"quantity": quantity})
	if err != nil {
		s.scheduleRefetch(TypeRefetchOrders, 0, s.Delays.EditReconcile)
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	if authoritative := decodeOrder(resp); authoritative != nil && authoritative.ID == id {
		s.replaceLocal(*authoritative)
	}
	s.deferEditReconcile(id)

	return common.NewSuccessResponse(nil, "Product request updated"), nil
}

func (s *OrderService) deferEditReconcile(id int) {
	s.mu.RLock()
	userId := s.myUserId
	s.mu.RUnlock()
	s.scheduleRefetch(TypeRefetchOrders, 0, s.Delays.EditReconcile)
	if userId != 0 {
		s.scheduleRefetch(TypeRefetchMyOrders, userId, s.Delays.EditReconcile)
	}
}

// ---- Approval workflow ----

func (s *OrderService) ApproveRequest(orderId int) (interface{}, error) {
	return s.transition(orderId, models.OrderApproved)
}

func (s *OrderService) RejectRequest(orderId int) (interface{}, error) {
	return s.transition(orderId, models.OrderRejected)
}

// transition is confirm-then-apply: local state is only mutated after the
// backend accepts the transition, because approval is irreversible.
func (s *OrderService) transition(orderId int, target int) (interface{}, error) {
	local := s.find(orderId)
	if local != nil && !local.CanTransition(target) {
		return common.NewErrorResponse("This request has already been processed", nil, http.StatusBadRequest), nil
	}

	path := fmt.Sprintf("/UserRequest/ApproveRequest/%d", orderId)
	if target == models.OrderRejected {
		path = fmt.Sprintf("/UserRequest/RejectRequest/%d", orderId)
	}

	if _, err := s.Gateway.Put(path, nil); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.applyTransition(orderId, target)
	s.refetchAfterMutation()
	if s.Bus != nil {
		s.Bus.Publish(events.TopicOrdersUpdated, map[string]interface{}{"id": orderId, "status": target})
	}

	if local != nil {
		if target == models.OrderApproved && local.Kind() == models.OrderTypeRecharge && s.Users != nil {
			if _, err := s.Users.RefreshUser(local.ForUserId); err != nil {
				Sugar.Warnw("balance resync after approval failed", "userId", local.ForUserId, "error", err)
			}
		}
		s.notifyTransition(*local, target)
	}

	verb := "approved"
	if target == models.OrderRejected {
		verb = "rejected"
	}
	return common.NewSuccessResponse(nil, "Request "+verb), nil
}

func (s *OrderService) notifyTransition(order models.Order, target int) {
	notifyType := models.NotifyOrderApproved
	verb := "approved"
	if target == models.OrderRejected {
		notifyType = models.NotifyOrderRejected
		verb = "rejected"
	}

	message := fmt.Sprintf("Your %s was %s.", orderLabel(order), verb)
	s.Notifications.Notify(NotifyPayload{
		UserId:  order.ForUserId,
		Type:    notifyType,
		Title:   "Request " + verb,
		Message: message,
	})

	if order.RequestedByUserId != 0 && order.RequestedByUserId != order.ForUserId {
		s.Notifications.Notify(NotifyPayload{
			UserId:  order.RequestedByUserId,
			Type:    notifyType,
			Title:   "Request " + verb,
			Message: fmt.Sprintf("The %s you submitted for %s was %s.", orderLabel(order), beneficiaryLabel(order), verb),
		})
	}
}

// ---- Deletion ----

func (s *OrderService) DeleteOrder(orderId int) (interface{}, error) {
	local := s.find(orderId)

	if _, err := s.Gateway.Delete(fmt.Sprintf("/UserRequest/%d", orderId)); err != nil {
		return common.NewErrorResponse(err.Error(), nil, http.StatusBadGateway), nil
	}

	s.removeLocal(orderId)
	s.refetchAfterMutation()
	if s.Bus != nil {
		s.Bus.Publish(events.TopicOrdersUpdated, map[string]interface{}{"id": orderId, "deleted": true})
	}

	if local != nil {
		s.Notifications.Notify(NotifyPayload{
			UserId:  local.ForUserId,
			Type:    models.NotifyOrderDeleted,
			Title:   "Request deleted",
			Message: fmt.Sprintf("Your %s was deleted.", orderLabel(*local)),
		})
	}

	return common.NewSuccessResponse(nil, "Request deleted"), nil
}

// ---- Derived accessors ----

func (s *OrderService) OrdersByStatus(status int) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

func (s *OrderService) OrdersByType(typeValue int) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.Kind() == typeValue {
			out = append(out, order)
		}
	}
	return out
}

func (s *OrderService) OrdersForUser(userId int) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.ForUserId == userId {
			out = append(out, order)
		}
	}
	return out
}

func (s *OrderService) OrdersByDateRange(from, to time.Time) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, order := range s.orders {
		created := order.CreatedAt()
		if created.IsZero() {
			continue
		}
		if !created.Before(from) && !created.After(to) {
			out = append(out, order)
		}
	}
	return out
}

// ---- Scheduling ----

// StartScheduler launches the periodic reconciliation sweep that refetches
// the order lists regardless of mutation traffic.
func (s *OrderService) StartScheduler(spec string) {
	if spec == "" {
		spec = "*/5 * * * *"
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		Sugar.Infoln("running scheduled order reconciliation")
		s.mu.RLock()
		page, filters := s.currentPage, s.lastFilters
		s.mu.RUnlock()
		s.FetchOrders(page, filters)
		s.FetchPendingOrders(nil)
	})
	if err != nil {
		Sugar.Errorw("could not schedule order reconciliation", "spec", spec, "error", err)
		return
	}
	c.Start()
	Sugar.Infow("order reconciliation scheduler started", "spec", spec)
}

// RunRefetch executes a deferred refetch task. Called by the asynq worker
// and by the in-process timer fallback.
func (s *OrderService) RunRefetch(taskType string, userId int) {
	switch taskType {
	case TypeRefetchOrders:
		s.mu.RLock()
		page, filters := s.currentPage, s.lastFilters
		s.mu.RUnlock()
		s.FetchOrders(page, filters)
	case TypeRefetchMyOrders:
		if userId == 0 {
			s.mu.RLock()
			userId = s.myUserId
			s.mu.RUnlock()
		}
		if userId != 0 {
			s.FetchMyOrders(nil, userId)
		}
	case TypeRefetchPending:
		s.FetchPendingOrders(nil)
	}
}

func (s *OrderService) scheduleRefetch(taskType string, userId int, delay time.Duration) {
	if s.Tasks != nil {
		data, err := json.Marshal(RefetchPayload{UserId: userId})
		if err == nil {
			_, err = s.Tasks.Enqueue(
				asynq.NewTask(taskType, data),
				asynq.Queue(QueueRefetch),
				asynq.ProcessIn(delay),
			)
			if err == nil {
				return
			}
		}
		Sugar.Warnw("falling back to in-process refetch timer", "task", taskType, "error", err)
	}
	time.AfterFunc(delay, func() { s.RunRefetch(taskType, userId) })
}

// refetchAfterMutation reloads the full and pending lists synchronously so
// the caller observes a state that already includes its own write whenever
// the backend managed to apply it.
func (s *OrderService) refetchAfterMutation() {
	s.mu.RLock()
	page, filters := s.currentPage, s.lastFilters
	s.mu.RUnlock()
	s.FetchOrders(page, filters)
	s.FetchPendingOrders(nil)
}

// ---- Local state helpers ----

func (s *OrderService) failOrders(err error) []models.Order {
	s.mu.Lock()
	s.lastErr = err.Error()
	cached := append([]models.Order(nil), s.orders...)
	s.mu.Unlock()
	return cached
}

func (s *OrderService) failMyOrders(err error, userId int) []models.Order {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.myUserId = userId
	cached := append([]models.Order(nil), s.myOrders...)
	s.mu.Unlock()
	return cached
}

func (s *OrderService) find(orderId int) *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]models.Order{s.orders, s.pending, s.myOrders} {
		for i := range list {
			if list[i].ID == orderId {
				order := list[i]
				return &order
			}
		}
	}
	return nil
}

func (s *OrderService) prependMyOrder(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.myOrders {
		if s.myOrders[i].ID == order.ID {
			s.myOrders[i] = order
			return
		}
	}
	s.myOrders = append([]models.Order{order}, s.myOrders...)
}

func (s *OrderService) patchLocal(orderId int, patch func(*models.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]models.Order{s.orders, s.pending, s.myOrders} {
		for i := range list {
			if list[i].ID == orderId {
				patch(&list[i])
			}
		}
	}
}

func (s *OrderService) replaceLocal(order models.Order) {
	s.patchLocal(order.ID, func(o *models.Order) { *o = order })
}

func (s *OrderService) applyTransition(orderId, target int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]models.Order{s.orders, s.myOrders} {
		for i := range list {
			if list[i].ID == orderId {
				list[i].Status = target
				list[i].StatusValue = models.StatusLabel(target)
			}
		}
	}
	kept := s.pending[:0]
	for _, order := range s.pending {
		if order.ID != orderId {
			kept = append(kept, order)
		}
	}
	s.pending = kept
}

func (s *OrderService) removeLocal(orderId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filter := func(list []models.Order) []models.Order {
		kept := list[:0]
		for _, order := range list {
			if order.ID != orderId {
				kept = append(kept, order)
			}
		}
		return kept
	}
	s.orders = filter(s.orders)
	s.pending = filter(s.pending)
	s.myOrders = filter(s.myOrders)
}

// ---- Helpers ----

func unmarshalOrders(raws []json.RawMessage) []models.Order {
	orders := make([]models.Order, 0, len(raws))
	for _, raw := range raws {
		var order models.Order
		if err := json.Unmarshal(raw, &order); err == nil {
			orders = append(orders, order)
		}
	}
	return orders
}

func sortByCreationDesc(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
}

func decodeOrder(body []byte) *models.Order {
	raw, err := gateway.DecodeObject(body)
	if err != nil {
		return nil
	}
	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil || order.ID == 0 {
		return nil
	}
	return &order
}

func orderLabel(order models.Order) string {
	if order.Kind() == models.OrderTypeRecharge {
		return fmt.Sprintf("recharge request of %.2f", order.Amount)
	}
	return fmt.Sprintf("product request for %s (x%d)", productLabel(order.ProductName, order.ProductId), order.Quantity)
}

func productLabel(name string, id int) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fmt.Sprintf("product #%d", id)
}

func beneficiaryLabel(order models.Order) string {
	if order.ForUserName != "" {
		return order.ForUserName
	}
	return fmt.Sprintf("user #%d", order.ForUserId)
}
