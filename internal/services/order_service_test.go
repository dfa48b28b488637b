package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/models"
	"rewards-admin-service/pkg/common"

	"github.com/stretchr/testify/assert"
)

// fakeBackend is a stateful stand-in for the rewards API. It serves the
// order, user and notification endpoints the services hit, mutating its
// in-memory order list the way the real backend would.
type fakeBackend struct {
	mu            sync.Mutex
	orders        []models.Order
	users         []models.User
	nextId        int
	notifications []map[string]interface{}
	calls         map[string]int

	emptyPending        bool // GetPending returns [] regardless of state
	failTypedMyRequests bool // GetMyRequests fails when typeValue is present
	failEdits           bool // edit endpoints return 500
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextId: 100, calls: map[string]int{}}
}

func (b *fakeBackend) callCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *fakeBackend) totalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

func (b *fakeBackend) findOrder(id int) *models.Order {
	for i := range b.orders {
		if b.orders[i].ID == id {
			return &b.orders[i]
		}
	}
	return nil
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[r.URL.Path]++

	writeJSON := func(v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	path := r.URL.Path
	switch {
	case path == "/UserRequest" && r.Method == http.MethodPost:
		writeJSON(b.orders)

	case path == "/UserRequest/GetPending":
		if b.emptyPending {
			writeJSON([]models.Order{})
			return
		}
		pending := []models.Order{}
		for _, o := range b.orders {
			if o.Status == models.OrderPending {
				pending = append(pending, o)
			}
		}
		writeJSON(pending)

	case path == "/UserRequest/GetMyRequests":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		userId, _ := body["userId"].(float64)
		typeValue, typed := body["typeValue"].(float64)
		if typed && b.failTypedMyRequests {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mine := []models.Order{}
		for _, o := range b.orders {
			if o.ForUserId != int(userId) {
				continue
			}
			if typed && o.Kind() != int(typeValue) {
				continue
			}
			mine = append(mine, o)
		}
		writeJSON(mine)

	case path == "/UserRequest/registerProductRequest":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		b.nextId++
		productId, _ := body["productId"].(float64)
		quantity, _ := body["quantity"].(float64)
		forUserId, _ := body["forUserId"].(float64)
		requestedBy, _ := body["requestedByUserId"].(float64)
		order := models.Order{
			ID:                b.nextId,
			TypeValue:         models.OrderTypeProduct,
			Status:            models.OrderPending,
			ProductId:         int(productId),
			Quantity:          int(quantity),
			ForUserId:         int(forUserId),
			RequestedByUserId: int(requestedBy),
			CreationTime:      time.Now().UTC().Format(time.RFC3339),
		}
		b.orders = append(b.orders, order)
		writeJSON(map[string]interface{}{"data": order})

	case path == "/UserRequest/registerRechargeReuest":
		r.ParseMultipartForm(1 << 20)
		amount, _ := strconv.ParseFloat(r.FormValue("amount"), 64)
		forUserId, _ := strconv.Atoi(r.FormValue("forUserId"))
		if _, _, err := r.FormFile("transferImage"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(map[string]string{"message": "transfer image missing"})
			return
		}
		b.nextId++
		b.orders = append(b.orders, models.Order{
			ID:           b.nextId,
			TypeValue:    models.OrderTypeRecharge,
			Status:       models.OrderPending,
			Amount:       amount,
			ForUserId:    forUserId,
			CreationTime: time.Now().UTC().Format(time.RFC3339),
		})
		writeJSON(map[string]string{"message": "created"})

	case strings.HasPrefix(path, "/UserRequest/ApproveRequest/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/UserRequest/ApproveRequest/"))
		if o := b.findOrder(id); o != nil && o.Status == models.OrderPending {
			o.Status = models.OrderApproved
		}
		writeJSON(map[string]string{"message": "approved"})

	case strings.HasPrefix(path, "/UserRequest/RejectRequest/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/UserRequest/RejectRequest/"))
		if o := b.findOrder(id); o != nil && o.Status == models.OrderPending {
			o.Status = models.OrderRejected
		}
		writeJSON(map[string]string{"message": "rejected"})

	case strings.HasPrefix(path, "/UserRequest/EditRechargeReuest/"):
		if b.failEdits {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(map[string]string{"message": "edit rejected"})
			return
		}
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/UserRequest/EditRechargeReuest/"))
		var body map[string]float64
		json.NewDecoder(r.Body).Decode(&body)
		if o := b.findOrder(id); o != nil {
			o.Amount = body["amount"]
			writeJSON(map[string]interface{}{"data": *o})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(map[string]string{"message": "not found"})

	case strings.HasPrefix(path, "/UserRequest/EditProductRequest/"):
		if b.failEdits {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(map[string]string{"message": "edit rejected"})
			return
		}
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/UserRequest/EditProductRequest/"))
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		if o := b.findOrder(id); o != nil {
			o.Quantity = body["quantity"]
			writeJSON(map[string]interface{}{"data": *o})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(map[string]string{"message": "not found"})

	case strings.HasPrefix(path, "/UserRequest/") && r.Method == http.MethodDelete:
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/UserRequest/"))
		kept := b.orders[:0]
		for _, o := range b.orders {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		b.orders = kept
		writeJSON(map[string]string{"message": "deleted"})

	case path == "/Users" && r.Method == http.MethodPost:
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if id, ok := body["id"].(float64); ok {
			for _, u := range b.users {
				if u.ID == int(id) {
					writeJSON([]models.User{u})
					return
				}
			}
			writeJSON([]models.User{})
			return
		}
		writeJSON(b.users)

	case path == "/Users/GetDropDown" || path == "/Users/GetDropDownExceptEmployee":
		writeJSON(b.users)

	case path == "/Notification/register":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		b.notifications = append(b.notifications, body)
		writeJSON(map[string]string{"message": "ok"})

	default:
		writeJSON(map[string]string{"message": "ok"})
	}
}

func (b *fakeBackend) notificationsOfType(notifyType string) []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]interface{}
	for _, n := range b.notifications {
		if n["type"] == notifyType {
			out = append(out, n)
		}
	}
	return out
}

func newOrderFixture(t *testing.T, backend *fakeBackend) *OrderService {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	session := gateway.NewSession("svc", "secret")
	session.SetToken("test-token")
	gw := gateway.NewClient(server.URL, "", "en", session)

	bus := events.NewBus()
	svc := NewOrderService(gw, NewNotificationService(gw, bus, nil), NewUserService(gw), bus, nil)
	// Deferred refetches must not fire mid-test.
	svc.Delays = RefetchDelays{
		MyOrdersRetry:  time.Hour,
		RechargeFirst:  time.Hour,
		RechargeSecond: time.Hour,
		EditReconcile:  time.Hour,
	}
	return svc
}

func pendingProductOrder(id, forUserId int) models.Order {
	return models.Order{
		ID:           id,
		TypeValue:    models.OrderTypeProduct,
		Status:       models.OrderPending,
		ProductId:    3,
		ProductName:  "Gift Card",
		Quantity:     2,
		ForUserId:    forUserId,
		CreationTime: "2024-05-01T10:00:00Z",
	}
}

func pendingRechargeOrder(id, forUserId int, amount float64) models.Order {
	return models.Order{
		ID:           id,
		TypeValue:    models.OrderTypeRecharge,
		Status:       models.OrderPending,
		Amount:       amount,
		ForUserId:    forUserId,
		CreationTime: "2024-05-02T09:00:00Z",
	}
}

func TestCreateProductOrderValidation(t *testing.T) {
	backend := newFakeBackend()
	svc := newOrderFixture(t, backend)
	user := models.User{ID: 10, Name: "Hana"}

	cases := []CreateProductOrderDTO{
		{ProductId: 0, Quantity: 1},
		{ProductId: 3, Quantity: 0},
		{ProductId: 3, Quantity: 100},
	}
	for _, dto := range cases {
		result, err := svc.CreateProductOrder(dto, user)
		assert.NoError(t, err)
		envelope, ok := result.(common.ErrorResponse)
		assert.True(t, ok, "expected error envelope for %+v", dto)
		assert.False(t, envelope.Success)
	}

	// Rejected input must never reach the network.
	assert.Equal(t, 0, backend.totalCalls())
}

func TestCreateProductOrder(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana"}}
	svc := newOrderFixture(t, backend)

	result, err := svc.CreateProductOrder(CreateProductOrderDTO{
		ProductId:   3,
		ProductName: "Gift Card",
		Quantity:    2,
		ForUserId:   10,
	}, models.User{ID: 10, Name: "Hana"})
	assert.NoError(t, err)

	envelope, ok := result.(common.SuccessResponse)
	assert.True(t, ok)
	assert.True(t, envelope.Success)

	assert.Equal(t, 1, backend.callCount("/UserRequest/registerProductRequest"))

	mine := svc.MyOrders()
	if assert.NotEmpty(t, mine) {
		assert.Equal(t, 3, mine[0].ProductId)
		assert.Equal(t, 2, mine[0].Quantity)
		assert.Equal(t, models.OrderPending, mine[0].Status)
	}

	created := backend.notificationsOfType(models.NotifyOrderCreated)
	if assert.Len(t, created, 1) {
		assert.Equal(t, float64(10), created[0]["userId"])
		assert.Contains(t, created[0]["message"], "Gift Card")
		assert.Contains(t, created[0]["message"], "x2")
	}
}

func TestCreateProductOrderUnknownBeneficiary(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana"}}
	svc := newOrderFixture(t, backend)

	result, err := svc.CreateProductOrder(CreateProductOrderDTO{
		ProductId: 3,
		Quantity:  1,
		ForUserId: 999,
	}, models.User{ID: 10})
	assert.NoError(t, err)

	envelope, ok := result.(common.ErrorResponse)
	assert.True(t, ok)
	assert.False(t, envelope.Success)
	assert.Equal(t, 0, backend.callCount("/UserRequest/registerProductRequest"))
}

func TestCreateRechargeRequestValidation(t *testing.T) {
	backend := newFakeBackend()
	svc := newOrderFixture(t, backend)

	proof := &gateway.FilePart{Field: "transferImage", FileName: "p.png", Content: []byte("img")}

	result, err := svc.CreateRechargeRequest(RechargeRequestDTO{Amount: 0, ForUserId: 10, TransferProof: proof})
	assert.NoError(t, err)
	assert.IsType(t, common.ErrorResponse{}, result)

	result, err = svc.CreateRechargeRequest(RechargeRequestDTO{Amount: 50, ForUserId: 10})
	assert.NoError(t, err)
	assert.IsType(t, common.ErrorResponse{}, result)

	result, err = svc.CreateRechargeRequest(RechargeRequestDTO{Amount: 50, TransferProof: proof})
	assert.NoError(t, err)
	assert.IsType(t, common.ErrorResponse{}, result)

	assert.Equal(t, 0, backend.totalCalls())
}

func TestCreateRechargeRequest(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana"}}
	svc := newOrderFixture(t, backend)

	result, err := svc.CreateRechargeRequest(RechargeRequestDTO{
		Amount:            250,
		ForUserId:         10,
		RequestedByUserId: 10,
		TransferProof:     &gateway.FilePart{Field: "transferImage", FileName: "proof.png", Content: []byte("png")},
	})
	assert.NoError(t, err)

	envelope, ok := result.(common.SuccessResponse)
	assert.True(t, ok)
	assert.True(t, envelope.Success)
	assert.Equal(t, 1, backend.callCount("/UserRequest/registerRechargeReuest"))

	// The backend applied the write, so the post-mutation refetch sees it.
	orders := svc.Orders()
	if assert.Len(t, orders, 1) {
		assert.Equal(t, 250.0, orders[0].Amount)
		assert.Equal(t, models.OrderTypeRecharge, orders[0].Kind())
	}

	filed := backend.notificationsOfType(models.NotifyRechargeFiled)
	if assert.Len(t, filed, 1) {
		assert.Contains(t, filed[0]["message"], "250.00")
		ref, _ := filed[0]["referenceId"].(string)
		assert.Len(t, ref, 8)
	}
}

func TestApproveRequest(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana"}}
	backend.orders = []models.Order{pendingProductOrder(5, 10)}
	svc := newOrderFixture(t, backend)

	svc.FetchOrders(1, nil)
	svc.FetchPendingOrders(nil)
	assert.Len(t, svc.PendingOrAll(), 1)

	updates := svc.Bus.Subscribe(events.TopicOrdersUpdated)

	result, err := svc.ApproveRequest(5)
	assert.NoError(t, err)
	envelope, ok := result.(common.SuccessResponse)
	assert.True(t, ok)
	assert.True(t, envelope.Success)

	orders := svc.Orders()
	if assert.Len(t, orders, 1) {
		assert.Equal(t, models.OrderApproved, orders[0].Status)
	}
	assert.Empty(t, svc.PendingOrAll())

	select {
	case event := <-updates:
		assert.Equal(t, events.TopicOrdersUpdated, event.Topic)
	default:
		t.Error("expected an orders:updated event")
	}

	approved := backend.notificationsOfType(models.NotifyOrderApproved)
	if assert.Len(t, approved, 1) {
		assert.Equal(t, float64(10), approved[0]["userId"])
		assert.Contains(t, approved[0]["message"], "approved")
	}
}

func TestApproveAlreadyProcessed(t *testing.T) {
	backend := newFakeBackend()
	order := pendingProductOrder(6, 10)
	order.Status = models.OrderApproved
	backend.orders = []models.Order{order}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.ApproveRequest(6)
	assert.NoError(t, err)

	envelope, ok := result.(common.ErrorResponse)
	assert.True(t, ok)
	assert.Equal(t, "This request has already been processed", envelope.Message)
	assert.Equal(t, 0, backend.callCount("/UserRequest/ApproveRequest/6"))
}

func TestRejectRechargeRequest(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana"}}
	backend.orders = []models.Order{pendingRechargeOrder(7, 10, 100)}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.RejectRequest(7)
	assert.NoError(t, err)
	assert.IsType(t, common.SuccessResponse{}, result)

	orders := svc.Orders()
	if assert.Len(t, orders, 1) {
		assert.Equal(t, models.OrderRejected, orders[0].Status)
	}
	// Rejection never touches the balance.
	assert.Equal(t, 0, backend.callCount("/Users"))

	rejected := backend.notificationsOfType(models.NotifyOrderRejected)
	if assert.Len(t, rejected, 1) {
		assert.Contains(t, rejected[0]["message"], "100.00")
		assert.Contains(t, rejected[0]["message"], "rejected")
	}
}

func TestApproveRechargeResyncsBalance(t *testing.T) {
	backend := newFakeBackend()
	backend.users = []models.User{{ID: 10, Name: "Hana", Balance: 500}}
	backend.orders = []models.Order{pendingRechargeOrder(8, 10, 100)}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	_, err := svc.ApproveRequest(8)
	assert.NoError(t, err)
	assert.Equal(t, 1, backend.callCount("/Users"))
}

func TestFetchMyOrdersMergesBothTypes(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{
		pendingProductOrder(1, 10),
		pendingRechargeOrder(2, 10, 75),
		pendingProductOrder(3, 11), // someone else's
	}
	svc := newOrderFixture(t, backend)

	mine := svc.FetchMyOrders(nil, 10)
	assert.Len(t, mine, 2)
	assert.Equal(t, 2, backend.callCount("/UserRequest/GetMyRequests"))

	// Most recent first.
	assert.Equal(t, 2, mine[0].ID)
	assert.Equal(t, 1, mine[1].ID)
}

func TestFetchMyOrdersFallsBackWhenTypedReadsFail(t *testing.T) {
	backend := newFakeBackend()
	backend.failTypedMyRequests = true
	backend.orders = []models.Order{
		pendingProductOrder(1, 10),
		pendingRechargeOrder(2, 10, 75),
	}
	svc := newOrderFixture(t, backend)

	mine := svc.FetchMyOrders(nil, 10)
	assert.Len(t, mine, 2)
	// Two typed attempts plus the unfiltered fallback.
	assert.Equal(t, 3, backend.callCount("/UserRequest/GetMyRequests"))
}

func TestPendingOrAllFallsBackToMainList(t *testing.T) {
	backend := newFakeBackend()
	backend.emptyPending = true
	backend.orders = []models.Order{
		pendingProductOrder(1, 10),
		{ID: 2, TypeValue: models.OrderTypeProduct, Status: models.OrderApproved, ForUserId: 10, CreationTime: "2024-05-03T08:00:00Z"},
	}
	svc := newOrderFixture(t, backend)

	svc.FetchOrders(1, nil)
	svc.FetchPendingOrders(nil)

	pending := svc.PendingOrAll()
	if assert.Len(t, pending, 1) {
		assert.Equal(t, 1, pending[0].ID)
		assert.Equal(t, models.OrderPending, pending[0].Status)
	}
}

func TestFetchOrdersKeepsStateOnFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{pendingProductOrder(1, 10)}
	server := httptest.NewServer(backend)

	session := gateway.NewSession("svc", "secret")
	session.SetToken("test-token")
	gw := gateway.NewClient(server.URL, "", "en", session)
	bus := events.NewBus()
	svc := NewOrderService(gw, NewNotificationService(gw, bus, nil), NewUserService(gw), bus, nil)

	svc.FetchOrders(1, nil)
	assert.Len(t, svc.Orders(), 1)
	assert.Empty(t, svc.Err())

	server.Close()
	orders := svc.FetchOrders(1, nil)

	// Previous list survives, error state is set.
	assert.Len(t, orders, 1)
	assert.NotEmpty(t, svc.Err())
}

func TestEditRechargeRequest(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{pendingRechargeOrder(9, 10, 50)}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.EditRechargeRequest(9, 75)
	assert.NoError(t, err)
	assert.IsType(t, common.SuccessResponse{}, result)

	orders := svc.Orders()
	if assert.Len(t, orders, 1) {
		assert.Equal(t, 75.0, orders[0].Amount)
	}
	assert.Equal(t, 75.0, backend.orders[0].Amount)
}

func TestEditProcessedOrderRefused(t *testing.T) {
	backend := newFakeBackend()
	recharge := pendingRechargeOrder(7, 10, 100)
	recharge.Status = models.OrderApproved
	product := pendingProductOrder(5, 10)
	product.Status = models.OrderRejected
	backend.orders = []models.Order{recharge, product}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.EditRechargeRequest(7, 999)
	assert.NoError(t, err)
	envelope, ok := result.(common.ErrorResponse)
	assert.True(t, ok)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Message, "no longer be edited")

	result, err = svc.EditProductRequest(5, 9)
	assert.NoError(t, err)
	assert.IsType(t, common.ErrorResponse{}, result)

	// Approved and rejected orders are immutable: nothing reached the
	// backend and local state kept the server's values.
	assert.Equal(t, 0, backend.callCount("/UserRequest/EditRechargeReuest/7"))
	assert.Equal(t, 0, backend.callCount("/UserRequest/EditProductRequest/5"))
	for _, order := range svc.Orders() {
		switch order.ID {
		case 7:
			assert.Equal(t, 100.0, order.Amount)
		case 5:
			assert.Equal(t, 2, order.Quantity)
		}
	}
}

func TestEditRechargeRequestBackendFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failEdits = true
	backend.orders = []models.Order{pendingRechargeOrder(9, 10, 50)}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.EditRechargeRequest(9, 75)
	assert.NoError(t, err)

	envelope, ok := result.(common.ErrorResponse)
	assert.True(t, ok)
	assert.Equal(t, "edit rejected", envelope.Message)
}

func TestEditProductRequestValidation(t *testing.T) {
	backend := newFakeBackend()
	svc := newOrderFixture(t, backend)

	for _, quantity := range []int{0, -1, 100} {
		result, err := svc.EditProductRequest(1, quantity)
		assert.NoError(t, err)
		assert.IsType(t, common.ErrorResponse{}, result, "quantity %d", quantity)
	}
	assert.Equal(t, 0, backend.totalCalls())
}

func TestDeleteOrder(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{pendingProductOrder(11, 10)}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	result, err := svc.DeleteOrder(11)
	assert.NoError(t, err)
	assert.IsType(t, common.SuccessResponse{}, result)

	assert.Empty(t, svc.Orders())
	assert.Empty(t, backend.orders)

	deleted := backend.notificationsOfType(models.NotifyOrderDeleted)
	assert.Len(t, deleted, 1)
}

func TestDerivedAccessors(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{
		pendingProductOrder(1, 10),
		pendingRechargeOrder(2, 11, 75),
		{ID: 3, TypeValue: models.OrderTypeProduct, Status: models.OrderApproved, ForUserId: 10, CreationTime: "2024-06-01T00:00:00Z"},
	}
	svc := newOrderFixture(t, backend)
	svc.FetchOrders(1, nil)

	assert.Len(t, svc.OrdersByStatus(models.OrderPending), 2)
	assert.Len(t, svc.OrdersByStatus(models.OrderApproved), 1)
	assert.Len(t, svc.OrdersByType(models.OrderTypeRecharge), 1)
	assert.Len(t, svc.OrdersForUser(10), 2)

	from, _ := time.Parse(time.RFC3339, "2024-05-01T00:00:00Z")
	to, _ := time.Parse(time.RFC3339, "2024-05-31T23:59:59Z")
	assert.Len(t, svc.OrdersByDateRange(from, to), 2)
}

func TestRunRefetch(t *testing.T) {
	backend := newFakeBackend()
	backend.orders = []models.Order{pendingProductOrder(1, 10)}
	svc := newOrderFixture(t, backend)

	svc.RunRefetch(TypeRefetchOrders, 0)
	assert.Len(t, svc.Orders(), 1)

	svc.RunRefetch(TypeRefetchMyOrders, 10)
	assert.Len(t, svc.MyOrders(), 1)

	svc.RunRefetch(TypeRefetchPending, 0)
	assert.Len(t, svc.PendingOrAll(), 1)
}

func TestOrderLabel(t *testing.T) {
	product := pendingProductOrder(1, 10)
	assert.Equal(t, "product request for Gift Card (x2)", orderLabel(product))

	product.ProductName = ""
	assert.Equal(t, fmt.Sprintf("product request for product #%d (x2)", product.ProductId), orderLabel(product))

	recharge := pendingRechargeOrder(2, 10, 99.5)
	assert.Equal(t, "recharge request of 99.50", orderLabel(recharge))
}
