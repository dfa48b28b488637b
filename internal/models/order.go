package models

import (
	"time"
)

// Order status codes as issued by the backend.
const (
	OrderPending  = 0
	OrderApproved = 1
	OrderRejected = 2
)

// Order type discriminator. The backend is supposed to set typeValue on every
// order, but older rows come back without it, so Kind() falls back to field
// presence.
const (
	OrderTypeProduct  = 1
	OrderTypeRecharge = 2
)

type Order struct {
	ID                int     `json:"id"`
	TypeValue         int     `json:"typeValue"`
	Status            int     `json:"status"` // 0: pending, 1: approved, 2: rejected
	StatusValue       string  `json:"statusValue"`
	ForUserId         int     `json:"forUserId"`
	ForUserName       string  `json:"forUserName"`
	RequestedByUserId int     `json:"requestedByUserId"`
	RequestedByName   string  `json:"requestedByName"`
	ProductId         int     `json:"productId,omitempty"`
	ProductName       string  `json:"productName,omitempty"`
	Quantity          int     `json:"quantity,omitempty"`
	Amount            float64 `json:"amount,omitempty"`
	TransferImagePath string  `json:"transferImagePath,omitempty"`
	CreationTime      string  `json:"creationTime"`
}

// Kind reports whether the order is a product redemption or a recharge
// request. Explicit typeValue wins; otherwise guess from the populated fields.
func (o Order) Kind() int {
	if o.TypeValue == OrderTypeProduct || o.TypeValue == OrderTypeRecharge {
		return o.TypeValue
	}
	if o.Amount > 0 || o.TransferImagePath != "" {
		return OrderTypeRecharge
	}
	return OrderTypeProduct
}

// Editable reports whether the order can still be modified. Approved and
// rejected orders are immutable except for deletion.
func (o Order) Editable() bool {
	return o.Status == OrderPending
}

// CanTransition reports whether moving to the target status is a legal
// lifecycle step. Only Pending -> Approved and Pending -> Rejected exist.
func (o Order) CanTransition(target int) bool {
	if o.Status != OrderPending {
		return false
	}
	return target == OrderApproved || target == OrderRejected
}

// creationTimeLayouts covers the formats the backend has been seen to emit.
var creationTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedAt parses creationTime leniently. A zero time is returned when the
// value is missing or unparseable, which sorts such orders last.
func (o Order) CreatedAt() time.Time {
	for _, layout := range creationTimeLayouts {
		if t, err := time.Parse(layout, o.CreationTime); err == nil {
			return t
		}
	}
	return time.Time{}
}

func StatusLabel(status int) string {
	switch status {
	case OrderPending:
		return "Pending"
	case OrderApproved:
		return "Approved"
	case OrderRejected:
		return "Rejected"
	}
	return "Unknown"
}
