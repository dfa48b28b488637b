package models

import (
	"testing"
	"time"
)

func TestOrderKind(t *testing.T) {
	if got := (Order{TypeValue: OrderTypeRecharge}).Kind(); got != OrderTypeRecharge {
		t.Errorf("Expected explicit typeValue to win, got %d", got)
	}
	if got := (Order{TypeValue: OrderTypeProduct, Amount: 50}).Kind(); got != OrderTypeProduct {
		t.Errorf("Explicit typeValue must beat the field heuristic, got %d", got)
	}
	if got := (Order{Amount: 100}).Kind(); got != OrderTypeRecharge {
		t.Errorf("Expected amount to imply recharge, got %d", got)
	}
	if got := (Order{TransferImagePath: "/uploads/x.png"}).Kind(); got != OrderTypeRecharge {
		t.Errorf("Expected transfer image to imply recharge, got %d", got)
	}
	if got := (Order{ProductId: 3, Quantity: 2}).Kind(); got != OrderTypeProduct {
		t.Errorf("Expected product fields to imply product, got %d", got)
	}
}

func TestOrderCanTransition(t *testing.T) {
	pending := Order{Status: OrderPending}
	if !pending.CanTransition(OrderApproved) {
		t.Error("Pending -> Approved must be allowed")
	}
	if !pending.CanTransition(OrderRejected) {
		t.Error("Pending -> Rejected must be allowed")
	}
	if pending.CanTransition(OrderPending) {
		t.Error("Pending -> Pending is not a transition")
	}

	approved := Order{Status: OrderApproved}
	if approved.CanTransition(OrderRejected) {
		t.Error("Approved orders are final")
	}
	rejected := Order{Status: OrderRejected}
	if rejected.CanTransition(OrderApproved) {
		t.Error("Rejected orders are final")
	}
}

func TestOrderEditable(t *testing.T) {
	if !(Order{Status: OrderPending}).Editable() {
		t.Error("Pending orders must be editable")
	}
	if (Order{Status: OrderApproved}).Editable() {
		t.Error("Approved orders must not be editable")
	}
	if (Order{Status: OrderRejected}).Editable() {
		t.Error("Rejected orders must not be editable")
	}
}

func TestOrderCreatedAt(t *testing.T) {
	cases := []string{
		"2024-05-01T10:30:00Z",
		"2024-05-01T10:30:00.123",
		"2024-05-01T10:30:00",
		"2024-05-01 10:30:00",
	}
	for _, value := range cases {
		o := Order{CreationTime: value}
		got := o.CreatedAt()
		if got.IsZero() {
			t.Errorf("Expected %q to parse", value)
			continue
		}
		want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		if !got.Truncate(time.Second).Equal(want) {
			t.Errorf("Expected %v for %q, got %v", want, value, got)
		}
	}

	if !(Order{CreationTime: "not a date"}).CreatedAt().IsZero() {
		t.Error("Unparseable creationTime must yield the zero time")
	}
	if !(Order{}).CreatedAt().IsZero() {
		t.Error("Missing creationTime must yield the zero time")
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusLabel(OrderPending) != "Pending" {
		t.Error("wrong label for pending")
	}
	if StatusLabel(OrderApproved) != "Approved" {
		t.Error("wrong label for approved")
	}
	if StatusLabel(OrderRejected) != "Rejected" {
		t.Error("wrong label for rejected")
	}
	if StatusLabel(99) != "Unknown" {
		t.Error("wrong label for unknown status")
	}
}
