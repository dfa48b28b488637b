package models

// Notification types fired by the order workflow.
const (
	NotifyOrderCreated  = "order_created"
	NotifyOrderApproved = "order_approved"
	NotifyOrderRejected = "order_rejected"
	NotifyOrderDeleted  = "order_deleted"
	NotifyRechargeFiled = "recharge_submitted"
)

type Notification struct {
	ID           int    `json:"id"`
	UserId       int    `json:"userId"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	IsRead       bool   `json:"isRead"`
	ReferenceId  string `json:"referenceId,omitempty"`
	CreationTime string `json:"creationTime"`
}
