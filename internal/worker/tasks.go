package worker

// Task types (mirrored in internal/services to avoid an import cycle).
const (
	TypeRefetchOrders   = "refetch-orders"
	TypeRefetchMyOrders = "refetch-my-orders"
	TypeRefetchPending  = "refetch-pending"
	TypeNotifyUser      = "notify-user"
)

// Queue names. The refetch queue is consumed in-process next to the order
// service (the tasks mutate its in-memory state); the notifications queue can
// be consumed by a separate worker binary.
const (
	QueueRefetch       = "refetch"
	QueueNotifications = "notifications"
)

type RefetchPayload struct {
	UserId int `json:"userId,omitempty"`
}
