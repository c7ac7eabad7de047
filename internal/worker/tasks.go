package worker

const (
	// TypeBookingExpire reconciles an unpaid hold after the timeout window.
	TypeBookingExpire = "booking:expire"
	// TypeNotifyEvent delivers best-effort notifications.
	TypeNotifyEvent = "notify:event"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type BookingExpirePayload struct {
	BookingID string `json:"booking_id"`
}

type NotifyEventPayload struct {
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}
