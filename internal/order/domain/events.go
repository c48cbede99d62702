package domain

const (
	EventOrderAccepted       = "OrderAccepted"
	EventOrderRejected       = "OrderRejected"
	EventReservationReleased = "ReservationReleased"
)

type OrderAccepted struct {
	RequestID      string `json:"request_id"`
	CustomerName   string `json:"customer_name"`
	Pizza          Pizza  `json:"pizza"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
}

type OrderRejected struct {
	RequestID string    `json:"request_id"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

type ReservationReleased struct {
	RequestID string `json:"request_id"`
	Pizza     Pizza  `json:"pizza"`
	Quantity  int    `json:"quantity"`
}
