package entity

type OrderStatus string

const (
	StatusWaitingForPayment OrderStatus = "waitingForPayment"
	StatusProcessing        OrderStatus = "processing"
	StatusPreparing         OrderStatus = "preparing"
	StatusDelivering        OrderStatus = "delivering"
	StatusCompleted         OrderStatus = "completed"
	StatusCanceled          OrderStatus = "canceled"
)

// OrderStatuses is the fixed set in pipeline order; canceled goes last.
var OrderStatuses = []OrderStatus{
	StatusWaitingForPayment,
	StatusProcessing,
	StatusPreparing,
	StatusDelivering,
	StatusCompleted,
	StatusCanceled,
}

var statusLabels = map[OrderStatus]string{
	StatusWaitingForPayment: "Waiting for payment",
	StatusProcessing:        "Processing",
	StatusPreparing:         "Preparing",
	StatusDelivering:        "Delivering",
	StatusCompleted:         "Completed",
	StatusCanceled:          "Canceled",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Label is the human readable name used in notifications.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Rank is the position in the forward pipeline, -1 for canceled or unknown.
func (s OrderStatus) Rank() int {
	switch s {
	case StatusWaitingForPayment:
		return 0
	case StatusProcessing:
		return 1
	case StatusPreparing:
		return 2
	case StatusDelivering:
		return 3
	case StatusCompleted:
		return 4
	}
	return -1
}
