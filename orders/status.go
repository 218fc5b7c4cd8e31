package orders

// Order status state machine: Pending → Processing → Shipped → Delivered,
// with Cancelled reachable from any non-terminal state. Transitions are
// admin-triggered only.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

var statusRank = map[string]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// IsValidStatus reports whether s is a member of the fixed status enum.
func IsValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another: forward along the fulfilment chain, or to Cancelled from any
// non-terminal state. Delivered and Cancelled are terminal.
func CanTransition(from, to string) bool {
	if !IsValidStatus(to) {
		return false
	}
	if from == StatusDelivered || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}
