package orders

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pending", "Refunded", "Complete"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusPending, StatusShipped}, // skipping forward is fine
		{StatusPending, StatusCancelled},
		{StatusShipped, StatusCancelled},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%q, %q) = false, want true", c.from, c.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusProcessing, StatusPending}, // no moving backwards
		{StatusDelivered, StatusCancelled},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusCancelled},
		{StatusPending, "Refunded"}, // outside the enum
		{StatusPending, StatusPending},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%q, %q) = true, want false", c.from, c.to)
		}
	}
}
