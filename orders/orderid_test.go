package orders

import (
	"regexp"
	"testing"
)

func TestIncrementOrderID(t *testing.T) {
	cases := []struct {
		last string
		want string
	}{
		{"CM00001", "CM00002"},
		{"CM00099", "CM00100"},
		{"CM00635", "CM00636"},
		{"CM99999", "CM100000"}, // width grows past the pad, ids stay unique
	}
	for _, c := range cases {
		got, err := incrementOrderID(c.last)
		if err != nil {
			t.Fatalf("incrementOrderID(%q): %v", c.last, err)
		}
		if got != c.want {
			t.Errorf("incrementOrderID(%q) = %q, want %q", c.last, got, c.want)
		}
	}
}

func TestIncrementOrderIDRejectsGarbage(t *testing.T) {
	for _, last := range []string{"ORD00001", "CMabcde", "", "00001"} {
		if _, err := incrementOrderID(last); err == nil {
			t.Errorf("incrementOrderID(%q): expected error", last)
		}
	}
}

func TestFirstOrderID(t *testing.T) {
	if got := firstOrderID(); got != "CM00001" {
		t.Errorf("firstOrderID() = %q, want CM00001", got)
	}
}

func TestRandomOrderIDFormat(t *testing.T) {
	format := regexp.MustCompile(`^CM\d{5}$`)
	for i := 0; i < 20; i++ {
		if got := randomOrderID(); !format.MatchString(got) {
			t.Fatalf("randomOrderID() = %q, want CM followed by 5 digits", got)
		}
	}
}
