package invoice

import "testing"

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusOpen, true},
		{StatusSent, true},
		{StatusPaid, true},
		{StatusOverdue, true},
		{StatusVoid, true},
		{"", false},
		{"draft", false},
		{"OPEN", false},
	}

	for _, tt := range tests {
		if got := ValidStatus(tt.status); got != tt.want {
			t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
