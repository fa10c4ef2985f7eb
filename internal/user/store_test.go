package user

import "testing"

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", []string{}, []string{}},
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"duplicates removed", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"first-seen order kept", []string{"c", "a", "c", "a"}, []string{"c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupe(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("dedupe(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("dedupe(%v)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFirstOrNil(t *testing.T) {
	// The legacy organization_id column is synced from this helper: an empty
	// membership set must clear it to NULL, never to an empty string.
	if got := firstOrNil(nil); got != nil {
		t.Errorf("firstOrNil(nil) = %v, want nil", *got)
	}
	if got := firstOrNil([]string{}); got != nil {
		t.Errorf("firstOrNil([]) = %v, want nil", *got)
	}

	got := firstOrNil([]string{"org-a", "org-b"})
	if got == nil || *got != "org-a" {
		t.Errorf("firstOrNil([org-a org-b]) = %v, want org-a", got)
	}
}
