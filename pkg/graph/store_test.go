package graph

import "testing"

func TestSanitizeRelType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"IS_NAMED", "IS_NAMED"},
		{"wants to visit", "WANTSTOVISIT"},
		{"likes-2", "LIKES2"},
		{"; DROP ALL", "DROPALL"},
		{"", "RELATED_TO"},
		{"---", "RELATED_TO"},
	}

	for _, tt := range tests {
		if got := sanitizeRelType(tt.in); got != tt.want {
			t.Errorf("sanitizeRelType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
