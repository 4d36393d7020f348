package postgres

import "testing"

func TestEscapeLikePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{"%_", `\%\_`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := escapeLikePrefix(tt.input); got != tt.want {
			t.Errorf("escapeLikePrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
