package engine

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier([]string{"cross", " Self-Trade ", ""}, []string{"order count", "active volume"})
	tests := []struct {
		text string
		want ErrorKind
	}{
		{"order would cross own order", ErrorBenign},
		{"SELF-TRADE prevented", ErrorBenign},
		{"active order count limit exceeded", ErrorCapacity},
		{"Active Volume too large", ErrorCapacity},
		{"price out of range", ErrorUnknown},
		{"", ErrorUnknown},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
