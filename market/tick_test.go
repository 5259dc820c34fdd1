package market

import "testing"

func TestRoundToTick(t *testing.T) {
	tests := []struct {
		price float64
		tick  int64
		want  int64
	}{
		{10000, 100, 10000},
		{10049.9, 100, 10000},
		{10050, 100, 10100},
		{-10050, 100, -10100},
		{10149, 100, 10100},
		{123.4, 0, 123},
	}
	for _, tt := range tests {
		if got := RoundToTick(tt.price, tt.tick); got != tt.want {
			t.Errorf("RoundToTick(%v,%d)=%d want %d", tt.price, tt.tick, got, tt.want)
		}
	}
}

func TestFloorCeilToTick(t *testing.T) {
	if got := FloorToTick(10199, 100); got != 10100 {
		t.Fatalf("floor: got %d", got)
	}
	if got := CeilToTick(10101, 100); got != 10200 {
		t.Fatalf("ceil: got %d", got)
	}
	if got := CeilToTick(10100, 100); got != 10100 {
		t.Fatalf("ceil on tick: got %d", got)
	}
	if !OnTick(10100, 100) || OnTick(10150, 100) {
		t.Fatalf("OnTick mismatch")
	}
}
