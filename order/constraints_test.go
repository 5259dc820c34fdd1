package order

import "testing"

func TestConstraintsValidate(t *testing.T) {
	c := Constraints{
		TickSize:  100,
		MinVolume: 1,
		MaxVolume: 200,
	}
	if err := c.Validate(10100, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Validate(10150, 5); err == nil {
		t.Fatalf("expected tick size error")
	}
	if err := c.Validate(0, 5); err == nil {
		t.Fatalf("expected price error")
	}
	if err := c.Validate(10100, 0); err == nil {
		t.Fatalf("expected volume error")
	}
	if err := c.Validate(10100, 201); err == nil {
		t.Fatalf("expected max volume error")
	}
}
