package colorutil

import "testing"

func TestDistinct(t *testing.T) {
	seen := make(map[[3]uint8]bool)
	for id := 0; id < 16; id++ {
		c := Distinct(id)
		if c.A != 255 {
			t.Errorf("id %d: alpha %d", id, c.A)
		}
		key := [3]uint8{c.R, c.G, c.B}
		if seen[key] {
			t.Errorf("id %d: color %v repeated", id, c)
		}
		seen[key] = true
	}
	if Distinct(3) != Distinct(3) {
		t.Error("color is not stable")
	}
	if Distinct(-5).A != 255 {
		t.Error("negative id")
	}
}
