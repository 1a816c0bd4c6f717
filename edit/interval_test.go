package edit

import "testing"

func TestInterval_Contains(t *testing.T) {
	iv := Interval{Start: 2, End: 5}

	tests := []struct {
		line int
		want bool
	}{
		{1, false},
		{2, true},
		{4, true},
		{5, false}, // end is exclusive
		{6, false},
	}

	for _, tt := range tests {
		if got := iv.Contains(tt.line); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestInterval_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"overlapping", Interval{0, 3}, Interval{2, 5}, true},
		{"contained", Interval{0, 10}, Interval{3, 4}, true},
		{"touching ends", Interval{0, 3}, Interval{3, 5}, false},
		{"disjoint", Interval{0, 2}, Interval{5, 7}, false},
		{"empty never intersects", Interval{3, 3}, Interval{0, 10}, false},
		{"identical", Interval{1, 4}, Interval{1, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestInterval_Len(t *testing.T) {
	if got := (Interval{2, 5}).Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := (Interval{4, 4}).Len(); got != 0 {
		t.Errorf("empty Len() = %d, want 0", got)
	}
}
