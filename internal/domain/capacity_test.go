package domain

import "testing"

func TestAdmits(t *testing.T) {
	tests := []struct {
		name  string
		mode  CapacityMode
		spots int
		want  bool
	}{
		{name: "unlimited with zero spots", mode: CapacityUnlimited, spots: 0, want: true},
		{name: "unlimited with negative spots", mode: CapacityUnlimited, spots: -5, want: true},
		{name: "limited with spots left", mode: CapacityLimited, spots: 1, want: true},
		{name: "limited with many spots", mode: CapacityLimited, spots: 100, want: true},
		{name: "limited full", mode: CapacityLimited, spots: 0, want: false},
		{name: "limited below zero", mode: CapacityLimited, spots: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Admits(tt.mode, tt.spots); got != tt.want {
				t.Fatalf("Admits(%s, %d) = %v, want %v", tt.mode, tt.spots, got, tt.want)
			}
		})
	}
}
