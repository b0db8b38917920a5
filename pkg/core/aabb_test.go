package core

import "testing"

func TestAABB_FullyContains(t *testing.T) {
	outer := NewAABB(NewVec3(0, 0, 0), NewVec3(10, 10, 10))

	tests := []struct {
		name     string
		inner    AABB
		expected bool
	}{
		{
			name:     "fully inside",
			inner:    NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2)),
			expected: true,
		},
		{
			name:     "touching boundary still contained",
			inner:    NewAABB(NewVec3(0, 0, 0), NewVec3(10, 10, 10)),
			expected: true,
		},
		{
			name:     "straddles boundary",
			inner:    NewAABB(NewVec3(8, 8, 8), NewVec3(12, 12, 12)),
			expected: false,
		},
		{
			name:     "entirely outside",
			inner:    NewAABB(NewVec3(20, 20, 20), NewVec3(21, 21, 21)),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.FullyContains(tt.inner); got != tt.expected {
				t.Errorf("FullyContains() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAABB_Overlaps(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		b        AABB
		expected bool
	}{
		{"identical", NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), true},
		{"partial overlap", NewAABB(NewVec3(0.5, 0.5, 0.5), NewVec3(2, 2, 2)), true},
		{"edge touching", NewAABB(NewVec3(1, 0, 0), NewVec3(2, 1, 1)), true},
		{"disjoint", NewAABB(NewVec3(2, 2, 2), NewVec3(3, 3, 3)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}
			if got := tt.b.Overlaps(a); got != tt.expected {
				t.Errorf("Overlaps() symmetric case = %v, want %v", got, tt.expected)
			}
		})
	}
}
