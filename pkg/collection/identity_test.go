package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentical(t *testing.T) {
	a := &item{name: "same"}
	twin := &item{name: "same"}
	slice := []int{1, 2}
	sliceClone := []int{1, 2}
	m := map[string]int{"k": 1}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil versus value", nil, "x", false},
		{"value versus nil", "x", nil, false},
		{"equal primitives", 42, 42, true},
		{"different primitives", 42, 43, false},
		{"equal strings", "a", "a", true},
		{"same pointer", a, a, true},
		{"distinct pointers with equal fields", a, twin, false},
		{"value struct equality", item{name: "v"}, item{name: "v"}, true},
		{"mismatched types", 42, "42", false},
		{"mismatched numeric types", int(1), int64(1), false},
		{"same slice", slice, slice, true},
		{"cloned slice", slice, sliceClone, false},
		{"same map", m, m, true},
		{"different maps", m, map[string]int{"k": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identical(tt.a, tt.b))
		})
	}
}
