package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name      string
		submitted Pair
		correct   Pair
		want      bool
	}{
		{"same order", Pair{10, 20}, Pair{10, 20}, true},
		{"swapped order", Pair{20, 10}, Pair{10, 20}, true},
		{"one slot right", Pair{10, 30}, Pair{10, 20}, false},
		{"other slot right", Pair{30, 20}, Pair{10, 20}, false},
		{"both wrong", Pair{1, 2}, Pair{10, 20}, false},
		{"unset a", Pair{0, 20}, Pair{10, 20}, false},
		{"unset b", Pair{10, 0}, Pair{10, 20}, false},
		{"negative slot", Pair{-10, 20}, Pair{-10, 20}, false},
		{"incomplete key", Pair{10, 20}, Pair{10, 0}, false},
		{"self pair against real key", Pair{10, 10}, Pair{10, 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMatch(tt.submitted, tt.correct))
		})
	}
}

func TestIsMatchProperties(t *testing.T) {
	for x := 1; x <= 6; x++ {
		for y := 1; y <= 6; y++ {
			p := Pair{x, y}
			assert.True(t, IsMatch(p, p), "reflexive %v", p)
			assert.True(t, IsMatch(p, swap(p)), "order-free %v", p)

			for z := 1; z <= 6; z++ {
				if z != y {
					assert.False(t, IsMatch(p, Pair{x, z}), "%v vs {%d,%d}", p, x, z)
				}
				correct := Pair{y, z}
				assert.Equal(t, IsMatch(p, correct), IsMatch(swap(p), correct), "symmetric %v vs %v", p, correct)
			}
		}
	}
}

func TestPairHelpers(t *testing.T) {
	assert.True(t, Pair{1, 2}.Complete())
	assert.False(t, Pair{0, 2}.Complete())
	assert.True(t, Pair{3, 3}.Degenerate())
	assert.False(t, Pair{3, 4}.Degenerate())
}

func swap(p Pair) Pair {
	return Pair{A: p.B, B: p.A}
}
