package message

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorOutputIsParseable(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)), 0.2)

	for i := 0; i < 200; i++ {
		raw := gen.Generate()
		parsed := Parse(raw)

		require.True(t, parsed.HasAmount(), "no amount in %q", raw)
		assert.NotEqual(t, DirectionUnknown, parsed.Direction, "no direction in %q", raw)
		assert.NotEmpty(t, parsed.Counterparty, "no counterparty in %q", raw)
		assert.NotEmpty(t, parsed.ReferenceID, "no reference in %q", raw)
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(7)), 0.2)
	b := NewGenerator(rand.New(rand.NewSource(7)), 0.2)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}
