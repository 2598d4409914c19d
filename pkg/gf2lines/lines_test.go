package gf2lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/beamforge/internal/beam"
)

func TestSeed(t *testing.T) {
	a := Adapter{}
	s := a.Seed()

	assert.Equal(t, beam.Fitness(1), s.Fitness)
	assert.Equal(t, 4, s.SumSpace.dim)
	assert.Empty(t, s.Lines)
}

func TestEnumerateChildren_SkipsZeroNibbles(t *testing.T) {
	a := Adapter{}
	seed := a.Seed()

	a.EnumerateChildren(seed, func(child Solution) {
		last := child.Lines[len(child.Lines)-1]
		assert.NotZero(t, last.A)
		assert.NotZero(t, last.B)
	})
}

func TestEnumerateChildren_RespectsMaxLines(t *testing.T) {
	a := Adapter{}
	parent := a.Seed()
	for i := 0; i < maxLines; i++ {
		parent.Lines = append(parent.Lines, Line{A: 1, B: 1})
	}

	var children []Solution
	a.EnumerateChildren(parent, func(c Solution) { children = append(children, c) })

	assert.Empty(t, children)
}

func TestEqual_ComparesLineSequence(t *testing.T) {
	a := Adapter{}
	s1 := Solution{Lines: []Line{{A: 1, B: 1}, {A: 2, B: 4}}}
	s2 := Solution{Lines: []Line{{A: 1, B: 1}, {A: 2, B: 4}}}
	s3 := Solution{Lines: []Line{{A: 1, B: 1}, {A: 2, B: 8}}}

	assert.True(t, a.Equal(s1, s2))
	assert.False(t, a.Equal(s1, s3))
}

func TestDriver_ProgressesTowardFullRank(t *testing.T) {
	a := Adapter{}
	d := beam.NewDriver[Solution](a, beam.Config{BeamSize: 4096, Generations: 4, Probes: 4, Workers: 4}, nil)

	res := d.Run([]Solution{a.Seed()})

	require.NotEmpty(t, res.Records)
	var best beam.Fitness
	for _, r := range res.Records {
		if r.Fitness > best {
			best = r.Fitness
		}
	}
	assert.Greater(t, best, beam.Fitness(1), "beam search should find at least one line that grows the intersection space")
}

func TestTensorAndClean_BasicIdentities(t *testing.T) {
	l := Line{A: 1, B: 1}
	v := tensor(l)
	assert.Equal(t, uint16(0x0001), v)

	var s space
	extend(&s, 0x0001)
	assert.Equal(t, uint16(0), clean(&s, 0x0001))
}
