// Package aascode implements a beam.Adapter for almost-arithmetic-sequence
// codes modulo P: a code is a set of residues such that no "sum closes an
// arithmetic triple" relation is violated. Concretely, each new member k
// added to the code must not make the code contain both k and any element
// reachable from k and an existing member via the sum/difference relations
// below, until fitness (residues accounted for) reaches P.
package aascode

import (
	"fmt"
	"strings"

	"github.com/gitrdm/beamforge/internal/beam"
)

type maskState byte

const (
	maskUnseen    maskState = 0
	maskInCode    maskState = 1
	maskReachable maskState = 2
)

// Code is one partial almost-arithmetic-sequence code modulo a fixed P.
type Code struct {
	Elems   []uint16
	Fitness beam.Fitness
	Mask    []byte // len P, indexed by residue, holds a maskState
}

func (c Code) clone() Code {
	elems := make([]uint16, len(c.Elems), cap(c.Elems))
	copy(elems, c.Elems)
	mask := make([]byte, len(c.Mask))
	copy(mask, c.Mask)
	return Code{Elems: elems, Fitness: c.Fitness, Mask: mask}
}

// Adapter implements beam.Adapter[Code] for a fixed modulus P and maximum
// code length MaxLen.
type Adapter struct {
	P      int
	MaxLen int
}

// Seed builds the canonical starting code {0, 1}: fitness 4, matching
// aascode.c's main() (0 and 1 in-code, P-1 and 2 reachable).
func (a Adapter) Seed() Code {
	mask := make([]byte, a.P)
	mask[0] = byte(maskInCode)
	mask[1] = byte(maskInCode)
	mask[a.P-1] = byte(maskReachable)
	if a.P > 2 {
		mask[2] = byte(maskReachable)
	}
	return Code{
		Elems:   []uint16{0, 1},
		Fitness: 4,
		Mask:    mask,
	}
}

func (a Adapter) Fitness(c Code) beam.Fitness { return c.Fitness }

func (a Adapter) Equal(x, y Code) bool {
	if len(x.Elems) != len(y.Elems) {
		return false
	}
	for i := range x.Elems {
		if x.Elems[i] != y.Elems[i] {
			return false
		}
	}
	return true
}

func (a Adapter) Hash(c Code) uint64 {
	buf := make([]byte, len(c.Elems)*2)
	for i, e := range c.Elems {
		buf[2*i] = byte(e)
		buf[2*i+1] = byte(e >> 8)
	}
	return beam.HashBytes(buf)
}

func mark(child *Code, residue int) {
	if maskState(child.Mask[residue]) == maskUnseen {
		child.Fitness++
		child.Mask[residue] = byte(maskReachable)
	}
}

// EnumerateChildren reproduces aascode.c's visit_children: for every
// candidate residue k not already in the code, add it, then for every
// existing element x record 2k-x as reachable (the arithmetic-progression
// closure), and for every ordered pair (x, y) already in the code record
// x+y-k, x+k-y, and y+k-x as reachable.
func (a Adapter) EnumerateChildren(parent Code, visit beam.Visit[Code]) {
	if len(parent.Elems) >= a.MaxLen {
		return
	}
	P := a.P
	for k := 2; k < P; k++ {
		if maskState(parent.Mask[k]) == maskInCode {
			continue
		}
		child := parent.clone()
		child.Elems = append(child.Elems, uint16(k))
		if maskState(child.Mask[k]) == maskUnseen {
			child.Fitness++
		}
		child.Mask[k] = byte(maskInCode)

		for aIdx := 0; aIdx < len(child.Elems)-1; aIdx++ {
			x := int(child.Elems[aIdx])
			mark(&child, (P+k+k-x)%P)

			for bIdx := 0; bIdx <= aIdx; bIdx++ {
				y := int(child.Elems[bIdx])
				mark(&child, (P+x+y-k)%P)
				mark(&child, (P+x+k-y)%P)
				mark(&child, (P+y+k-x)%P)
			}
		}

		if int(child.Fitness) == P {
			child.Fitness = beam.Stop
		}
		visit(child)
	}
}

func (a Adapter) Print(c Code) string {
	var sb strings.Builder
	sb.WriteString("<code")
	for _, e := range c.Elems {
		fmt.Fprintf(&sb, " %d", e)
	}
	sb.WriteString(">")
	return sb.String()
}
