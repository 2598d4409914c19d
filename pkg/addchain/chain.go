// Package addchain implements a beam.Adapter for addition chains modulo P:
// given a modulus P, search for the shortest addition chain (starting from
// 1) whose partial sums, taken mod P, cover every residue in [0, P).
//
// A chain's fitness is the number of distinct residues it has proven
// reachable so far (directly as a chain element, or as the positive or
// negative difference of two chain elements). Fitness reaching P means the
// chain is complete; the adapter reports beam.Stop in that case so the
// driver halts the generation it was found in.
package addchain

import (
	"fmt"
	"strings"

	"github.com/gitrdm/beamforge/internal/beam"
)

// maskState records what is known about a residue: maskUnseen (never
// proven reachable), maskInChain (a literal element of the chain), or
// maskReachable (provably reachable as a pairwise difference).
type maskState byte

const (
	maskUnseen    maskState = 0
	maskInChain   maskState = 1
	maskReachable maskState = 2
)

// Chain is one partial addition chain modulo a fixed modulus P.
type Chain struct {
	Elems   []uint16
	Fitness beam.Fitness
	Mask    []byte // len P, indexed by residue, holds a maskState
}

func (c Chain) clone() Chain {
	elems := make([]uint16, len(c.Elems), cap(c.Elems))
	copy(elems, c.Elems)
	mask := make([]byte, len(c.Mask))
	copy(mask, c.Mask)
	return Chain{Elems: elems, Fitness: c.Fitness, Mask: mask}
}

// Adapter implements beam.Adapter[Chain] for a fixed modulus P and maximum
// chain length MaxLen.
type Adapter struct {
	P      int
	MaxLen int
}

// Seed builds the canonical starting chain {0, 1}, matching addchain.c's
// main(): length 2, fitness 3 (0 and 1 are both in-chain; P-1 is reachable
// as 0-1 mod P).
func (a Adapter) Seed() Chain {
	mask := make([]byte, a.P)
	mask[0] = byte(maskInChain)
	mask[1] = byte(maskInChain)
	mask[a.P-1] = byte(maskReachable)
	return Chain{
		Elems:   []uint16{0, 1},
		Fitness: 3,
		Mask:    mask,
	}
}

func (a Adapter) Fitness(c Chain) beam.Fitness { return c.Fitness }

func (a Adapter) Equal(x, y Chain) bool {
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

func (a Adapter) Hash(c Chain) uint64 {
	buf := make([]byte, len(c.Elems)*2)
	for i, e := range c.Elems {
		buf[2*i] = byte(e)
		buf[2*i+1] = byte(e >> 8)
	}
	return beam.HashBytes(buf)
}

// EnumerateChildren reproduces addchain.c's visit_children: for every pair
// of existing chain elements (i, j) with i in [1, len) and j in [1, i],
// form the new residue k = (elems[i] + elems[j]) mod P. If k is not already
// a chain element, append it and recompute which residues become newly
// reachable as +/- differences against every earlier chain element.
func (a Adapter) EnumerateChildren(parent Chain, visit beam.Visit[Chain]) {
	if len(parent.Elems) >= a.MaxLen {
		return
	}
	P := a.P
	l := len(parent.Elems)
	for i := 1; i < l; i++ {
		for j := 1; j <= i; j++ {
			k := int(parent.Elems[i]+parent.Elems[j]) % P
			if maskState(parent.Mask[k]) == maskInChain {
				continue
			}
			child := parent.clone()
			child.Elems = append(child.Elems, uint16(k))
			if maskState(child.Mask[k]) == maskUnseen {
				child.Fitness++
			}
			child.Mask[k] = byte(maskInChain)

			for a2 := 0; a2 < len(child.Elems)-1; a2++ {
				b := (P + int(child.Elems[a2]) - k) % P
				if maskState(child.Mask[b]) == maskUnseen {
					child.Fitness++
					child.Mask[b] = byte(maskReachable)
				}
				b = P - b
				// b == P here corresponds to residue 0 under the original
				// chain[a]-k computation; residue 0 is never produced as a
				// meaningful query elsewhere (k ranges over [0, P)), so the
				// C source's out-of-range write at mask[P] is a dead store.
				// Skipping it here keeps Mask sized exactly P.
				if b != P && maskState(child.Mask[b]) == maskUnseen {
					child.Fitness++
					child.Mask[b] = byte(maskReachable)
				}
			}

			if int(child.Fitness) == P {
				child.Fitness = beam.Stop
			}
			visit(child)
		}
	}
}

func (a Adapter) Print(c Chain) string {
	var sb strings.Builder
	sb.WriteString("<chain")
	for _, e := range c.Elems {
		fmt.Fprintf(&sb, " %d", e)
	}
	sb.WriteString(">")
	return sb.String()
}
