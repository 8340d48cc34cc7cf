// SPDX-License-Identifier: MIT

package flow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NewProfile allocates zero vectors of length links for every named class.
func NewProfile(links int, names ...string) *Profile {
	p := &Profile{
		Names:   append([]string(nil), names...),
		Classes: make([]Vector, len(names)),
	}
	for k := range p.Classes {
		p.Classes[k] = NewVector(links)
	}

	return p
}

// Links returns the number of links covered by the profile.
func (p *Profile) Links() int {
	if p == nil || len(p.Classes) == 0 {
		return 0
	}

	return len(p.Classes[0])
}

// Class returns the vector for the named class, or false.
func (p *Profile) Class(name string) (Vector, bool) {
	for k, n := range p.Names {
		if n == name {
			return p.Classes[k], true
		}
	}

	return nil, false
}

// Total returns the per-link sum over all classes.
func (p *Profile) Total() Vector {
	out := NewVector(p.Links())
	for _, c := range p.Classes {
		_ = Add(out, out, c)
	}

	return out
}

// Others returns the per-link sum over every class except k. It is the
// frozen cross-class flow a single-class solver sees.
func (p *Profile) Others(k int) Vector {
	out := NewVector(p.Links())
	for j, c := range p.Classes {
		if j != k {
			_ = Add(out, out, c)
		}
	}

	return out
}

// Clone deep-copies the profile.
func (p *Profile) Clone() *Profile {
	c := &Profile{
		Names:   append([]string(nil), p.Names...),
		Classes: make([]Vector, len(p.Classes)),
	}
	for k, v := range p.Classes {
		c.Classes[k] = v.Clone()
	}

	return c
}

// Validate checks shape (every class has the same length, names match
// classes) and runs Vector.Check on every class.
func (p *Profile) Validate(eps float64) error {
	if len(p.Names) != len(p.Classes) {
		return fmt.Errorf("%w: %d names for %d classes", ErrLengthMismatch, len(p.Names), len(p.Classes))
	}
	n := p.Links()
	for k, v := range p.Classes {
		if len(v) != n {
			return fmt.Errorf("%w: class %q has %d links, want %d", ErrLengthMismatch, p.Names[k], len(v), n)
		}
		if err := v.Check(eps); err != nil {
			return fmt.Errorf("class %q: %w", p.Names[k], err)
		}
	}

	return nil
}

// Share returns, per link, the fraction of total flow carried by class k,
// with the denominator floored at floor to keep empty links at zero.
func (p *Profile) Share(k int, floor float64) Vector {
	total := p.Total()
	out := NewVector(len(total))
	for i := range total {
		out[i] = p.Classes[k][i] / math.Max(total[i], floor)
	}

	return out
}

// Scale multiplies every class vector by factor in place.
func (p *Profile) Scale(factor float64) {
	for _, v := range p.Classes {
		floats.Scale(factor, v)
	}
}
