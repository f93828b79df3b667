// Package composition implements the deterministic arithmetic over
// element-percentage compositions: normalisation, validity, density estimate,
// compatibility scoring and processing hints. Every function is pure and
// never fails on unknown symbols or zero-sum input.
package composition

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Tolerance is the maximum |sum − 100| for a composition to be valid.
const Tolerance = 0.1

// Composition maps an element (or monomer) symbol to a percentage.
type Composition map[string]float64

// ElementLookup resolves a symbol to its reference record.
type ElementLookup interface {
	Lookup(symbol string) (reference.Element, bool)
}

// Total returns the sum of all values.
func (c Composition) Total() float64 {
	var sum float64
	for _, v := range c {
		sum += v
	}
	return sum
}

// Clone returns an independent copy. A nil composition clones to nil.
func (c Composition) Clone() Composition {
	if c == nil {
		return nil
	}
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Symbols returns the keys sorted alphabetically.
func (c Composition) Symbols() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Normalize rescales c so its values sum to exactly 100. When the sum is not
// positive the input is returned unchanged (as a copy).
func Normalize(c Composition) Composition {
	total := c.Total()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return c.Clone()
	}
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v / total * 100
	}
	return out
}

// IsValid reports whether the values sum to 100 within Tolerance.
func IsValid(c Composition) bool {
	return math.Abs(c.Total()-100) < Tolerance
}

// Validate returns a COMP_002 error for an empty composition and COMP_001
// when the sum is outside tolerance.
func Validate(c Composition) error {
	if len(c) == 0 {
		return errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
	}
	for sym, v := range c {
		if v < 0 || math.IsNaN(v) {
			return errors.New(errors.ErrCodeCompositionInvalid, "percentages must be non-negative").
				WithDetail("symbol=" + sym)
		}
	}
	if !IsValid(c) {
		return errors.New(errors.ErrCodeCompositionInvalid, "composition must sum to 100%").
			WithDetail(fmt.Sprintf("total=%.3f", c.Total()))
	}
	return nil
}

// Format renders c as "Fe: 70.0%, Cr: 20.0%, Ni: 10.0%", largest share first.
func Format(c Composition) string {
	syms := c.Symbols()
	sort.SliceStable(syms, func(i, j int) bool { return c[syms[i]] > c[syms[j]] })
	parts := make([]string, 0, len(syms))
	for _, s := range syms {
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", s, c[s]))
	}
	return strings.Join(parts, ", ")
}

// Parse reads "Fe=70,Cr=20,Ni=10" (":" is accepted in place of "=").
func Parse(s string) (Composition, error) {
	out := Composition{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sep := strings.IndexAny(part, "=:")
		if sep <= 0 {
			return nil, errors.InvalidParam("expected SYMBOL=PERCENT").WithDetail(part)
		}
		sym := strings.TrimSpace(part[:sep])
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(part[sep+1:], "%")), 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid percentage").WithDetail(part)
		}
		out[sym] += v
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
	}
	return out, nil
}
