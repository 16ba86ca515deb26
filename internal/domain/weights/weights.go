package weights

import (
	"fmt"
	"math"
	"sort"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
)

// Feature names usable in a weight configuration alongside tag-derived
// dimensions (prefixed "tag:").
const (
	Achievement = "achievement"
	Interest    = "interest"
)

// Config maps feature names to non-negative weights (immutable value object).
// Weights need not sum to 1; scoring normalizes them to shares internally.
type Config struct {
	weights map[string]float64
}

// New validates and creates a Config.
// Every weight must be a non-negative number and at least one must be
// strictly positive, otherwise ErrInvalidWeights is returned.
func New(w map[string]float64) (Config, error) {
	if len(w) == 0 {
		return Config{}, fmt.Errorf("%w: no features weighted", domain.ErrInvalidWeights)
	}
	positive := false
	cloned := make(map[string]float64, len(w))
	for name, v := range w {
		if name == "" {
			return Config{}, fmt.Errorf("%w: empty feature name", domain.ErrInvalidWeights)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Config{}, fmt.Errorf("%w: weight for %q is not a number", domain.ErrInvalidWeights, name)
		}
		if v < 0 {
			return Config{}, fmt.Errorf("%w: weight for %q is negative", domain.ErrInvalidWeights, name)
		}
		if v > 0 {
			positive = true
		}
		cloned[name] = v
	}
	if !positive {
		return Config{}, fmt.Errorf("%w: all weights are zero", domain.ErrInvalidWeights)
	}
	return Config{weights: cloned}, nil
}

// Default returns equal weighting of achievement and interest.
func Default() Config {
	return Config{weights: map[string]float64{Achievement: 1, Interest: 1}}
}

// Features returns the weighted feature names sorted lexicographically.
func (c Config) Features() []string {
	names := make([]string, 0, len(c.weights))
	for name := range c.weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Weight returns the raw weight of a feature.
func (c Config) Weight(name string) (float64, bool) {
	v, ok := c.weights[name]
	return v, ok
}

// Shares returns weights normalized so they sum to 1.
func (c Config) Shares() map[string]float64 {
	var sum float64
	for _, v := range c.weights {
		sum += v
	}
	shares := make(map[string]float64, len(c.weights))
	for name, v := range c.weights {
		shares[name] = v / sum
	}
	return shares
}

// IsZero reports whether the config was never constructed via New or Default.
func (c Config) IsZero() bool { return c.weights == nil }
