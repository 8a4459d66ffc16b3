package synth

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// Frequency is a discrete distribution over the distinct values of a finite
// sample. Keys are unique and ascending; probabilities are exact ratios of
// counts to the total, so unseen values can never be drawn.
type Frequency[K cmp.Ordered] struct {
	keys  []K
	probs []float64
	// cum[i] is the share of observations with key <= keys[i]; the last entry is exactly 1.
	cum   []float64
	count int
	rng   *Rand
}

// FitFrequency fits a Frequency model to values.
func FitFrequency[K cmp.Ordered](values []K, opts ...Option) (*Frequency[K], error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyInput, "cannot fit a frequency model without values")
	}
	return fitFrequency(values, newSettings(opts).rng), nil
}

// fitFrequency requires a non-empty values slice.
func fitFrequency[K cmp.Ordered](values []K, rng *Rand) *Frequency[K] {
	counts := make(map[K]int)
	for _, v := range values {
		counts[v]++
	}
	keys := slices.Sorted(maps.Keys(counts))

	total := len(values)
	probs := make([]float64, len(keys))
	cum := make([]float64, len(keys))
	running := 0
	for i, k := range keys {
		running += counts[k]
		probs[i] = float64(counts[k]) / float64(total)
		cum[i] = float64(running) / float64(total)
	}

	return &Frequency[K]{
		keys:  keys,
		probs: probs,
		cum:   cum,
		count: total,
		rng:   rng,
	}
}

// Sample draws a key with probability equal to its fitted weight.
func (f *Frequency[K]) Sample() K {
	u := f.rng.Float64()
	i := sort.Search(len(f.cum), func(i int) bool { return f.cum[i] > u })
	if i == len(f.keys) {
		i = len(f.keys) - 1
	}
	return f.keys[i]
}

// Count returns the number of observations the model was fit from.
func (f *Frequency[K]) Count() int { return f.count }

// Distinct returns the number of distinct keys.
func (f *Frequency[K]) Distinct() int { return len(f.keys) }

// Min returns the smallest key.
func (f *Frequency[K]) Min() K { return f.keys[0] }

// Max returns the largest key.
func (f *Frequency[K]) Max() K { return f.keys[len(f.keys)-1] }

// Keys returns a copy of the sorted distinct keys.
func (f *Frequency[K]) Keys() []K { return slices.Clone(f.keys) }

// Probabilities returns a copy of the weights, parallel to Keys.
func (f *Frequency[K]) Probabilities() []float64 { return slices.Clone(f.probs) }

// Probability returns the fitted weight of k, zero when k was never observed.
func (f *Frequency[K]) Probability(k K) float64 {
	i, found := slices.BinarySearch(f.keys, k)
	if !found {
		return 0
	}
	return f.probs[i]
}

func (f *Frequency[K]) String() string {
	return fmt.Sprintf("<Frequency count=%d distinct=%d min=%v max=%v>", f.count, len(f.keys), f.Min(), f.Max())
}
