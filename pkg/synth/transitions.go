package synth

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
)

// Boundary is the sentinel state that starts every walk and the token that
// ends it. It is never a valid rune, so it cannot collide with input text.
const Boundary rune = -1

// A byte that is not part of valid UTF-8 gets its own state below Boundary,
// so text in other encodings is reproduced byte for byte.
func rawByteState(b byte) rune { return -2 - rune(b) }

func isRawByteState(r rune) bool { return r < Boundary }

// nextState decodes the state starting s and its width in bytes.
func nextState(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return rawByteState(s[0]), 1
	}
	return r, size
}

// stateCount is the number of chain states s walks through.
func stateCount(s string) int {
	n := 0
	for len(s) > 0 {
		_, size := nextState(s)
		s = s[size:]
		n++
	}
	return n
}

// Transitions is a first-order Markov chain over runes. Every fitted string
// contributes Boundary -> r0 -> ... -> rn -> Boundary; the empty string
// contributes Boundary -> Boundary.
type Transitions struct {
	next map[rune]*Frequency[rune]
}

// FitTransitions fits the chain from a non-empty set of strings.
func FitTransitions(values []string, opts ...Option) (*Transitions, error) {
	if len(values) == 0 {
		return nil, emptyInput(KindString)
	}
	return fitTransitions(values, newSettings(opts).rng), nil
}

func fitTransitions(values []string, rng *Rand) *Transitions {
	observed := make(map[rune][]rune)
	for _, s := range values {
		state := Boundary
		for rest := s; len(rest) > 0; {
			r, size := nextState(rest)
			observed[state] = append(observed[state], r)
			state = r
			rest = rest[size:]
		}
		observed[state] = append(observed[state], Boundary)
	}

	t := &Transitions{next: make(map[rune]*Frequency[rune], len(observed))}
	for state, followers := range observed {
		t.next[state] = fitFrequency(followers, rng)
	}
	return t
}

// Generate walks the chain from Boundary until Boundary is drawn again.
// The walk always terminates because every state was left by a fitted string
// that eventually ended.
func (t *Transitions) Generate() string {
	return stringpool.BuildString(func(b *stringpool.Builder) {
		state := Boundary
		for {
			r := t.next[state].Sample()
			if r == Boundary {
				return
			}
			if isRawByteState(r) {
				_ = b.WriteByte(byte(-2 - r))
			} else {
				b.WriteRune(r)
			}
			state = r
		}
	})
}

// Outgoing returns the distribution of states that follow state, or nil if
// state was never observed.
func (t *Transitions) Outgoing(state rune) *Frequency[rune] {
	return t.next[state]
}

// States returns the observed states in ascending order. Raw byte states sort
// first, then Boundary, then runes.
func (t *Transitions) States() []rune {
	return slices.Sorted(maps.Keys(t.next))
}

// StringModel samples strings from a character transition chain.
type StringModel struct {
	count    int
	min, max string
	lengths  *Frequency[int]
	chain    *Transitions
}

// NewStringModel fits a StringModel. Every element must be a string.
func NewStringModel(data []any, opts ...Option) (*StringModel, error) {
	return fitStringModel(data, newSettings(opts))
}

func fitStringModel(data []any, s *settings) (*StringModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindString)
	}
	values := make([]string, len(data))
	lengths := make([]int, len(data))
	for i, v := range data {
		str, ok := v.(string)
		if !ok {
			return nil, typeMismatch(KindString, i, v)
		}
		values[i] = str
		lengths[i] = stateCount(str)
	}
	return &StringModel{
		count:   len(values),
		min:     slices.Min(values),
		max:     slices.Max(values),
		lengths: fitFrequency(lengths, s.rng),
		chain:   fitTransitions(values, s.rng),
	}, nil
}

func (m *StringModel) Kind() Kind     { return KindString }
func (m *StringModel) Count() int     { return m.count }
func (m *StringModel) Min() string    { return m.min }
func (m *StringModel) Max() string    { return m.max }
func (m *StringModel) Sample() string { return m.chain.Generate() }

// Transitions returns the fitted chain.
func (m *StringModel) Transitions() *Transitions { return m.chain }

// Lengths returns the distribution of observed string lengths in runes, with
// each invalid UTF-8 byte counted as one. It
// describes the input; sampling does not draw from it.
func (m *StringModel) Lengths() *Frequency[int] { return m.lengths }

func (m *StringModel) String() string {
	return fmt.Sprintf("<StringModel count=%d min=%q max=%q>", m.count, m.min, m.max)
}

func (m *StringModel) fieldDistinct() map[string]int {
	return map[string]int{
		"length": m.lengths.Distinct(),
		"states": len(m.chain.next),
	}
}
