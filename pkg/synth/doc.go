// Package synth fits frequency-based models to observed values and draws
// synthetic samples from them.
//
// A column of values is classified by Build into one of a closed set of
// shapes (integer, string, date, datetime, duration and datetime range),
// optionally mixed with nil. Each shape has a fixed recipe:
//
//	integer         one Frequency over the values
//	string          a first-order character chain (Transitions)
//	date            year, month and day frequencies
//	datetime        year .. microsecond frequencies
//	duration        days, seconds and microseconds frequencies
//	datetime range  a datetime model for starts and a duration model for lengths
//
// Fields are fit and sampled independently, so joint structure between them
// is not preserved. A sampled date whose day does not exist in its month is
// repaired by re-drawing the day and, failing that, clamping it.
//
// Columns that contain nil are wrapped in a NullableModel that emits nil with
// the observed missing rate.
//
// All randomness flows through an injected *Rand:
//
//	m, err := synth.Build(values, synth.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	v := m.Sample()
//
// Fitted models are immutable and Sample may be called from several
// goroutines.
package synth
