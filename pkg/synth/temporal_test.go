package synth

import (
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func TestDateModel_FieldsStayInObservedSets(t *testing.T) {
	data := []any{
		civil.Date{Year: 2000, Month: time.January, Day: 1},
		civil.Date{Year: 2010, Month: time.January, Day: 1},
		civil.Date{Year: 2015, Month: time.June, Day: 20},
	}
	m, err := NewDateModel(data, WithSeed(2015))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Count())
	assert.Equal(t, civil.Date{Year: 2000, Month: time.January, Day: 1}, m.Min())
	assert.Equal(t, civil.Date{Year: 2015, Month: time.June, Day: 20}, m.Max())

	years := map[int]bool{2000: true, 2010: true, 2015: true}
	months := map[time.Month]bool{time.January: true, time.June: true}
	days := map[int]bool{1: true, 20: true}
	for range 1000 {
		d := m.Sample()
		assert.True(t, years[d.Year], "year %d", d.Year)
		assert.True(t, months[d.Month], "month %d", d.Month)
		assert.True(t, days[d.Day], "day %d", d.Day)
		assert.True(t, d.IsValid())
	}
}

func TestNewDateModel_TypeMismatch(t *testing.T) {
	_, err := NewDateModel([]any{"not a date"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	assert.Contains(t, err.Error(), "not a date (string)")

	_, err = NewDateModel([]any{civil.Date{Year: 2021, Month: time.February, Day: 30}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestDrawDay(t *testing.T) {
	rng := NewRand(1)
	tests := []struct {
		name  string
		year  int
		month time.Month
		days  []int
		want  int
	}{
		{"valid day kept", 2021, time.March, []int{31}, 31},
		{"clamped in february", 2021, time.February, []int{31}, 28},
		{"clamped in leap february", 2020, time.February, []int{30, 31}, 29},
		{"clamped in april", 2021, time.April, []int{31}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := fitFrequency(tt.days, rng)
			assert.Equal(t, tt.want, drawDay(tt.year, tt.month, days))
		})
	}
}

func TestDateModel_RecompositionIsAlwaysValid(t *testing.T) {
	data := []any{
		civil.Date{Year: 2021, Month: time.February, Day: 1},
		civil.Date{Year: 2021, Month: time.January, Day: 31},
		civil.Date{Year: 2021, Month: time.March, Day: 30},
	}
	m, err := NewDateModel(data, WithSeed(8))
	require.NoError(t, err)

	for range 1000 {
		d := m.Sample()
		require.True(t, d.IsValid(), "invalid date %s", d)
		if d.Month == time.February {
			assert.Contains(t, []int{1, 28}, d.Day)
		}
	}
}

func TestDatetimeModel(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	first := time.Date(2020, time.May, 4, 8, 30, 15, 250_000_000, loc)
	second := time.Date(2021, time.May, 4, 18, 30, 45, 0, loc)

	m, err := NewDatetimeModel([]any{second, first}, WithSeed(4))
	require.NoError(t, err)
	assert.Equal(t, KindDatetime, m.Kind())
	assert.True(t, first.Equal(m.Min()))
	assert.True(t, second.Equal(m.Max()))

	for range 500 {
		s := m.Sample()
		assert.Equal(t, loc, s.Location())
		assert.Contains(t, []int{2020, 2021}, s.Year())
		assert.Equal(t, time.May, s.Month())
		assert.Equal(t, 4, s.Day())
		assert.Contains(t, []int{8, 18}, s.Hour())
		assert.Equal(t, 30, s.Minute())
		assert.Contains(t, []int{15, 45}, s.Second())
		assert.Contains(t, []int{0, 250_000_000}, s.Nanosecond())
	}
}

func TestNewDatetimeModel_AcceptsCivilDateTime(t *testing.T) {
	dt := civil.DateTime{
		Date: civil.Date{Year: 1999, Month: time.December, Day: 31},
		Time: civil.Time{Hour: 23, Minute: 59, Second: 59},
	}
	m, err := NewDatetimeModel([]any{dt}, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC), m.Sample())
}

func TestNewDatetimeModel_TypeMismatch(t *testing.T) {
	_, err := NewDatetimeModel([]any{time.Now(), civil.Date{Year: 2020, Month: 1, Day: 1}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	actual, _ := errors.Detail(err, "actual")
	assert.Equal(t, "date", actual)
}

func TestSplitDuration(t *testing.T) {
	tests := []struct {
		in                    time.Duration
		days, seconds, micros int64
	}{
		{0, 0, 0, 0},
		{1500 * time.Millisecond, 0, 1, 500_000},
		{25 * time.Hour, 1, 3600, 0},
		{-time.Microsecond, -1, 86399, 999_999},
		{-36 * time.Hour, -2, 43200, 0},
		{1500 * time.Nanosecond, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			days, seconds, micros := splitDuration(tt.in)
			assert.Equal(t, tt.days, days)
			assert.Equal(t, tt.seconds, seconds)
			assert.Equal(t, tt.micros, micros)
			assert.Equal(t, tt.in.Truncate(time.Microsecond), joinDuration(days, seconds, micros))
		})
	}
}

func TestJoinDuration_Saturates(t *testing.T) {
	maxDays, maxSeconds, maxMicros := splitDuration(time.Duration(math.MaxInt64))
	assert.Equal(t, time.Duration(math.MaxInt64).Truncate(time.Microsecond), joinDuration(maxDays, maxSeconds, maxMicros))
	assert.Equal(t, time.Duration(math.MaxInt64), joinDuration(maxDays, 86399, 999_999))

	minDays, _, _ := splitDuration(time.Duration(math.MinInt64))
	assert.Equal(t, time.Duration(math.MinInt64), joinDuration(minDays-1, 0, 0))
}

func TestDurationModel_NearLimitSamplesKeepSign(t *testing.T) {
	m, err := NewDurationModel([]any{time.Duration(math.MaxInt64), 86399 * time.Second}, WithSeed(4))
	require.NoError(t, err)
	for range 200 {
		assert.GreaterOrEqual(t, m.Sample(), time.Duration(0))
	}
}

func TestDurationModel(t *testing.T) {
	m, err := NewDurationModel([]any{time.Hour, 2 * time.Hour, time.Hour}, WithSeed(6))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Count())
	assert.Equal(t, time.Hour, m.Min())
	assert.Equal(t, 2*time.Hour, m.Max())
	assert.Equal(t, "<DurationModel count=3 min=1h0m0s max=2h0m0s>", m.String())
	for range 500 {
		assert.Contains(t, []time.Duration{time.Hour, 2 * time.Hour}, m.Sample())
	}

	_, err = NewDurationModel([]any{time.Hour, int64(5)})
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestDatetimeRangeModel(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2021, time.March, 1, hour, 0, 0, 0, time.UTC) }
	data := []any{
		Range{Start: at(10), End: at(10).Add(30 * time.Minute)},
		[2]time.Time{at(12), at(12).Add(90 * time.Minute)},
		[2]any{at(10), at(11)},
	}
	m, err := NewDatetimeRangeModel(data, WithSeed(12))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Count())
	assert.Equal(t, Range{Start: at(10), End: at(10).Add(30 * time.Minute)}, m.Min())
	assert.Equal(t, Range{Start: at(12), End: at(12).Add(90 * time.Minute)}, m.Max())
	assert.Equal(t, 3, m.Delta().Count())

	for range 500 {
		r := m.Sample()
		assert.Contains(t, []time.Time{at(10), at(12)}, r.Start)
		assert.Contains(t, []time.Duration{30 * time.Minute, time.Hour, 90 * time.Minute}, r.Delta())
	}
}

func TestSplitSpan(t *testing.T) {
	start := time.Date(2021, time.March, 1, 10, 0, 0, 0, time.UTC)
	for _, d := range []time.Duration{0, 1500 * time.Millisecond, 25 * time.Hour, -36 * time.Hour, -time.Microsecond} {
		days, seconds, micros := splitSpan(start, start.Add(d))
		wantDays, wantSeconds, wantMicros := splitDuration(d)
		assert.Equal(t, []int64{wantDays, wantSeconds, wantMicros}, []int64{days, seconds, micros}, d.String())
	}

	end := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	days, seconds, micros := splitSpan(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, int64(2914634), days)
	assert.Zero(t, seconds)
	assert.Zero(t, micros)
}

func TestDatetimeRangeModel_OpenEnded(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	m, err := NewDatetimeRangeModel([]any{Range{Start: start, End: end}}, WithSeed(9))
	require.NoError(t, err)

	for range 20 {
		r := m.Sample()
		assert.True(t, r.Start.Equal(start))
		assert.True(t, r.End.Equal(end), "sampled end %s", r.End)
	}
	assert.Equal(t, time.Duration(math.MaxInt64), m.Delta().Max())
}

func TestNewDatetimeRangeModel_TypeMismatch(t *testing.T) {
	_, err := NewDatetimeRangeModel([]any{[2]any{time.Now(), "later"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}
