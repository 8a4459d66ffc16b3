package synth

import (
	"fmt"
	"math"
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// maxDayRedraws bounds how often a day is re-drawn when the sampled
// year/month/day triple does not exist. After that the day is clamped to the
// last day of the month.
const maxDayRedraws = 16

const (
	microsPerSecond = int64(time.Second / time.Microsecond)
	secondsPerDay   = int64(24 * 60 * 60)
	microsPerDay    = secondsPerDay * microsPerSecond
)

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// drawDay samples a day that exists in year/month.
func drawDay(year int, month time.Month, days *Frequency[int]) int {
	last := daysIn(year, month)
	for range maxDayRedraws {
		if d := days.Sample(); d >= 1 && d <= last {
			return d
		}
	}
	return last
}

// DateModel samples calendar dates from independent year, month and day
// distributions.
type DateModel struct {
	count    int
	min, max civil.Date
	year     *Frequency[int]
	month    *Frequency[int]
	day      *Frequency[int]
}

// NewDateModel fits a DateModel. Every element must be a valid civil.Date.
func NewDateModel(data []any, opts ...Option) (*DateModel, error) {
	return fitDateModel(data, newSettings(opts))
}

func fitDateModel(data []any, s *settings) (*DateModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindDate)
	}
	years := make([]int, len(data))
	months := make([]int, len(data))
	days := make([]int, len(data))
	m := &DateModel{count: len(data)}
	for i, v := range data {
		d, ok := v.(civil.Date)
		if !ok || !d.IsValid() {
			return nil, typeMismatch(KindDate, i, v)
		}
		if i == 0 || d.Before(m.min) {
			m.min = d
		}
		if i == 0 || d.After(m.max) {
			m.max = d
		}
		years[i], months[i], days[i] = d.Year, int(d.Month), d.Day
	}
	m.year = fitFrequency(years, s.rng)
	m.month = fitFrequency(months, s.rng)
	m.day = fitFrequency(days, s.rng)
	return m, nil
}

func (m *DateModel) Kind() Kind      { return KindDate }
func (m *DateModel) Count() int      { return m.count }
func (m *DateModel) Min() civil.Date { return m.min }
func (m *DateModel) Max() civil.Date { return m.max }

// Sample draws year and month, then a day that exists in that month.
func (m *DateModel) Sample() civil.Date {
	year := m.year.Sample()
	month := time.Month(m.month.Sample())
	return civil.Date{Year: year, Month: month, Day: drawDay(year, month, m.day)}
}

func (m *DateModel) String() string {
	return fmt.Sprintf("<DateModel count=%d min=%s max=%s>", m.count, m.min, m.max)
}

func (m *DateModel) fieldDistinct() map[string]int {
	return map[string]int{
		"year":  m.year.Distinct(),
		"month": m.month.Distinct(),
		"day":   m.day.Distinct(),
	}
}

// DatetimeModel samples instants from seven independent wall-clock fields.
// Samples are built in the location of the earliest observation.
type DatetimeModel struct {
	count    int
	min, max time.Time
	loc      *time.Location

	year, month, day             *Frequency[int]
	hour, minute, second, micros *Frequency[int]
}

// NewDatetimeModel fits a DatetimeModel. Elements must be time.Time or
// civil.DateTime; the latter are read as UTC.
func NewDatetimeModel(data []any, opts ...Option) (*DatetimeModel, error) {
	return fitDatetimeModel(data, newSettings(opts))
}

func fitDatetimeModel(data []any, s *settings) (*DatetimeModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindDatetime)
	}
	values := make([]time.Time, len(data))
	for i, v := range data {
		t, ok := toDatetime(v)
		if !ok {
			return nil, typeMismatch(KindDatetime, i, v)
		}
		values[i] = t
	}
	return fitDatetimes(values, s.rng), nil
}

// fitDatetimes requires a non-empty slice.
func fitDatetimes(values []time.Time, rng *Rand) *DatetimeModel {
	n := len(values)
	cols := [7][]int{}
	for i := range cols {
		cols[i] = make([]int, n)
	}
	m := &DatetimeModel{count: n}
	for i, t := range values {
		if i == 0 || t.Before(m.min) {
			m.min = t
		}
		if i == 0 || t.After(m.max) {
			m.max = t
		}
		cols[0][i] = t.Year()
		cols[1][i] = int(t.Month())
		cols[2][i] = t.Day()
		cols[3][i] = t.Hour()
		cols[4][i] = t.Minute()
		cols[5][i] = t.Second()
		cols[6][i] = t.Nanosecond() / int(time.Microsecond)
	}
	m.loc = m.min.Location()
	m.year = fitFrequency(cols[0], rng)
	m.month = fitFrequency(cols[1], rng)
	m.day = fitFrequency(cols[2], rng)
	m.hour = fitFrequency(cols[3], rng)
	m.minute = fitFrequency(cols[4], rng)
	m.second = fitFrequency(cols[5], rng)
	m.micros = fitFrequency(cols[6], rng)
	return m
}

func (m *DatetimeModel) Kind() Kind     { return KindDatetime }
func (m *DatetimeModel) Count() int     { return m.count }
func (m *DatetimeModel) Min() time.Time { return m.min }
func (m *DatetimeModel) Max() time.Time { return m.max }

func (m *DatetimeModel) Sample() time.Time {
	year := m.year.Sample()
	month := time.Month(m.month.Sample())
	day := drawDay(year, month, m.day)
	return time.Date(year, month, day,
		m.hour.Sample(), m.minute.Sample(), m.second.Sample(),
		m.micros.Sample()*int(time.Microsecond), m.loc)
}

func (m *DatetimeModel) String() string {
	return fmt.Sprintf("<DatetimeModel count=%d min=%s max=%s>",
		m.count, m.min.Format(time.RFC3339Nano), m.max.Format(time.RFC3339Nano))
}

func (m *DatetimeModel) fieldDistinct() map[string]int {
	return map[string]int{
		"year":        m.year.Distinct(),
		"month":       m.month.Distinct(),
		"day":         m.day.Distinct(),
		"hour":        m.hour.Distinct(),
		"minute":      m.minute.Distinct(),
		"second":      m.second.Distinct(),
		"microsecond": m.micros.Distinct(),
	}
}

// splitDuration decomposes d into days, seconds and microseconds with
// 0 <= seconds < 86400 and 0 <= micros < 1e6; days carries the sign.
// Precision below a microsecond is dropped.
func splitDuration(d time.Duration) (days, seconds, micros int64) {
	return splitMicros(int64(d / time.Microsecond))
}

func splitMicros(us int64) (days, seconds, micros int64) {
	days = us / microsPerDay
	rem := us % microsPerDay
	if rem < 0 {
		days--
		rem += microsPerDay
	}
	return days, rem / microsPerSecond, rem % microsPerSecond
}

// splitSpan decomposes end - start like splitDuration without going through
// time.Duration, so spans longer than about 292 years keep their length.
// Every pair of years 1 to 9999 fits in int64 microseconds.
func splitSpan(start, end time.Time) (days, seconds, micros int64) {
	secs := end.Unix() - start.Unix()
	nanos := int64(end.Nanosecond() - start.Nanosecond())
	us := secs*microsPerSecond + nanos/1000
	if nanos < 0 && nanos%1000 != 0 {
		us--
	}
	return splitMicros(us)
}

// joinDuration recomposes split fields. Fields drawn independently from
// near-limit durations can exceed the time.Duration range; the result then
// saturates at the nearest limit.
func joinDuration(days, seconds, micros int64) time.Duration {
	us := days*microsPerDay + seconds*microsPerSecond + micros
	switch {
	case us > math.MaxInt64/int64(time.Microsecond):
		return time.Duration(math.MaxInt64)
	case us < math.MinInt64/int64(time.Microsecond):
		return time.Duration(math.MinInt64)
	}
	return time.Duration(us) * time.Microsecond
}

// shift adds split fields to t as an absolute offset.
func shift(t time.Time, days, seconds, micros int64) time.Time {
	return time.Unix(t.Unix()+days*secondsPerDay+seconds, int64(t.Nanosecond())+micros*1000).In(t.Location())
}

// DurationModel samples durations from independent days, seconds and
// microseconds distributions.
type DurationModel struct {
	count    int
	min, max time.Duration
	days     *Frequency[int64]
	seconds  *Frequency[int64]
	micros   *Frequency[int64]
}

// NewDurationModel fits a DurationModel. Every element must be a
// time.Duration.
func NewDurationModel(data []any, opts ...Option) (*DurationModel, error) {
	return fitDurationModel(data, newSettings(opts))
}

func fitDurationModel(data []any, s *settings) (*DurationModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindDuration)
	}
	values := make([]time.Duration, len(data))
	for i, v := range data {
		d, ok := v.(time.Duration)
		if !ok {
			return nil, typeMismatch(KindDuration, i, v)
		}
		values[i] = d
	}
	return fitDurations(values, s.rng), nil
}

// fitDurations requires a non-empty slice.
func fitDurations(values []time.Duration, rng *Rand) *DurationModel {
	n := len(values)
	days := make([]int64, n)
	seconds := make([]int64, n)
	micros := make([]int64, n)
	for i, d := range values {
		days[i], seconds[i], micros[i] = splitDuration(d)
	}
	m := fitDurationFields(days, seconds, micros, rng)
	m.min, m.max = slices.Min(values), slices.Max(values)
	return m
}

// fitDurationFields fits already split values. Min and Max are the
// recomposed extremes and saturate like joinDuration.
func fitDurationFields(days, seconds, micros []int64, rng *Rand) *DurationModel {
	var lo, hi int64
	for i := range days {
		us := days[i]*microsPerDay + seconds[i]*microsPerSecond + micros[i]
		if i == 0 || us < lo {
			lo = us
		}
		if i == 0 || us > hi {
			hi = us
		}
	}
	return &DurationModel{
		count:   len(days),
		min:     joinDuration(splitMicros(lo)),
		max:     joinDuration(splitMicros(hi)),
		days:    fitFrequency(days, rng),
		seconds: fitFrequency(seconds, rng),
		micros:  fitFrequency(micros, rng),
	}
}

func (m *DurationModel) Kind() Kind         { return KindDuration }
func (m *DurationModel) Count() int         { return m.count }
func (m *DurationModel) Min() time.Duration { return m.min }
func (m *DurationModel) Max() time.Duration { return m.max }

func (m *DurationModel) Sample() time.Duration {
	return joinDuration(m.sampleFields())
}

func (m *DurationModel) sampleFields() (days, seconds, micros int64) {
	return m.days.Sample(), m.seconds.Sample(), m.micros.Sample()
}

func (m *DurationModel) String() string {
	return fmt.Sprintf("<DurationModel count=%d min=%s max=%s>", m.count, m.min, m.max)
}

func (m *DurationModel) fieldDistinct() map[string]int {
	return map[string]int{
		"days":         m.days.Distinct(),
		"seconds":      m.seconds.Distinct(),
		"microseconds": m.micros.Distinct(),
	}
}

// DatetimeRangeModel samples (start, start+delta) pairs where start and delta
// come from independently fitted models.
type DatetimeRangeModel struct {
	count    int
	min, max Range
	start    *DatetimeModel
	delta    *DurationModel
}

// NewDatetimeRangeModel fits a DatetimeRangeModel. Elements must be Range,
// [2]time.Time or [2]any holding two datetimes.
func NewDatetimeRangeModel(data []any, opts ...Option) (*DatetimeRangeModel, error) {
	return fitDatetimeRangeModel(data, newSettings(opts))
}

func fitDatetimeRangeModel(data []any, s *settings) (*DatetimeRangeModel, error) {
	if len(data) == 0 {
		return nil, emptyInput(KindDatetimeRange)
	}
	starts := make([]time.Time, len(data))
	days := make([]int64, len(data))
	seconds := make([]int64, len(data))
	micros := make([]int64, len(data))
	m := &DatetimeRangeModel{count: len(data)}
	for i, v := range data {
		r, ok := toRange(v)
		if !ok {
			return nil, typeMismatch(KindDatetimeRange, i, v)
		}
		if i == 0 || r.Compare(m.min) < 0 {
			m.min = r
		}
		if i == 0 || r.Compare(m.max) > 0 {
			m.max = r
		}
		starts[i] = r.Start
		days[i], seconds[i], micros[i] = splitSpan(r.Start, r.End)
	}
	m.start = fitDatetimes(starts, s.rng)
	m.delta = fitDurationFields(days, seconds, micros, s.rng)
	return m, nil
}

func (m *DatetimeRangeModel) Kind() Kind { return KindDatetimeRange }
func (m *DatetimeRangeModel) Count() int { return m.count }
func (m *DatetimeRangeModel) Min() Range { return m.min }
func (m *DatetimeRangeModel) Max() Range { return m.max }

// Sample draws a start and adds an independently drawn length. Lengths are
// applied field by field, so they are not limited to the time.Duration range.
func (m *DatetimeRangeModel) Sample() Range {
	start := m.start.Sample()
	days, seconds, micros := m.delta.sampleFields()
	return Range{Start: start, End: shift(start, days, seconds, micros)}
}

// Start returns the model of range starts.
func (m *DatetimeRangeModel) Start() *DatetimeModel { return m.start }

// Delta returns the model of range lengths.
func (m *DatetimeRangeModel) Delta() *DurationModel { return m.delta }

func (m *DatetimeRangeModel) String() string {
	return fmt.Sprintf("<DatetimeRangeModel count=%d min=%s max=%s>", m.count, m.min, m.max)
}

func (m *DatetimeRangeModel) fieldDistinct() map[string]int {
	out := make(map[string]int, 10)
	for k, v := range m.start.fieldDistinct() {
		out["start."+k] = v
	}
	for k, v := range m.delta.fieldDistinct() {
		out["delta."+k] = v
	}
	return out
}
