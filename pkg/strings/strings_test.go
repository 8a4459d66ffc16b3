package strings

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	builder.WriteRune('w')
	builder.WriteRune('ö')
	builder.WriteString("rld")

	result := builder.String()
	if result != "hello wörld" {
		t.Errorf("expected 'hello wörld', got '%s'", result)
	}

	if builder.Len() != 12 {
		t.Errorf("expected length 12, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestPooledBuilder(t *testing.T) {
	builder := GetBuilder(Small)
	builder.WriteString("test")
	PutBuilder(builder, Small)

	again := GetBuilder(Small)
	if again.Len() != 0 {
		t.Errorf("expected reset builder, got length %d", again.Len())
	}
	PutBuilder(again, Small)
}

func TestBuildStringOwnsResult(t *testing.T) {
	first := BuildString(func(b *Builder) { b.WriteString("first") })
	second := BuildString(func(b *Builder) { b.WriteString("other") })

	if first != "first" || second != "other" {
		t.Errorf("pooled results aliased: %q %q", first, second)
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf("plain"); got != "plain" {
		t.Errorf("expected 'plain', got %q", got)
	}
	if got := Sprintf("%s=%d", "count", 3); got != "count=3" {
		t.Errorf("expected 'count=3', got %q", got)
	}
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestValueToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"bytes", []byte("raw"), "raw"},
		{"date", civil.Date{Year: 2015, Month: time.June, Day: 20}, "2015-06-20"},
		{"datetime", time.Date(2001, 3, 1, 12, 30, 0, 500000000, time.UTC), "2001-03-01T12:30:00.5Z"},
		{"duration", 90 * time.Minute, "1h30m0s"},
		{"stringer", stringer{}, "stringer"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ValueToString(test.value); got != test.expected {
				t.Errorf("ValueToString(%v) = %q, expected %q", test.value, got, test.expected)
			}
		})
	}
}
