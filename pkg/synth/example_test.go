package synth_test

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/synth"
)

func ExampleBuild() {
	m, err := synth.Build([]any{nil, 7, 7, 7}, synth.WithSeed(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m)
	fmt.Println(m.Kind())

	// Output:
	// <NullableModel kind=integer count=4 null=0.2500 min=7 max=7>
	// integer
}

func ExampleBuild_unsupported() {
	_, err := synth.Build([]any{1, "one"})
	fmt.Println(errors.IsType(err, errors.ErrorTypeUnsupportedShape))
	fmt.Println(err)

	// Output:
	// true
	// unsupported_shape: unsupported shape set {integer, string}
}

func ExampleFitFrequency() {
	f, err := synth.FitFrequency([]string{"b", "a", "b", "b"}, synth.WithSeed(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(f.Keys(), f.Probabilities())

	// Output:
	// [a b] [0.25 0.75]
}

func ExampleNewDateModel() {
	d := civil.Date{Year: 2015, Month: time.June, Day: 20}
	m, err := synth.NewDateModel([]any{d, d}, synth.WithSeed(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m)
	fmt.Println(m.Sample())

	// Output:
	// <DateModel count=2 min=2015-06-20 max=2015-06-20>
	// 2015-06-20
}

func ExampleDescribe() {
	m, err := synth.Build([]any{time.Hour, 90 * time.Minute}, synth.WithSeed(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	s := synth.Describe(m)
	fmt.Println(s.Kind, s.Count, s.Min, s.Max, s.Fields["seconds"])

	// Output:
	// duration 2 1h0m0s 1h30m0s 2
}
