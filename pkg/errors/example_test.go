// Package errors provides examples of structured error handling in synthdata.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeTypeMismatch, "element 0: expected date, got not a date (string)").
		WithDetail("index", 0).
		WithDetail("expected", "date")

	fmt.Println(err.Error())

	// Output:
	// type_mismatch: element 0: expected date, got not a date (string)
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.EOF, errors.ErrorTypeFile, "failed to read CSV header").
		WithDetail("file", "people.csv")

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}
	fmt.Println(err)

	// Output:
	// This is a file error
	// file: failed to read CSV header: EOF
}

// ExampleIsType demonstrates that IsType looks at the outermost structured error.
func ExampleIsType() {
	shapeErr := errors.New(errors.ErrorTypeUnsupportedShape, "unsupported shape set {integer, string}")
	wrapped := errors.Wrap(shapeErr, errors.ErrorTypeData, "failed to fit column age")

	fmt.Printf("Is unsupported shape: %v\n", errors.IsType(shapeErr, errors.ErrorTypeUnsupportedShape))
	fmt.Printf("Wrapped error is data type: %v\n", errors.IsType(wrapped, errors.ErrorTypeData))
	fmt.Printf("Wrapped error is unsupported shape: %v\n", errors.IsType(wrapped, errors.ErrorTypeUnsupportedShape))

	// Output:
	// Is unsupported shape: true
	// Wrapped error is data type: true
	// Wrapped error is unsupported shape: false
}

// Example_errorChain shows how wrapped messages compose.
func Example_errorChain() {
	err := errors.New(errors.ErrorTypeConnection, "connection refused").
		WithDetail("host", "db.example.com")
	err = errors.Wrap(err, errors.ErrorTypeQuery, "failed to read table users")

	fmt.Println(err)

	// Output:
	// query: failed to read table users: connection: connection refused
}

// ExampleDetail shows how to read back a detail attached to an error.
func ExampleDetail() {
	err := errors.Newf(errors.ErrorTypeEmptyInput, "cannot fit %s model without values", "integer").
		WithDetail("kind", "integer")

	kind, ok := errors.Detail(err, "kind")
	fmt.Println(kind, ok)

	// Output:
	// integer true
}

// ExampleTypeOf shows how to keep the category of a cause when adding context.
func ExampleTypeOf() {
	cause := errors.New(errors.ErrorTypeUnsupportedShape, "mixed shapes")
	err := errors.Wrap(cause, errors.TypeOf(cause), "failed to fit column").
		WithDetail("column", "age")

	fmt.Println(errors.IsType(err, errors.ErrorTypeUnsupportedShape))
	fmt.Println(errors.TypeOf(io.EOF))

	// Output:
	// true
	// internal
}
