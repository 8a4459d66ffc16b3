// Package models provides the record, schema and dataset types that flow
// between sources, the model-fitting pipeline and destinations.
package models

import (
	"maps"
	"slices"
)

// Record is a single row. Values are Go values of one of the shapes the
// synth package understands, or raw source values before coercion.
type Record struct {
	Data map[string]any `json:"data"`
}

// NewRecord creates a record that owns data.
func NewRecord(data map[string]any) *Record {
	if data == nil {
		data = make(map[string]any)
	}
	return &Record{Data: data}
}

// Get returns the value of a field and whether it was present.
func (r *Record) Get(field string) (any, bool) {
	v, ok := r.Data[field]
	return v, ok
}

// Set sets the value of a field.
func (r *Record) Set(field string, value any) {
	r.Data[field] = value
}

// Schema defines the structure of record data.
type Schema struct {
	// Name identifies the schema (e.g., table name, file name)
	Name string `json:"name" yaml:"name"`

	// Fields in column order
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field represents a single column of the schema.
type Field struct {
	// Name is the column identifier
	Name string `json:"name" yaml:"name"`

	// Type is the shape name of the column (integer, string, date, datetime,
	// duration, datetime_range or null)
	Type string `json:"type" yaml:"type"`

	// Nullable reports whether missing values were observed
	Nullable bool `json:"nullable" yaml:"nullable"`

	// Description provides human-readable field information
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FieldNames returns the column names in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Dataset is a fully materialised table read from a source.
type Dataset struct {
	Schema  *Schema
	Records []*Record
}

// NewDataset creates a dataset. When schema is nil the column set is the
// sorted union of the record keys.
func NewDataset(name string, schema *Schema, records []*Record) *Dataset {
	if schema == nil {
		schema = &Schema{Name: name}
		seen := make(map[string]struct{})
		for _, r := range records {
			for k := range r.Data {
				seen[k] = struct{}{}
			}
		}
		for _, k := range slices.Sorted(maps.Keys(seen)) {
			schema.Fields = append(schema.Fields, Field{Name: k, Type: "string"})
		}
	}
	return &Dataset{Schema: schema, Records: records}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Column returns the values of one field across all records. A record that
// lacks the field contributes nil.
func (d *Dataset) Column(name string) []any {
	col := make([]any, len(d.Records))
	for i, r := range d.Records {
		col[i] = r.Data[name]
	}
	return col
}

// SetColumn replaces the values of one field. values must have one entry per
// record.
func (d *Dataset) SetColumn(name string, values []any) {
	for i, r := range d.Records {
		if i >= len(values) {
			return
		}
		r.Data[name] = values[i]
	}
}
