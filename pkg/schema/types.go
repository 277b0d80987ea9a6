package schema

import (
	"fmt"
	"reflect"
)

// Type checks the dynamic type of a property value.
type Type interface {
	// Name returns the human-readable name of the type (e.g. "string").
	Name() string
	// Check returns an error when the value does not conform.
	Check(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Check(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type numberType struct{}

func (numberType) Name() string { return "number" }

func (numberType) Check(value any) error {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return nil
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Check(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

type mapType struct{}

func (mapType) Name() string { return "object" }

func (mapType) Check(value any) error {
	if reflect.ValueOf(value).Kind() != reflect.Map {
		return fmt.Errorf("expected object, got %T", value)
	}
	return nil
}

type listType struct {
	elem Type
}

func (t listType) Name() string { return "[" + t.elem.Name() + "]" }

func (t listType) Check(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Check(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type objectType struct {
	fields Schema
}

func (objectType) Name() string { return "object" }

func (t objectType) Check(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	return Check(t.fields, m)
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Check(value any) error { return nil }

// String accepts string values.
func String() Type { return stringType{} }

// Number accepts any Go integer or float value.
func Number() Type { return numberType{} }

// Bool accepts boolean values.
func Bool() Type { return boolType{} }

// Map accepts any map value.
func Map() Type { return mapType{} }

// Any accepts every value.
func Any() Type { return anyType{} }

// List accepts slices whose elements conform to elem.
func List(elem Type) Type { return listType{elem: elem} }

// Object accepts maps whose fields conform to fields.
func Object(fields Schema) Type { return objectType{fields: fields} }
