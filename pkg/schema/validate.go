package schema

import "sort"

// Schema maps property names to their expected types.
// Presence is not enforced: absent properties pass.
type Schema map[string]Type

// Check validates the properties of data that are described by schema.
// Fields are checked in name order so error output is deterministic.
func Check(schema Schema, data map[string]any) error {
	if len(schema) == 0 || len(data) == 0 {
		return nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		if err := schema[key].Check(value); err != nil {
			errs = append(errs, &FieldError{Key: key, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
