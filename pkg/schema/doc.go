// Package schema type-checks node property bags.
//
// Each node kind has a Schema mapping property names to a Type. Absent
// properties pass; the validator decides which ones are required. A value
// present with the wrong dynamic type is reported as a FieldError:
//
//	err := schema.CheckNode(node)
//	for _, fe := range schema.FieldErrors(err) {
//	    // report fe
//	}
package schema
