// Package formconfig loads form definitions from JSON or YAML documents.
//
// A document holds a "forms" map keyed by form id. Each field carries its
// type-specific options inline (placeholder, options, minDate, ...) and lists
// validators as declarative rules resolved through a validation.Catalog:
//
//	forms:
//	  contact:
//	    validateOnChange: true
//	    fields:
//	      - id: email
//	        required: true
//	        validators:
//	          - kind: email
//
// Fields without a type default to text. Date bounds and date initial values
// are parsed with the field layout, time.DateOnly unless overridden.
package formconfig
