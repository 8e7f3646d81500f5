// Package validation holds the field validators used by the form controller.
// Validators are pure: Validate inspects a value and returns nil or an error
// whose message is shown to the user. Declarative Rule values (kind plus string
// params) are resolved into validators through a Catalog so form documents can
// reference both built-in and application-defined kinds.
package validation
