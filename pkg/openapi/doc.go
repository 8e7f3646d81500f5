// Package openapi derives form definitions from the request bodies of OpenAPI 3
// operations. Documents are parsed and validated with kin-openapi; each
// top-level scalar property of the request schema becomes one field.
package openapi
