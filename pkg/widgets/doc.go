// Package widgets maps field types to renderer builders. A Registry is
// parameterised over the handle type a renderer produces (a terminal prompt, a
// view model, ...), starts with a set of built-in builders and lets callers
// register builders for custom field types or override the built-ins.
package widgets
