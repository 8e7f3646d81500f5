// Package model defines the declarative form description consumed by the
// controller and by renderers. A FormConfig holds FieldConfigs in display
// order; every field carries an id, a FieldType tag, a required flag, an
// initial value and its validators. Variant payloads (text hints, radio
// options, date bounds, custom maps) are opaque to the controller and exist so
// renderers resolved through the widget registry can present the field.
// FieldType is an open set: the text, radio and date tags are built in and any
// other name is a custom kind.
package model
