// Package tui renders forms as terminal prompts. A Session drives a
// formstate.Controller: every field is asked once through a PromptDriver,
// the form is submitted, and failing fields are asked again until it
// validates. Prompts are resolved through a widgets.Registry so custom field
// types can plug in their own prompts.
package tui
