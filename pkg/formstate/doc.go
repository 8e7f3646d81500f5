// Package formstate implements the form controller: it owns the current
// values and errors of one form instance, runs field validators and notifies
// subscribers after every mutation.
//
// A typical flow:
//
//	ctrl, err := formstate.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer ctrl.Dispose()
//
//	unsubscribe := ctrl.Subscribe(func(change formstate.Change) {
//		redraw(change)
//	})
//	defer unsubscribe()
//
//	ctrl.SetValue("email", "ada@example.com")
//	ctrl.Submit(func(values map[string]any) {
//		save(values)
//	})
//
// Validation failures are data, not Go errors: they are read back through
// FieldErrors, Errors or the validation.Result returned by Validate. IsValid
// reflects the error map as it stands and never triggers validation by itself.
//
// The controller is single owner. Listeners are invoked synchronously in
// registration order and must not mutate the controller; doing so panics with
// ErrReentrantMutation. Using a controller after Dispose panics with
// ErrDisposed.
package formstate
