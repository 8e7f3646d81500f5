package formstate

// ChangeKind names the operation that produced a notification.
type ChangeKind string

const (
	ChangeValue    ChangeKind = "value"
	ChangeValidate ChangeKind = "validate"
	ChangeReset    ChangeKind = "reset"
	ChangeClear    ChangeKind = "clear"
	ChangeErrors   ChangeKind = "errors"
	ChangePatch    ChangeKind = "patch"
)

// Change describes a state transition. FieldID is set for ChangeValue only;
// Fields lists the ids touched by ChangeErrors and ChangePatch.
type Change struct {
	Kind    ChangeKind
	FieldID string
	Fields  []string
}

// Listener receives change notifications. Listeners run synchronously on the
// caller's goroutine and may read the controller but must not mutate it.
type Listener func(Change)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Subscribe registers fn and returns a function that removes it. Listeners are
// called in registration order. Calling the returned function more than once
// is harmless.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	c.ensureAlive()
	if fn == nil {
		return func() {}
	}
	c.nextListen++
	id := c.nextListen
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		c.unsubscribe(id)
	}
}

// ListenerCount reports how many listeners are attached.
func (c *Controller) ListenerCount() int {
	return len(c.listeners)
}

func (c *Controller) unsubscribe(id uint64) {
	for idx, entry := range c.listeners {
		if entry.id != id {
			continue
		}
		next := make([]listenerEntry, 0, len(c.listeners)-1)
		next = append(next, c.listeners[:idx]...)
		next = append(next, c.listeners[idx+1:]...)
		c.listeners = next
		return
	}
}

// notify delivers change to a snapshot of the listeners taken before the first
// call, so subscribing or unsubscribing from a listener only affects later
// notifications.
func (c *Controller) notify(change Change) {
	if len(c.listeners) == 0 {
		return
	}
	snapshot := c.listeners
	c.notifying = true
	defer func() {
		c.notifying = false
	}()
	for _, entry := range snapshot {
		entry.fn(change)
	}
}
