package fluxion

import "fmt"

// DebugMode enables debug logging of dispatch and notification boundaries.
// Set it at startup; it is not synchronized for runtime toggling.
var DebugMode bool

func debugf(format string, args ...any) {
	fmt.Printf("[FLUXION] "+format+"\n", args...)
}

// Batch groups multiple dispatches into a single delivery phase. State
// transitions still apply immediately and synchronously inside the batch;
// only notifications are deferred, deduplicated per listener, and delivered
// once when the outermost batch completes.
//
// Example:
//
//	reg.Batch(func() {
//	    reg.Dispatch("profile").Call("setName", "Ada")
//	    reg.Dispatch("profile").Call("setEmail", "ada@example.com")
//	    reg.Dispatch("settings").Call("setTheme", "dark")
//	})
//	// Subscribers are notified once with all three changes applied.
func (r *Registry) Batch(fn func()) {
	r.noteMu.Lock()
	r.batchDepth++
	r.noteMu.Unlock()

	defer func() {
		r.noteMu.Lock()
		r.batchDepth--
		done := r.batchDepth == 0
		r.noteMu.Unlock()
		if done {
			r.flush()
		}
	}()

	fn()
}

// Tx runs fn as a transaction, grouping all dispatches. Alias for Batch.
func (r *Registry) Tx(fn func()) {
	r.Batch(fn)
}

// TxNamed runs fn as a named transaction. The name is logged in debug mode.
func (r *Registry) TxNamed(name string, fn func()) {
	if DebugMode {
		debugf("tx %s start", name)
		defer debugf("tx %s end", name)
	}
	r.Batch(fn)
}
