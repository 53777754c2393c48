package fluxion

import "reflect"

// shallowEqual reports whether two derived values are the same under the
// package's memoization policy: primitives and comparable values by ==,
// slices/maps/functions/channels by reference identity, pointers by address.
// nil and a non-nil value always differ.
//
// Deep structural diffing is deliberately absent: it is unbounded-cost, and
// the contract instead obligates selector authors to return stable references
// for unchanged state (stores only notify on an actual state identity change,
// so that is the natural default).
func shallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	tb := reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Slice:
		va := reflect.ValueOf(a)
		vb := reflect.ValueOf(b)
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		// Same backing array and same length is the same slice.
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func, reflect.Chan:
		va := reflect.ValueOf(a)
		vb := reflect.ValueOf(b)
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer()
	default:
		if !ta.Comparable() {
			return false
		}
		return a == b
	}
}

// depsEqual reports whether two dependency arrays match elementwise under
// shallowEqual. Any length or element mismatch means "dependencies changed".
// nil and an empty array are equivalent.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !shallowEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
