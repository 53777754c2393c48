package fluxion

import (
	"errors"
	"fmt"
)

// Category classifies a fluxion error.
type Category string

const (
	// CategoryConfig covers invalid store configuration: a missing reducer,
	// an empty store name, or re-registration under an existing name.
	CategoryConfig Category = "config"

	// CategoryLookup covers references to names that were never registered:
	// unknown stores, selectors, or action creators.
	CategoryLookup Category = "lookup"

	// CategoryHook covers misuse of the hook API, such as calling UseSelect
	// outside of a view render.
	CategoryHook Category = "hook"
)

// Sentinel errors for errors.Is matching. Every structured *Error raised by
// this package wraps one of these.
var (
	// ErrStoreRegistered is returned when registering a store under a name
	// that is already taken. Registration rejects rather than replaces: a
	// silent swap would orphan every live subscription to the old store.
	ErrStoreRegistered = errors.New("fluxion: store already registered")

	// ErrMissingReducer is returned when a StoreConfig has no reducer.
	ErrMissingReducer = errors.New("fluxion: store config missing reducer")

	// ErrEmptyStoreName is returned when registering a store with an empty name.
	ErrEmptyStoreName = errors.New("fluxion: empty store name")

	// ErrUnknownStore is raised when Select or Dispatch is called with a
	// store name that was never registered.
	ErrUnknownStore = errors.New("fluxion: unknown store")

	// ErrUnknownSelector is raised when a selector facade is called with a
	// selector name the store does not define.
	ErrUnknownSelector = errors.New("fluxion: unknown selector")

	// ErrUnknownAction is raised when a dispatch facade is called with an
	// action-creator name the store does not define.
	ErrUnknownAction = errors.New("fluxion: unknown action creator")

	// ErrNoView is raised when a hook is called outside of a view render.
	ErrNoView = errors.New("fluxion: hook called outside view render")
)

// Error is a structured error with a stable code and a fix suggestion.
//
// Configuration and lookup failures are programming errors: they are raised
// synchronously at the call site (registration returns an *Error; facade
// calls panic with one) so a misconfigured store never fails silently deep
// inside a projection.
type Error struct {
	// Code is a unique error identifier (e.g. "E003").
	Code string

	// Category is the error class (config, lookup, hook).
	Category Category

	// Message is a short description of the error.
	Message string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the sentinel or underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[FLUXION %s] %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

func newError(code string, cat Category, sentinel error, suggestion, format string, args ...any) *Error {
	return &Error{
		Code:       code,
		Category:   cat,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
		Wrapped:    sentinel,
	}
}

func errDuplicateStore(name string) *Error {
	return newError("E001", CategoryConfig, ErrStoreRegistered,
		"choose a unique store name; registries reject re-registration",
		"store %q is already registered", name)
}

func errMissingReducer(name string) *Error {
	return newError("E002", CategoryConfig, ErrMissingReducer,
		"set StoreConfig.Reducer; it is invoked with nil state to produce the initial state",
		"store %q registered without a reducer", name)
}

func errEmptyStoreName() *Error {
	return newError("E003", CategoryConfig, ErrEmptyStoreName,
		"store names identify stores for the registry's lifetime and cannot be empty",
		"cannot register a store with an empty name")
}

func errUnknownStore(registryID, name string) *Error {
	return newError("E004", CategoryLookup, ErrUnknownStore,
		"register the store before selecting or dispatching to it",
		"no store registered under %q (registry %s)", name, registryID)
}

func errUnknownSelector(store, selector string) *Error {
	return newError("E005", CategoryLookup, ErrUnknownSelector,
		"add the selector to StoreConfig.Selectors",
		"store %q has no selector %q", store, selector)
}

func errUnknownAction(store, action string) *Error {
	return newError("E006", CategoryLookup, ErrUnknownAction,
		"add the action creator to StoreConfig.Actions",
		"store %q has no action creator %q", store, action)
}

func errNoView(hook string) *Error {
	return newError("E007", CategoryHook, ErrNoView,
		"call hooks during a view render, inside WithView",
		"%s called outside of a view render", hook)
}
