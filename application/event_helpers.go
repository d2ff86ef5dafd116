package application

import (
	"fmt"
	"reflect"

	"warden/events"
)

// AssertEventType safely asserts an event to a specific type with detailed error messages
func AssertEventType[T events.Event](event interface{}, expectedTypeName string) (T, error) {
	var zero T

	if e, ok := event.(T); ok {
		return e, nil
	}

	errMsg := fmt.Sprintf("event type assertion failed: expected %s, got %T", expectedTypeName, event)

	// Calling Type() on a nil pointer would panic
	if v := reflect.ValueOf(event); v.Kind() == reflect.Ptr && v.IsNil() {
		return zero, fmt.Errorf("%s (event is nil)", errMsg)
	}

	if e, ok := event.(events.Event); ok {
		errMsg += fmt.Sprintf(" (event.Type()=%s)", e.Type())
	}
	if v := reflect.ValueOf(event); v.Kind() == reflect.Ptr {
		errMsg += fmt.Sprintf(" (pointer to %s)", v.Type().Elem())
	}

	return zero, fmt.Errorf("%s", errMsg)
}
