package collection

import "reflect"

// identical reports whether a and b are the same element. Comparable values
// use ==, which is pointer identity for pointers and interfaces over the
// same dynamic type, and plain equality for primitives. Slices, maps, and
// funcs compare by data pointer. Other uncomparable values are never
// identical. Structural equality is deliberately not used: two distinct
// entities with equal field values must not de-duplicate.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	default:
		return false
	}
}
