package lens

import (
	"fmt"
	"math"
	"reflect"
)

// Unrepresentable stands in for a collected value that cannot be safely
// compared or displayed: functions, channels, unsafe pointers, values that
// reference themselves, and values whose inspection panics. Two placeholders compare equal when their labels
// match.
type Unrepresentable struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

func (u Unrepresentable) String() string {
	return "<" + u.Label + ">"
}

const unrepresentableType = "unrepresentable"

// maxCompareDepth bounds structural comparison of nested values.
const maxCompareDepth = 32

// Represent returns v unchanged when it can be compared and printed
// structurally, or an [Unrepresentable] placeholder otherwise: functions,
// channels, unsafe pointers, values that reference themselves, and values
// whose inspection panics. It never panics.
func Represent(v any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = Unrepresentable{Type: unrepresentableType, Label: fmt.Sprintf("panic: %v", r)}
		}
	}()
	if u, ok := opaque(v); ok {
		return u
	}
	if v != nil && hasCycle(reflect.ValueOf(v), make(map[visit]bool), make(map[visit]bool)) {
		return Unrepresentable{Type: unrepresentableType, Label: "cycle"}
	}
	return v
}

// opaque returns the placeholder for a top-level value that has no
// structure to compare.
func opaque(v any) (Unrepresentable, bool) {
	if v == nil {
		return Unrepresentable{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Unrepresentable{Type: unrepresentableType, Label: rv.Type().String()}, true
	}
	return Unrepresentable{}, false
}

// hasCycle reports whether v reaches itself through maps, slices, pointers
// or interfaces. onPath holds containers being walked; done holds containers
// already known to be acyclic, so shared substructure is walked once.
func hasCycle(v reflect.Value, onPath, done map[visit]bool) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return false
		}
		return hasCycle(v.Elem(), onPath, done)
	case reflect.Array:
		if !mayReference(v.Type().Elem()) {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if hasCycle(v.Index(i), onPath, done) {
				return true
			}
		}
		return false
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if hasCycle(v.Field(i), onPath, done) {
				return true
			}
		}
		return false
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if v.IsNil() {
			return false
		}
	default:
		return false
	}

	key := visit{a: uintptr(v.UnsafePointer()), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		if !mayReference(v.Type().Elem()) {
			return false
		}
		key.b = uintptr(v.Len())
	}
	if onPath[key] {
		return true
	}
	if done[key] {
		return false
	}
	onPath[key] = true
	cyclic := false
	switch v.Kind() {
	case reflect.Pointer:
		cyclic = hasCycle(v.Elem(), onPath, done)
	case reflect.Slice:
		for i := 0; i < v.Len() && !cyclic; i++ {
			cyclic = hasCycle(v.Index(i), onPath, done)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() && !cyclic {
			cyclic = hasCycle(iter.Key(), onPath, done) || hasCycle(iter.Value(), onPath, done)
		}
	}
	delete(onPath, key)
	done[key] = true
	return cyclic
}

// mayReference reports whether values of t can hold a map, slice, pointer
// or interface.
func mayReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	}
	return true
}

// Equal reports whether a and b are structurally equal. Values that cannot
// be compared are equal only when they are the same kind of opaque value.
// Self-referencing values are compared by structure. NaN equals NaN, and
// values nested past the comparison depth are treated as equal from that
// depth down. Equal never panics; a comparison that fails is reported as
// unequal.
func Equal(a, b any) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = false
		}
	}()
	if u, ok := opaque(a); ok {
		a = u
	}
	if u, ok := opaque(b); ok {
		b = u
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return deepEqual(reflect.ValueOf(a), reflect.ValueOf(b), 0, make(map[visit]bool))
}

// visit records a pointer pair already under comparison, for cycles.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

func deepEqual(a, b reflect.Value, depth int, visited map[visit]bool) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	if depth > maxCompareDepth {
		// Both sides read as the same depth placeholder.
		return true
	}

	switch a.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// Opaque: equal when both are nil or both are non-nil.
		return a.IsNil() == b.IsNil()
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		if a.UnsafePointer() == b.UnsafePointer() && a.Kind() != reflect.Slice {
			return true
		}
		v := visit{a: uintptr(a.UnsafePointer()), b: uintptr(b.UnsafePointer()), typ: a.Type()}
		if visited[v] {
			return true
		}
		visited[v] = true
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return deepEqual(a.Elem(), b.Elem(), depth+1, visited)
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepEqual(a.Index(i), b.Index(i), depth+1, visited) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !deepEqual(iter.Value(), bv, depth+1, visited) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !deepEqual(a.Field(i), b.Field(i), depth+1, visited) {
				return false
			}
		}
		return true
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return floatEqual(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return floatEqual(real(ca), real(cb)) && floatEqual(imag(ca), imag(cb))
	case reflect.String:
		return a.String() == b.String()
	}
	return false
}

// floatEqual is == except that NaN equals NaN, so an unchanged NaN is not
// reported as a change on every render.
func floatEqual(x, y float64) bool {
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}
