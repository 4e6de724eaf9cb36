// Package types defines the dynamic values manipulated by the engine. Every
// value exposes the identity token of its concrete type, which is what
// function overloads are resolved with.
package types

import (
	"reflect"

	"github.com/mna/lilypad/lang/hashing"
)

// Value is the interface implemented by any value manipulated by the engine.
type Value interface {
	// String returns the string representation of the value.
	String() string

	// Type returns a short string describing the value's type.
	Type() string

	// TypeID returns the identity token of the value's concrete type. It must
	// return the same token for all values of the same type, and should be
	// computed once per type, not per call.
	TypeID() hashing.TypeID
}

// A Cloner is a Value that holds mutable state and must be copied when it
// is bound into a new owner (e.g. when curried arguments are passed to a
// call). Values that do not implement Cloner are copied by assignment.
type Cloner interface {
	Value
	Clone() Value
}

// An Indexable is a sequence of known length that supports efficient random
// access.
type Indexable interface {
	Value
	// Index returns the value at the specified index, which must satisfy 0 <= i
	// < Len().
	Index(i int) Value
	Len() int
}

// A HasSetIndex is an Indexable value whose elements may be assigned (x[i] =
// y).
type HasSetIndex interface {
	Indexable
	SetIndex(index int, v Value) error
}

// An Iterable abstracts a sequence of values. An iterable value may be
// iterated over.
type Iterable interface {
	Value
	// Iterate returns an Iterator. It must be followed by call to Iterator.Done.
	Iterate() Iterator
}

// An Iterator provides a sequence of values to the caller. The caller must
// call Done when the iterator is no longer needed. Operations that modify a
// sequence will fail if it has active iterators.
//
// Example usage:
//
//	iter := iterable.Iterate()
//	defer iter.Done()
//	var x Value
//	for iter.Next(&x) {
//		...
//	}
type Iterator interface {
	// If the iterator is exhausted, Next returns false. Otherwise it sets *p to
	// the current element of the sequence, advances the iterator, and returns
	// true.
	Next(p *Value) bool
	// Done must be called on the Iterator once it is no longer needed.
	Done()
}

// Take moves the value out of slot and returns it, leaving Nil in its place.
// A nil value in the slot is returned as Nil.
func Take(slot *Value) Value {
	v := *slot
	*slot = Nil
	if v == nil {
		return Nil
	}
	return v
}

// Clone returns a copy of v suitable to be given to a new owner: the result
// of Clone if v is a Cloner, v itself otherwise.
func Clone(v Value) Value {
	if c, ok := v.(Cloner); ok {
		return c.Clone()
	}
	return v
}

// Cast attempts to downcast v to the type T. T may be a concrete value type
// or an interface implemented by v.
func Cast[T Value](v Value) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

// TypeName returns the name of the type T as reported in errors: the result
// of Type for concrete value types, the Go type name for interfaces. Type
// must not dereference its receiver, as it is called on the zero value
// (possibly a nil pointer).
func TypeName[T Value]() string {
	var zero T
	if v := any(zero); v != nil {
		return v.(Value).Type()
	}
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
