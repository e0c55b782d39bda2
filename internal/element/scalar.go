package element

import "github.com/google/uuid"

// Number is the set of scalar kinds that widen-but-never-truncate under
// coercion (spec §3.1 invariant). Only used to constrain the increment
// helpers below; Scalar itself is generic over any value type.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Scalar is a typed leaf node: one of the signed/unsigned integer widths,
// float, double, string, Mac, uuid.UUID, or byte-blob variants of spec
// §3.1. Kind is fixed at construction and never changes (the type-immutable
// invariant).
type Scalar[T any] struct {
	Base
	val T
}

func newScalar[T any](id FieldID, name string, kind Kind, zero T) *Scalar[T] {
	s := &Scalar[T]{Base: newBase(id, name, kind)}
	s.val = zero
	return s
}

// Get returns the current value.
func (s *Scalar[T]) Get() T { return s.val }

// Set replaces the value and marks the node dirty.
func (s *Scalar[T]) Set(v T) {
	s.val = v
	s.dirty = true
}

// Add increments a numeric scalar by delta and marks it dirty. Kept as a
// free function (not a method) because Go forbids adding a type parameter
// to a method not already on the generic type's parameter list.
func Add[T Number](s *Scalar[T], delta T) {
	s.val += delta
	s.dirty = true
}

// Inc increments a numeric scalar by one.
func Inc[T Number](s *Scalar[T]) {
	Add(s, T(1))
}

// newScalarOrContainer builds the zero-valued node for a registered
// scalar/container Kind. Centralized here so Registry.GetInstance stays a
// single switch regardless of how many concrete Go types back each Kind.
func newScalarOrContainer(id FieldID, name string, kind Kind) Node {
	switch kind {
	case KindInt8:
		return newScalar[int8](id, name, kind, 0)
	case KindUint8:
		return newScalar[uint8](id, name, kind, 0)
	case KindInt16:
		return newScalar[int16](id, name, kind, 0)
	case KindUint16:
		return newScalar[uint16](id, name, kind, 0)
	case KindInt32:
		return newScalar[int32](id, name, kind, 0)
	case KindUint32:
		return newScalar[uint32](id, name, kind, 0)
	case KindInt64:
		return newScalar[int64](id, name, kind, 0)
	case KindUint64:
		return newScalar[uint64](id, name, kind, 0)
	case KindFloat32:
		return newScalar[float32](id, name, kind, 0)
	case KindFloat64:
		return newScalar[float64](id, name, kind, 0)
	case KindString:
		return newScalar[string](id, name, kind, "")
	case KindMac:
		return newScalar[Mac](id, name, kind, 0)
	case KindUUID:
		return newScalar[uuid.UUID](id, name, kind, uuid.UUID{})
	case KindBytes:
		return newScalar[[]byte](id, name, kind, nil)
	case KindMap:
		return NewOrderedMap(id, name)
	case KindIntMap:
		return NewIntMap(id, name)
	case KindMacMap:
		return NewMacMap(id, name)
	case KindDoubleMap:
		return NewDoubleMap(id, name)
	case KindSlice:
		return NewSlice(id, name)
	case KindSet:
		return NewSet(id, name)
	default:
		return nil
	}
}
