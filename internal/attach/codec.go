package attach

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/tag"
)

// Status classifies a decode outcome.
type Status int

const (
	StatusSuccess Status = iota // fully decoded
	StatusPartial               // decoded with warnings; value usable
	StatusFailed                // no usable value
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrKindMismatch is reported by codecs handed a tag of the wrong kind.
var ErrKindMismatch = errors.New("attach: kind mismatch")

func kindError(want tag.Kind, got tag.Tag) error {
	return fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, want, tag.KindOf(got))
}

// Result is the outcome of Codec.Decode.
type Result[T any] struct {
	value  T
	status Status
	err    error
}

// Success wraps a fully decoded value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, status: StatusSuccess}
}

// Partial wraps a usable value decoded with problems described by err.
func Partial[T any](v T, err error) Result[T] {
	return Result[T]{value: v, status: StatusPartial, err: err}
}

// Failure reports that no value could be decoded.
func Failure[T any](err error) Result[T] {
	return Result[T]{status: StatusFailed, err: err}
}

// Status returns the decode outcome.
func (r Result[T]) Status() Status { return r.status }

// Value returns the decoded value; ok is false only for failures.
func (r Result[T]) Value() (v T, ok bool) {
	return r.value, r.status != StatusFailed
}

// Err describes what went wrong for partial and failed results.
func (r Result[T]) Err() error { return r.err }

// Codec converts between T and a Tag.
type Codec[T any] interface {
	Encode(v T) (tag.Tag, error)
	Decode(t tag.Tag) Result[T]
}

// CodecFunc adapts a pair of functions to Codec.
type CodecFunc[T any] struct {
	EncodeFunc func(T) (tag.Tag, error)
	DecodeFunc func(tag.Tag) Result[T]
}

func (c CodecFunc[T]) Encode(v T) (tag.Tag, error) { return c.EncodeFunc(v) }
func (c CodecFunc[T]) Decode(t tag.Tag) Result[T]  { return c.DecodeFunc(t) }

// SetWithCodec encodes v and stores it at key. On encode failure the
// failure is logged and the store is left untouched.
func SetWithCodec[T any](s *Store, h Holder, key string, c Codec[T], v T) {
	t, err := c.Encode(v)
	if err == nil && t == nil {
		err = errors.New("codec produced no tag")
	}
	if err != nil {
		s.logger.Error("failed to encode attachment value", "key", key, "error", err)
		return
	}
	s.put(h, key, t)
}

// GetWithCodec decodes the entry at key. A miss or a failed decode yields
// fallback; a partial decode is logged and its value returned. The stored
// entry is never rewritten.
func GetWithCodec[T any](s *Store, h Holder, key string, c Codec[T], fallback T) T {
	root, ok := s.root(h)
	if !ok {
		return fallback
	}
	t, ok := root.Get(key)
	if !ok {
		return fallback
	}
	res := c.Decode(tag.Copy(t))
	switch res.Status() {
	case StatusSuccess:
		v, _ := res.Value()
		return v
	case StatusPartial:
		s.logger.Warn("attachment value decoded partially", "key", key, "error", res.Err())
		v, _ := res.Value()
		return v
	default:
		s.logger.Error("failed to decode attachment value", "key", key, "error", res.Err())
		return fallback
	}
}

func scalarCodec[T any, V tag.Tag](kind tag.Kind, wrap func(T) V, unwrap func(V) T) Codec[T] {
	return CodecFunc[T]{
		EncodeFunc: func(v T) (tag.Tag, error) { return wrap(v), nil },
		DecodeFunc: func(t tag.Tag) Result[T] {
			v, ok := t.(V)
			if !ok {
				return Failure[T](kindError(kind, t))
			}
			return Success(unwrap(v))
		},
	}
}

// Built-in scalar codecs.
var (
	IntCodec = scalarCodec(tag.KindInt,
		func(v int32) tag.Int { return tag.Int(v) },
		func(t tag.Int) int32 { return int32(t) })
	DoubleCodec = scalarCodec(tag.KindDouble,
		func(v float64) tag.Double { return tag.Double(v) },
		func(t tag.Double) float64 { return float64(t) })
	BoolCodec = scalarCodec(tag.KindBool,
		func(v bool) tag.Bool { return tag.Bool(v) },
		func(t tag.Bool) bool { return bool(t) })
	StringCodec = scalarCodec(tag.KindString,
		func(v string) tag.String { return tag.String(v) },
		func(t tag.String) string { return string(t) })
	UUIDCodec = scalarCodec(tag.KindUUID,
		func(v uuid.UUID) tag.UUID { return tag.UUID(v) },
		func(t tag.UUID) uuid.UUID { return t.Value() })
)

// requireFields fails unless c holds every field with the given kind.
func requireFields(c tag.Compound, kind tag.Kind, fields ...string) error {
	for _, f := range fields {
		if !c.Contains(f, kind) {
			return fmt.Errorf("field %q: %w", f, kindError(kind, c[f]))
		}
	}
	return nil
}

func compoundCodec[T any](encode func(T) tag.Compound, decode func(tag.Compound) (T, error)) Codec[T] {
	return CodecFunc[T]{
		EncodeFunc: func(v T) (tag.Tag, error) { return encode(v), nil },
		DecodeFunc: func(t tag.Tag) Result[T] {
			c, ok := t.(tag.Compound)
			if !ok {
				return Failure[T](kindError(tag.KindCompound, t))
			}
			v, err := decode(c)
			if err != nil {
				return Failure[T](err)
			}
			return Success(v)
		},
	}
}

// Built-in composite codecs. Unlike the lenient Get accessors they require
// every field to be present with the documented kind.
var (
	BlockPosCodec = compoundCodec(blockPosTag, func(c tag.Compound) (BlockPos, error) {
		if err := requireFields(c, tag.KindInt, fieldX, fieldY, fieldZ); err != nil {
			return BlockPos{}, err
		}
		return blockPosFrom(c), nil
	})
	GlobalPosCodec = compoundCodec(globalPosTag, func(c tag.Compound) (GlobalPos, error) {
		if err := requireFields(c, tag.KindInt, fieldX, fieldY, fieldZ); err != nil {
			return GlobalPos{}, err
		}
		return globalPosFrom(c)
	})
	Vec3Codec = compoundCodec(vec3Tag, func(c tag.Compound) (Vec3, error) {
		if err := requireFields(c, tag.KindDouble, fieldX, fieldY, fieldZ); err != nil {
			return Vec3{}, err
		}
		return vec3From(c), nil
	})
	ItemCodec = compoundCodec(itemTag, itemFrom)
)

// ListOf builds a codec for slices from an element codec. Elements that
// fail to decode are dropped and the result is reported as partial.
func ListOf[T any](elem Codec[T]) Codec[[]T] {
	return CodecFunc[[]T]{
		EncodeFunc: func(vs []T) (tag.Tag, error) {
			list := make(tag.List, len(vs))
			for i, v := range vs {
				t, err := elem.Encode(v)
				if err != nil {
					return nil, fmt.Errorf("list[%d]: %w", i, err)
				}
				list[i] = t
			}
			if !list.Homogeneous(list.ElementKind()) {
				return nil, errors.New("list elements encode to mixed kinds")
			}
			return list, nil
		},
		DecodeFunc: func(t tag.Tag) Result[[]T] {
			list, ok := t.(tag.List)
			if !ok {
				return Failure[[]T](kindError(tag.KindList, t))
			}
			out := make([]T, 0, len(list))
			var errs []error
			for i, elemTag := range list {
				res := elem.Decode(elemTag)
				if res.Err() != nil {
					errs = append(errs, fmt.Errorf("list[%d]: %w", i, res.Err()))
				}
				if v, ok := res.Value(); ok {
					out = append(out, v)
				}
			}
			if len(errs) > 0 {
				return Partial(out, errors.Join(errs...))
			}
			return Success(out)
		},
	}
}

// MapOf builds a codec for string-keyed maps stored as a compound. Entries
// that fail to decode are dropped and the result is reported as partial.
func MapOf[T any](elem Codec[T]) Codec[map[string]T] {
	return CodecFunc[map[string]T]{
		EncodeFunc: func(m map[string]T) (tag.Tag, error) {
			c := make(tag.Compound, len(m))
			for k, v := range m {
				t, err := elem.Encode(v)
				if err != nil {
					return nil, fmt.Errorf("entry %q: %w", k, err)
				}
				c.Put(k, t)
			}
			return c, nil
		},
		DecodeFunc: func(t tag.Tag) Result[map[string]T] {
			c, ok := t.(tag.Compound)
			if !ok {
				return Failure[map[string]T](kindError(tag.KindCompound, t))
			}
			out := make(map[string]T, len(c))
			var errs []error
			for _, k := range c.SortedKeys() {
				res := elem.Decode(c[k])
				if res.Err() != nil {
					errs = append(errs, fmt.Errorf("entry %q: %w", k, res.Err()))
				}
				if v, ok := res.Value(); ok {
					out[k] = v
				}
			}
			if len(errs) > 0 {
				return Partial(out, errors.Join(errs...))
			}
			return Success(out)
		},
	}
}
