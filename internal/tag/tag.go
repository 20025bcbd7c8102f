package tag

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the variant of a Tag.
// Numeric values match the ids used by the binary form.
type Kind byte

const (
	KindEnd      Kind = 0 // absent / end-of-compound marker
	KindBool     Kind = 1 // stored as a single byte
	KindInt      Kind = 3
	KindDouble   Kind = 6
	KindString   Kind = 8
	KindList     Kind = 9
	KindCompound Kind = 10
	KindUUID     Kind = 11 // stored as an int array of length 4
)

var kindNames = map[Kind]string{
	KindEnd:      "end",
	KindBool:     "bool",
	KindInt:      "int",
	KindDouble:   "double",
	KindString:   "string",
	KindList:     "list",
	KindCompound: "compound",
	KindUUID:     "uuid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// ParseKind resolves a kind by its lowercase name ("int", "double", ...).
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != KindEnd {
			return k, nil
		}
	}
	return KindEnd, fmt.Errorf("unknown tag kind %q", name)
}

// KindNames returns the names accepted by ParseKind in id order.
func KindNames() []string {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		if k != KindEnd {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// Tag is a sealed interface representing a hierarchical tag value.
// Only Int, Double, Bool, String, UUID, List and Compound implement it.
// Absence is represented by a nil Tag (KindEnd).
type Tag interface {
	Kind() Kind
	tag() // Sealed
}

// Int is a 32-bit integer tag.
type Int int32

func (Int) Kind() Kind { return KindInt }
func (Int) tag()       {}

// Double is a 64-bit floating point tag.
type Double float64

func (Double) Kind() Kind { return KindDouble }
func (Double) tag()       {}

// Bool is a boolean tag. The binary form stores it as one byte.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) tag()       {}

// String is a UTF-8 string tag.
type String string

func (String) Kind() Kind { return KindString }
func (String) tag()       {}

// UUID is a 128-bit identifier tag.
type UUID uuid.UUID

func (UUID) Kind() Kind { return KindUUID }
func (UUID) tag()       {}

// Value returns the identifier as a uuid.UUID.
func (u UUID) Value() uuid.UUID { return uuid.UUID(u) }

// List is an ordered sequence of tags.
// Lists are homogeneous only by convention; readers declare the element
// kind they expect and treat a mismatch as absence.
type List []Tag

func (List) Kind() Kind { return KindList }
func (List) tag()       {}

// ElementKind returns the kind of the first element, or KindEnd for an
// empty list.
func (l List) ElementKind() Kind {
	if len(l) == 0 {
		return KindEnd
	}
	return KindOf(l[0])
}

// Homogeneous reports whether every element has the given kind.
// An empty list is homogeneous for any kind.
func (l List) Homogeneous(kind Kind) bool {
	for _, elem := range l {
		if KindOf(elem) != kind {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the list.
func (l List) Copy() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	for i, elem := range l {
		out[i] = Copy(elem)
	}
	return out
}

// Compound maps string keys to tags.
// Use SortedKeys() for deterministic iteration.
type Compound map[string]Tag

func (Compound) Kind() Kind { return KindCompound }
func (Compound) tag()       {}

// Get returns the tag stored at key.
func (c Compound) Get(key string) (Tag, bool) {
	t, ok := c[key]
	return t, ok && t != nil
}

// Has reports whether key is present with any kind.
func (c Compound) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Contains reports whether key is present and holds exactly the given kind.
func (c Compound) Contains(key string, kind Kind) bool {
	t, ok := c.Get(key)
	return ok && t.Kind() == kind
}

// Put stores t at key, replacing any previous entry. A nil tag removes the key.
func (c Compound) Put(key string, t Tag) {
	if t == nil {
		delete(c, key)
		return
	}
	c[key] = t
}

// Remove deletes key. Missing keys are ignored.
func (c Compound) Remove(key string) {
	delete(c, key)
}

// GetInt returns the integer at key, or 0 when absent or of another kind.
func (c Compound) GetInt(key string) int32 {
	if v, ok := c[key].(Int); ok {
		return int32(v)
	}
	return 0
}

// GetDouble returns the double at key, or 0 when absent or of another kind.
func (c Compound) GetDouble(key string) float64 {
	if v, ok := c[key].(Double); ok {
		return float64(v)
	}
	return 0
}

// GetString returns the string at key, or "" when absent or of another kind.
func (c Compound) GetString(key string) string {
	if v, ok := c[key].(String); ok {
		return string(v)
	}
	return ""
}

// GetCompound returns the nested compound at key without copying it.
func (c Compound) GetCompound(key string) (Compound, bool) {
	v, ok := c[key].(Compound)
	return v, ok
}

// SortedKeys returns the keys in byte-wise lexical order.
func (c Compound) SortedKeys() []string {
	keys := make([]string, 0, len(c))
	for k, v := range c {
		if v != nil {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Copy returns a deep copy of the compound.
func (c Compound) Copy() Compound {
	out := make(Compound, len(c))
	for k, v := range c {
		if v != nil {
			out[k] = Copy(v)
		}
	}
	return out
}

// KindOf returns the kind of t, or KindEnd for nil.
func KindOf(t Tag) Kind {
	if t == nil {
		return KindEnd
	}
	return t.Kind()
}

// Copy returns a deep copy of t. Scalars are values and are returned as-is.
func Copy(t Tag) Tag {
	switch v := t.(type) {
	case List:
		return v.Copy()
	case Compound:
		return v.Copy()
	default:
		return t
	}
}

// Equal reports whether a and b are deeply equal.
// Doubles compare by bit pattern so NaN equals itself.
func Equal(a, b Tag) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Double:
		bv, ok := b.(Double)
		return ok && math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Compound:
		bv, ok := b.(Compound)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
