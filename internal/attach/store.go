package attach

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/tag"
)

// Store reads and writes typed entries in a Holder's attachment root.
// It holds no per-instance state; all data lives in the Holder.
type Store struct {
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes diagnostics (malformed composites, codec failures) to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store. Diagnostics go to slog.Default() unless WithLogger
// is given.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// root returns the existing root compound without creating it.
func (s *Store) root(h Holder) (tag.Compound, bool) {
	attachment := h.Attachment()
	if attachment == nil {
		return nil, false
	}
	return attachment.GetCompound(RootKey)
}

// ensureRoot returns the root compound, attaching an empty one if absent.
// A non-compound value squatting on RootKey is replaced.
func (s *Store) ensureRoot(h Holder) tag.Compound {
	attachment := h.Attachment()
	if attachment == nil {
		// Holder contract violated; the write lands in a detached compound.
		s.logger.Error("holder returned nil attachment; write dropped")
		return tag.Compound{}
	}
	if root, ok := attachment.GetCompound(RootKey); ok {
		return root
	}
	root := tag.Compound{}
	attachment.Put(RootKey, root)
	return root
}

// lookup is the single guarded read path: it yields the entry at key only
// when the root exists and the entry has exactly the wanted kind.
func (s *Store) lookup(h Holder, key string, kind tag.Kind) (tag.Tag, bool) {
	root, ok := s.root(h)
	if !ok {
		return nil, false
	}
	t, ok := root.Get(key)
	if !ok || t.Kind() != kind {
		return nil, false
	}
	return t, true
}

func (s *Store) put(h Holder, key string, t tag.Tag) {
	s.ensureRoot(h).Put(key, t)
}

// SetInt stores an integer at key.
func (s *Store) SetInt(h Holder, key string, v int32) {
	s.put(h, key, tag.Int(v))
}

// GetInt returns the integer at key, or fallback.
func (s *Store) GetInt(h Holder, key string, fallback int32) int32 {
	if t, ok := s.lookup(h, key, tag.KindInt); ok {
		return int32(t.(tag.Int))
	}
	return fallback
}

// SetDouble stores a double at key.
func (s *Store) SetDouble(h Holder, key string, v float64) {
	s.put(h, key, tag.Double(v))
}

// GetDouble returns the double at key, or fallback.
func (s *Store) GetDouble(h Holder, key string, fallback float64) float64 {
	if t, ok := s.lookup(h, key, tag.KindDouble); ok {
		return float64(t.(tag.Double))
	}
	return fallback
}

// SetBool stores a boolean at key.
func (s *Store) SetBool(h Holder, key string, v bool) {
	s.put(h, key, tag.Bool(v))
}

// GetBool returns the boolean at key, or fallback.
func (s *Store) GetBool(h Holder, key string, fallback bool) bool {
	if t, ok := s.lookup(h, key, tag.KindBool); ok {
		return bool(t.(tag.Bool))
	}
	return fallback
}

// ToggleBool negates the boolean at key (fallback when absent), stores the
// result and returns it. Not atomic.
func (s *Store) ToggleBool(h Holder, key string, fallback bool) bool {
	updated := !s.GetBool(h, key, fallback)
	s.SetBool(h, key, updated)
	return updated
}

// SetString stores a string at key.
func (s *Store) SetString(h Holder, key, v string) {
	s.put(h, key, tag.String(v))
}

// GetString returns the string at key, or fallback.
func (s *Store) GetString(h Holder, key, fallback string) string {
	if t, ok := s.lookup(h, key, tag.KindString); ok {
		return string(t.(tag.String))
	}
	return fallback
}

// SetUUID stores a UUID at key.
func (s *Store) SetUUID(h Holder, key string, v uuid.UUID) {
	s.put(h, key, tag.UUID(v))
}

// GetUUID returns the UUID at key, or fallback (which may be uuid.Nil).
func (s *Store) GetUUID(h Holder, key string, fallback uuid.UUID) uuid.UUID {
	if t, ok := s.lookup(h, key, tag.KindUUID); ok {
		return t.(tag.UUID).Value()
	}
	return fallback
}

// Has reports whether key is present with any kind.
func (s *Store) Has(h Holder, key string) bool {
	root, ok := s.root(h)
	return ok && root.Has(key)
}

// Remove deletes key. It is a no-op when the root does not exist and never
// creates it.
func (s *Store) Remove(h Holder, key string) {
	if root, ok := s.root(h); ok {
		root.Remove(key)
	}
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys(h Holder) []string {
	root, ok := s.root(h)
	if !ok {
		return []string{}
	}
	return root.SortedKeys()
}

// Root returns a deep copy of the root compound, if it exists.
func (s *Store) Root(h Holder) (tag.Compound, bool) {
	root, ok := s.root(h)
	if !ok {
		return nil, false
	}
	return root.Copy(), true
}

// Raw returns a deep copy of the entry at key regardless of its kind.
func (s *Store) Raw(h Holder, key string) (tag.Tag, bool) {
	root, ok := s.root(h)
	if !ok {
		return nil, false
	}
	t, ok := root.Get(key)
	if !ok {
		return nil, false
	}
	return tag.Copy(t), true
}

// SetRaw stores a deep copy of t at key. A nil tag removes the key.
func (s *Store) SetRaw(h Holder, key string, t tag.Tag) {
	if t == nil {
		s.Remove(h, key)
		return
	}
	s.put(h, key, tag.Copy(t))
}
