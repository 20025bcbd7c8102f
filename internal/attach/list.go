package attach

import "github.com/roach88/itemdata/internal/tag"

// SetCompound stores a deep copy of c at key.
func (s *Store) SetCompound(h Holder, key string, c tag.Compound) {
	if c == nil {
		c = tag.Compound{}
	}
	s.put(h, key, c.Copy())
}

// GetCompound returns a deep copy of the compound at key, or an empty
// compound.
func (s *Store) GetCompound(h Holder, key string) tag.Compound {
	if t, ok := s.lookup(h, key, tag.KindCompound); ok {
		return t.(tag.Compound).Copy()
	}
	return tag.Compound{}
}

// SetStringList stores entries in order.
func (s *Store) SetStringList(h Holder, key string, entries []string) {
	list := make(tag.List, len(entries))
	for i, e := range entries {
		list[i] = tag.String(e)
	}
	s.put(h, key, list)
}

// GetStringList returns the strings at key in stored order. A miss, a
// non-list entry, or a list of anything but strings yields an empty slice.
func (s *Store) GetStringList(h Holder, key string) []string {
	list := s.GetList(h, key, tag.KindString)
	out := make([]string, len(list))
	for i, elem := range list {
		out[i] = string(elem.(tag.String))
	}
	return out
}

// SetList stores a deep copy of list at key. A list whose elements differ
// in kind is held in memory but cannot be persisted in the binary form.
func (s *Store) SetList(h Holder, key string, list tag.List) {
	s.put(h, key, list.Copy())
}

// GetList returns a deep copy of the list at key when every element has
// elemKind. An empty stored list matches any element kind. Anything else
// yields an empty list.
func (s *Store) GetList(h Holder, key string, elemKind tag.Kind) tag.List {
	t, ok := s.lookup(h, key, tag.KindList)
	if !ok {
		return tag.List{}
	}
	list := t.(tag.List)
	if !list.Homogeneous(elemKind) {
		return tag.List{}
	}
	return list.Copy()
}
