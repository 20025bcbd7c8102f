package attach

import (
	"fmt"

	"github.com/roach88/itemdata/internal/resource"
	"github.com/roach88/itemdata/internal/tag"
)

// ItemRef references an item stack held inside another instance's data:
// an item id, a count and optional per-stack components.
type ItemRef struct {
	ID         resource.Location
	Count      int32
	Components tag.Compound
}

// EmptyItem is the canonical empty reference.
var EmptyItem = ItemRef{}

var air = resource.Location{Namespace: resource.DefaultNamespace, Path: "air"}

// NewItem builds a reference to count items of id.
func NewItem(id resource.Location, count int32) ItemRef {
	return ItemRef{ID: id, Count: count}
}

// IsEmpty reports whether the reference holds nothing: no id, air, or a
// non-positive count.
func (r ItemRef) IsEmpty() bool {
	return r.ID.IsZero() || r.ID == air || r.Count <= 0
}

// Equal compares ids, counts and components.
func (r ItemRef) Equal(o ItemRef) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return r.IsEmpty() == o.IsEmpty()
	}
	if r.ID != o.ID || r.Count != o.Count {
		return false
	}
	if len(r.Components) == 0 || len(o.Components) == 0 {
		return len(r.Components) == len(o.Components)
	}
	return tag.Equal(r.Components, o.Components)
}

func (r ItemRef) String() string {
	if r.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%dx %s", r.Count, r.ID)
}

func itemTag(r ItemRef) tag.Compound {
	if r.IsEmpty() {
		return tag.Compound{}
	}
	c := tag.Compound{
		fieldID:    tag.String(r.ID.String()),
		fieldCount: tag.Int(r.Count),
	}
	if len(r.Components) > 0 {
		c.Put(fieldComponents, r.Components.Copy())
	}
	return c
}

// itemFrom decodes an item compound. An empty compound is the empty item.
// A missing count means one item.
func itemFrom(c tag.Compound) (ItemRef, error) {
	if len(c) == 0 {
		return EmptyItem, nil
	}
	if !c.Contains(fieldID, tag.KindString) {
		return EmptyItem, fmt.Errorf("missing %q field", fieldID)
	}
	id, err := resource.Parse(c.GetString(fieldID))
	if err != nil {
		return EmptyItem, err
	}
	count := int32(1)
	if c.Contains(fieldCount, tag.KindInt) {
		count = c.GetInt(fieldCount)
	}
	ref := ItemRef{ID: id, Count: count}
	if comps, ok := c.GetCompound(fieldComponents); ok && len(comps) > 0 {
		ref.Components = comps.Copy()
	}
	if ref.IsEmpty() {
		return EmptyItem, nil
	}
	return ref, nil
}

// SetItem stores r at key. Writing an empty reference removes the key.
func (s *Store) SetItem(h Holder, key string, r ItemRef) {
	if r.IsEmpty() {
		s.Remove(h, key)
		return
	}
	s.put(h, key, itemTag(r))
}

// GetItem returns the reference at key, or EmptyItem when absent. A stored
// blob that does not decode is logged and reads as EmptyItem.
func (s *Store) GetItem(h Holder, key string) ItemRef {
	t, ok := s.lookup(h, key, tag.KindCompound)
	if !ok {
		return EmptyItem
	}
	ref, err := itemFrom(t.(tag.Compound))
	if err != nil {
		s.logger.Warn("invalid item stored", "key", key, "error", err)
		return EmptyItem
	}
	return ref
}
