package store

import (
	"fmt"

	"github.com/roach88/itemdata/internal/tag"
)

// rootName is the root tag name of stored attachment blobs.
const rootName = "attachment"

// marshalAttachment returns the binary form and content hash of c.
func marshalAttachment(c tag.Compound) ([]byte, string, error) {
	if c == nil {
		c = tag.Compound{}
	}
	data, err := tag.Marshal(rootName, c)
	if err != nil {
		return nil, "", fmt.Errorf("marshal attachment: %w", err)
	}
	hash, err := tag.Hash(c)
	if err != nil {
		return nil, "", fmt.Errorf("marshal attachment: %w", err)
	}
	return data, hash, nil
}

// unmarshalAttachment decodes a stored blob. The root must be a compound.
func unmarshalAttachment(data []byte) (tag.Compound, error) {
	_, t, err := tag.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	c, ok := t.(tag.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: root is %s, want compound", ErrCorrupt, tag.KindOf(t))
	}
	return c, nil
}
