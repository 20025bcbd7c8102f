package attach

import (
	"github.com/google/uuid"

	"github.com/roach88/itemdata/internal/tag"
)

// RootKey is the namespace key of the store's compound inside an attachment.
const RootKey = "justdirethings"

// Holder is a host object instance that owns an attachment container.
// Attachment must return the same live compound on every call; mutations
// made through it are the instance's state.
type Holder interface {
	Attachment() tag.Compound
}

// Instance is the concrete Holder used by the repository and the CLI:
// an identity plus its attachment container.
type Instance struct {
	ID   uuid.UUID
	data tag.Compound
}

// NewInstance creates an instance with a fresh time-ordered ID and an empty
// attachment.
func NewInstance() *Instance {
	return &Instance{ID: uuid.Must(uuid.NewV7()), data: tag.Compound{}}
}

// RestoreInstance rebuilds an instance from persisted state. The attachment
// is adopted, not copied.
func RestoreInstance(id uuid.UUID, attachment tag.Compound) *Instance {
	if attachment == nil {
		attachment = tag.Compound{}
	}
	return &Instance{ID: id, data: attachment}
}

// Attachment implements Holder.
func (i *Instance) Attachment() tag.Compound {
	if i.data == nil {
		i.data = tag.Compound{}
	}
	return i.data
}

// Clone returns an instance with the same ID and a deep copy of the attachment.
func (i *Instance) Clone() *Instance {
	return &Instance{ID: i.ID, data: i.Attachment().Copy()}
}
