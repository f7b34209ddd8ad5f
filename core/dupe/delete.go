package dupe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
)

// Deleter moves duplicate group members to the trash, never deleting
// outright. Every request yields a typed outcome alongside the error so
// callers can report partial batches precisely.
type Deleter struct {
	trash contract.TrashMover
}

// NewDeleter builds a deleter over the given trash capability.
func NewDeleter(trash contract.TrashMover) *Deleter {
	return &Deleter{trash: trash}
}

// Delete moves one member of a group to the trash and drops it from the
// group. The last member of a group is never deleted; a group must keep at
// least one copy of the content it identifies.
func (d *Deleter) Delete(group *schema.DuplicateGroup, path string) (schema.DeleteOutcome, error) {
	idx := slices.Index(group.Files, path)
	if idx < 0 {
		return schema.DeleteRejected, fmt.Errorf("%q is not a member of duplicate group %s", path, group.Hash)
	}
	if len(group.Files) <= 1 {
		return schema.DeleteRejected, &schema.WouldEmptyGroupError{Path: path, Hash: group.Hash}
	}

	if d.trash == nil || !d.trash.Available() {
		return schema.DeleteTrashFailed, &schema.TrashUnavailableError{
			Path:   path,
			Reason: errors.New("trash is not available on this system"),
		}
	}
	if err := d.trash.Move(path); err != nil {
		return schema.DeleteTrashFailed, &schema.TrashUnavailableError{Path: path, Reason: err}
	}

	group.Files = slices.Delete(group.Files, idx, idx+1)
	return schema.DeleteTrashed, nil
}
