package dupe

import (
	"errors"
	"testing"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func twoMemberGroup() *schema.DuplicateGroup {
	return &schema.DuplicateGroup{
		Hash:  "abc123",
		Size:  1024,
		Files: []string{"/photos/a.jpg", "/photos/b.jpg"},
	}
}

func TestDeleteTrashesMember(t *testing.T) {
	trash := &contract.MockTrashMover{}
	trash.On("Available").Return(true)
	trash.On("Move", "/photos/a.jpg").Return(nil)
	deleter := NewDeleter(trash)
	group := twoMemberGroup()

	outcome, err := deleter.Delete(group, "/photos/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, schema.DeleteTrashed, outcome)
	assert.Equal(t, []string{"/photos/b.jpg"}, group.Files)
	trash.AssertExpectations(t)
}

func TestDeleteLastMemberRefused(t *testing.T) {
	trash := &contract.MockTrashMover{}
	trash.On("Available").Return(true)
	trash.On("Move", "/photos/a.jpg").Return(nil)
	deleter := NewDeleter(trash)
	group := twoMemberGroup()

	// Deleting down to one member is fine; deleting the survivor is not.
	outcome, err := deleter.Delete(group, "/photos/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, schema.DeleteTrashed, outcome)

	outcome, err = deleter.Delete(group, "/photos/b.jpg")
	assert.Equal(t, schema.DeleteRejected, outcome)

	var wouldEmpty *schema.WouldEmptyGroupError
	require.ErrorAs(t, err, &wouldEmpty)
	assert.Equal(t, "/photos/b.jpg", wouldEmpty.Path)
	assert.Equal(t, []string{"/photos/b.jpg"}, group.Files, "the group keeps its last member")
	trash.AssertNotCalled(t, "Move", "/photos/b.jpg")
}

func TestDeleteTrashFailure(t *testing.T) {
	moveErr := errors.New("cross-device rename refused")
	trash := &contract.MockTrashMover{}
	trash.On("Available").Return(true)
	trash.On("Move", "/photos/a.jpg").Return(moveErr)
	deleter := NewDeleter(trash)
	group := twoMemberGroup()

	outcome, err := deleter.Delete(group, "/photos/a.jpg")
	assert.Equal(t, schema.DeleteTrashFailed, outcome)

	var unavailable *schema.TrashUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, moveErr)
	assert.Len(t, group.Files, 2, "a failed move must not shrink the group")
}

func TestDeleteTrashUnavailable(t *testing.T) {
	trash := &contract.MockTrashMover{}
	trash.On("Available").Return(false)
	deleter := NewDeleter(trash)
	group := twoMemberGroup()

	outcome, err := deleter.Delete(group, "/photos/a.jpg")
	assert.Equal(t, schema.DeleteTrashFailed, outcome)

	var unavailable *schema.TrashUnavailableError
	require.ErrorAs(t, err, &unavailable)
	trash.AssertNotCalled(t, "Move", mock.Anything)
}

func TestDeleteSweepKeepsOneSurvivor(t *testing.T) {
	trash := &contract.MockTrashMover{}
	trash.On("Available").Return(true)
	trash.On("Move", mock.Anything).Return(nil)
	deleter := NewDeleter(trash)
	group := &schema.DuplicateGroup{
		Hash:  "abc123",
		Size:  1024,
		Files: []string{"/photos/a.jpg", "/photos/b.jpg", "/photos/c.jpg"},
	}

	// Requesting every member in turn trashes all but the last one.
	trashed := 0
	for _, path := range []string{"/photos/a.jpg", "/photos/b.jpg", "/photos/c.jpg"} {
		outcome, _ := deleter.Delete(group, path)
		if outcome == schema.DeleteTrashed {
			trashed++
		}
	}

	assert.Equal(t, 2, trashed)
	assert.Equal(t, []string{"/photos/c.jpg"}, group.Files)
	trash.AssertNotCalled(t, "Move", "/photos/c.jpg")
}

func TestDeleteNonMember(t *testing.T) {
	deleter := NewDeleter(&contract.MockTrashMover{})
	group := twoMemberGroup()

	outcome, err := deleter.Delete(group, "/photos/stranger.jpg")
	assert.Equal(t, schema.DeleteRejected, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a member")
}
