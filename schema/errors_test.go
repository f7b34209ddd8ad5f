package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnreadableFileError(t *testing.T) {
	cause := fs.ErrNotExist
	err := fmt.Errorf("reading metadata: %w", &UnreadableFileError{Path: "a.jpg", Reason: cause})

	// The typed error survives wrapping.
	var unreadable *UnreadableFileError
	assert.True(t, errors.As(err, &unreadable), "errors.As should find UnreadableFileError through wrapping")
	assert.Equal(t, "a.jpg", unreadable.Path)

	// The original cause survives unwrapping.
	assert.True(t, errors.Is(err, fs.ErrNotExist), "errors.Is should find the underlying cause")

	// Message includes both path and reason.
	assert.Contains(t, unreadable.Error(), "a.jpg")
	assert.Contains(t, unreadable.Error(), "file does not exist")
}

func TestUnreadableFileErrorWithoutReason(t *testing.T) {
	err := &UnreadableFileError{Path: "b.nef"}
	assert.Contains(t, err.Error(), "b.nef")
	assert.Nil(t, err.Unwrap(), "Unwrap should return nil when there is no cause")
}

func TestTrashUnavailableError(t *testing.T) {
	err := &TrashUnavailableError{Path: "dup.jpg", Reason: errors.New("no trash directory")}

	var trash *TrashUnavailableError
	assert.True(t, errors.As(error(err), &trash), "errors.As should match TrashUnavailableError")
	assert.Contains(t, err.Error(), "dup.jpg")
	assert.Contains(t, err.Error(), "no trash directory")
}

func TestWouldEmptyGroupError(t *testing.T) {
	err := &WouldEmptyGroupError{Path: "last.jpg", Hash: "abc123"}

	var empty *WouldEmptyGroupError
	assert.True(t, errors.As(error(err), &empty), "errors.As should match WouldEmptyGroupError")
	assert.Contains(t, err.Error(), "last.jpg")
	assert.Contains(t, err.Error(), "abc123")
}
