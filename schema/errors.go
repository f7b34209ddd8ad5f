package schema

import "fmt"

// UnreadableFileError means one file could not produce a metadata record.
// It carries enough context for a caller to skip the file and keep going.
type UnreadableFileError struct {
	Path   string
	Reason error
}

func (e *UnreadableFileError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("unreadable file %q", e.Path)
	}
	return fmt.Sprintf("unreadable file %q: %v", e.Path, e.Reason)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Reason
}

// TrashUnavailableError means the platform trash refused a file. The file
// is untouched on disk and its duplicate group is unchanged.
type TrashUnavailableError struct {
	Path   string
	Reason error
}

func (e *TrashUnavailableError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("trash unavailable for %q", e.Path)
	}
	return fmt.Sprintf("trash unavailable for %q: %v", e.Path, e.Reason)
}

func (e *TrashUnavailableError) Unwrap() error {
	return e.Reason
}

// WouldEmptyGroupError means a deletion was refused because it would remove
// the last member of a duplicate group. At least one copy always survives.
type WouldEmptyGroupError struct {
	Path string
	Hash string
}

func (e *WouldEmptyGroupError) Error() string {
	return fmt.Sprintf("refusing to delete %q: last member of duplicate group %s", e.Path, e.Hash)
}
