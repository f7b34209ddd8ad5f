package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMetadataDecoder is a mock implementation of MetadataDecoder for testing.
type MockMetadataDecoder struct {
	mock.Mock
}

var _ MetadataDecoder = &MockMetadataDecoder{} // Compile-time check

// Available implements the MetadataDecoder interface.
func (m *MockMetadataDecoder) Available() bool {
	ret := m.Called()
	return ret.Bool(0)
}

// Decode implements the MetadataDecoder interface.
func (m *MockMetadataDecoder) Decode(ctx context.Context, path string) (map[string]any, error) {
	ret := m.Called(ctx, path)
	tags, _ := ret.Get(0).(map[string]any)
	return tags, ret.Error(1)
}

// MockTrashMover is a mock implementation of TrashMover for testing.
type MockTrashMover struct {
	mock.Mock
}

var _ TrashMover = &MockTrashMover{} // Compile-time check

// Available implements the TrashMover interface.
func (m *MockTrashMover) Available() bool {
	ret := m.Called()
	return ret.Bool(0)
}

// Move implements the TrashMover interface.
func (m *MockTrashMover) Move(path string) error {
	ret := m.Called(path)
	return ret.Error(0)
}
