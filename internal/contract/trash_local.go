package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LocalTrashMover implements the TrashMover interface using the freedesktop
// trash layout (Trash/files plus Trash/info) under the user's data directory.
// Files stay recoverable through any desktop trash UI.
type LocalTrashMover struct {
	trashDir string
}

var _ TrashMover = &LocalTrashMover{} // Compile-time check

// NewLocalTrashMover creates a trash mover rooted at the platform default,
// honoring XDG_DATA_HOME when set.
func NewLocalTrashMover() *LocalTrashMover {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// Last resort: a local trash folder next to the working directory.
			return &LocalTrashMover{trashDir: ".lightbox_trash"}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return &LocalTrashMover{trashDir: filepath.Join(dataHome, "Trash")}
}

// NewTrashMoverAt creates a trash mover rooted at an explicit directory.
func NewTrashMoverAt(dir string) *LocalTrashMover {
	return &LocalTrashMover{trashDir: dir}
}

// Available reports whether the trash directories exist or can be created.
func (m *LocalTrashMover) Available() bool {
	return m.ensureDirs() == nil
}

// Move sends one file to the trash. The target keeps its base name, with a
// numeric suffix when that name is already taken.
func (m *LocalTrashMover) Move(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}
	if err := m.ensureDirs(); err != nil {
		return fmt.Errorf("trash location %q is not usable: %w", m.trashDir, err)
	}

	name := m.uniqueName(filepath.Base(abs))
	target := filepath.Join(m.filesDir(), name)

	// The .trashinfo record goes first so the file is never orphaned.
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		abs, time.Now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(m.infoDir(), name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("cannot write trash record for %q: %w", path, err)
	}

	if err := os.Rename(abs, target); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("cannot move %q to trash: %w", path, err)
	}
	return nil
}

func (m *LocalTrashMover) filesDir() string {
	return filepath.Join(m.trashDir, "files")
}

func (m *LocalTrashMover) infoDir() string {
	return filepath.Join(m.trashDir, "info")
}

func (m *LocalTrashMover) ensureDirs() error {
	if err := os.MkdirAll(m.filesDir(), 0o700); err != nil {
		return err
	}
	return os.MkdirAll(m.infoDir(), 0o700)
}

// uniqueName returns base, or base.N for the first free N, checking both the
// files and info directories.
func (m *LocalTrashMover) uniqueName(base string) string {
	name := base
	for i := 1; ; i++ {
		_, errFile := os.Stat(filepath.Join(m.filesDir(), name))
		_, errInfo := os.Stat(filepath.Join(m.infoDir(), name+".trashinfo"))
		if os.IsNotExist(errFile) && os.IsNotExist(errInfo) {
			return name
		}
		name = base + "." + strconv.Itoa(i)
	}
}
