// Package storage implements the Storage component: the on-disk
// workspace layout, the configuration file, and the two system-written
// markdown drop boxes (spec-issues, tbd).
package storage

import (
	"os"
	"path/filepath"

	"github.com/cuggino/cuggino/internal/cerrors"
)

// rootDirName is the workspace-relative root the engine owns exclusively.
const rootDirName = ".cuggino"

// Storage owns the workspace's root directory tree: wip/, spec-issues/,
// backlog/, tbd/, the memory file, and the configuration file.
type Storage struct {
	cwd  string
	root string
}

// New constructs a Storage bound to workspaceRoot, idempotently creating
// the subdirectories .cuggino/{wip,spec-issues,backlog,tbd}. Fails with
// StorageError if any directory cannot be created.
func New(workspaceRoot string) (*Storage, error) {
	root := filepath.Join(workspaceRoot, rootDirName)
	s := &Storage{cwd: workspaceRoot, root: root}

	for _, dir := range []string{s.WipPath(), s.SpecIssuesPath(), s.BacklogPath(), s.TbdPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &cerrors.StorageError{Operation: "init", Err: err}
		}
	}
	return s, nil
}

// Cwd returns the workspace's working directory (the directory
// containing .cuggino/, not .cuggino/ itself).
func (s *Storage) Cwd() string { return s.cwd }

// Root returns the absolute path of .cuggino/.
func (s *Storage) Root() string { return s.root }

// WipPath returns the absolute path of .cuggino/wip.
func (s *Storage) WipPath() string { return filepath.Join(s.root, "wip") }

// SpecIssuesPath returns the absolute path of .cuggino/spec-issues.
func (s *Storage) SpecIssuesPath() string { return filepath.Join(s.root, "spec-issues") }

// BacklogPath returns the absolute path of .cuggino/backlog.
func (s *Storage) BacklogPath() string { return filepath.Join(s.root, "backlog") }

// TbdPath returns the absolute path of .cuggino/tbd.
func (s *Storage) TbdPath() string { return filepath.Join(s.root, "tbd") }

// MemoryPath returns the absolute path of the human-editable memory file.
func (s *Storage) MemoryPath() string { return filepath.Join(s.root, "memory.md") }

// ConfigPath returns the absolute path of the workspace's config file.
func (s *Storage) ConfigPath() string { return configPath(s.cwd) }

// ReadConfig returns the fully-populated configuration record, applying
// defaults for absent or malformed content.
func (s *Storage) ReadConfig() Config {
	return readConfig(s.ConfigPath())
}

// WriteConfig serializes cfg to the workspace's config file.
func (s *Storage) WriteConfig(cfg Config) error {
	return writeConfig(s.ConfigPath(), cfg)
}

// WriteSpecIssue writes content under spec-issues/ with a fresh
// time-ordered filename and returns that filename.
func (s *Storage) WriteSpecIssue(content string) (string, error) {
	return s.writeMarkdown(s.SpecIssuesPath(), "writeSpecIssue", content)
}

// WriteTbdItem writes content under tbd/ with a fresh time-ordered
// filename and returns that filename.
func (s *Storage) WriteTbdItem(content string) (string, error) {
	return s.writeMarkdown(s.TbdPath(), "writeTbdItem", content)
}

func (s *Storage) writeMarkdown(dir, operation, content string) (string, error) {
	filename := newID() + ".md"
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &cerrors.StorageError{Operation: operation, Err: err}
	}
	return filename, nil
}
