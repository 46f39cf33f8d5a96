// Package session implements the Session component: the five
// per-loop-run scratch files under .cuggino/wip/<id>.*, and the cleanup
// that removes them on any exit path. Go has no scope-finalizer
// construct, so cleanup here is the explicit Close method callers defer
// immediately after New.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cuggino/cuggino/internal/cerrors"
)

// Session owns the wip/<id>.* fileset for the lifetime of one loop run.
type Session struct {
	id  string
	dir string
}

// New materializes the empty transcript file for a fresh session id
// under wipDir. Callers should defer Close immediately.
func New(wipDir, id string) (*Session, error) {
	s := &Session{id: id, dir: wipDir}
	if err := os.WriteFile(s.TranscriptPath(), nil, 0o644); err != nil {
		return nil, &cerrors.SessionError{Operation: "new", SessionID: id, Err: err}
	}
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) path(suffix string) string {
	return filepath.Join(s.dir, s.id+suffix)
}

// TranscriptPath returns the transcript file's path.
func (s *Session) TranscriptPath() string { return s.path(".md") }

// ReviewPath returns the review file's path.
func (s *Session) ReviewPath() string { return s.path(".review.md") }

// TempPlanPath returns the temp plan file's path.
func (s *Session) TempPlanPath() string { return s.path(".plan.md") }

// CheckOutputPath returns the check-command output file's path.
func (s *Session) CheckOutputPath() string { return s.path(".check.txt") }

// SetupOutputPath returns the setup-command output file's path.
func (s *Session) SetupOutputPath() string { return s.path(".setup.txt") }

// AppendMarker reads the transcript, appends a block formatted
// `\n## <ISO-local timestamp> (<TAG>)\n\n<content>\n`, and writes it
// back. Concurrent appends are not made atomic: only the loop writes
// here, and phases run serially.
func (s *Session) AppendMarker(tag, content string) error {
	existing, err := os.ReadFile(s.TranscriptPath())
	if err != nil {
		return &cerrors.SessionError{Operation: "appendMarker", SessionID: s.id, Err: err}
	}
	ts := time.Now().Format("2006-01-02T15:04:05")
	block := fmt.Sprintf("\n## %s (%s)\n\n%s\n", ts, tag, content)
	if err := os.WriteFile(s.TranscriptPath(), append(existing, block...), 0o644); err != nil {
		return &cerrors.SessionError{Operation: "appendMarker", SessionID: s.id, Err: err}
	}
	return nil
}

// WriteReview writes text to the review file, overwriting any prior
// content.
func (s *Session) WriteReview(text string) error {
	if err := os.WriteFile(s.ReviewPath(), []byte(text), 0o644); err != nil {
		return &cerrors.SessionError{Operation: "writeReview", SessionID: s.id, Err: err}
	}
	return nil
}

// ClearReview removes the review file, ignoring a missing-file error.
func (s *Session) ClearReview() error {
	if err := os.Remove(s.ReviewPath()); err != nil && !os.IsNotExist(err) {
		return &cerrors.SessionError{Operation: "clearReview", SessionID: s.id, Err: err}
	}
	return nil
}

// ReadReview returns the review file's content and whether it exists.
func (s *Session) ReadReview() (string, bool, error) {
	body, err := os.ReadFile(s.ReviewPath())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &cerrors.SessionError{Operation: "readReview", SessionID: s.id, Err: err}
	}
	return string(body), true, nil
}

// CommitTempPlan reads the temp plan, overwrites the transcript with
// `<plan>\n\n# Progress Log\n`, and deletes the temp plan. A missing temp
// plan is treated as an empty plan. This ordering matters: the planner
// writes the temp plan, CommitTempPlan moves it into the transcript, and
// only then does the implementer read the transcript.
func (s *Session) CommitTempPlan() error {
	plan, err := os.ReadFile(s.TempPlanPath())
	if err != nil && !os.IsNotExist(err) {
		return &cerrors.SessionError{Operation: "commitTempPlan", SessionID: s.id, Err: err}
	}
	transcript := string(plan) + "\n\n# Progress Log\n"
	if err := os.WriteFile(s.TranscriptPath(), []byte(transcript), 0o644); err != nil {
		return &cerrors.SessionError{Operation: "commitTempPlan", SessionID: s.id, Err: err}
	}
	if err := os.Remove(s.TempPlanPath()); err != nil && !os.IsNotExist(err) {
		return &cerrors.SessionError{Operation: "commitTempPlan", SessionID: s.id, Err: err}
	}
	return nil
}

// Close removes all five per-session files, ignoring missing-file
// errors, on any exit path.
func (s *Session) Close() error {
	for _, p := range []string{
		s.TranscriptPath(), s.ReviewPath(), s.TempPlanPath(),
		s.CheckOutputPath(), s.SetupOutputPath(),
	} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return &cerrors.SessionError{Operation: "close", SessionID: s.id, Err: err}
		}
	}
	return nil
}
