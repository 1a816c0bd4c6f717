// Package session applies a parsed edit plan to the project: acceptance
// policies, re-validation against current disk state, the filesystem
// mutations, and the reversible history behind undo and redo.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
)

// LockFileName is the advisory lock file kept at the project root while an
// apply batch runs. Two processes applying into the same root serialize on
// it.
const LockFileName = ".editkit.lock"

// ErrLockTimeout indicates another process held the project lock for the
// whole lock timeout.
var ErrLockTimeout = errors.New("timed out waiting for project lock")

const lockPollInterval = 50 * time.Millisecond

// Workspace is the filesystem surface an apply batch mutates. *files.Manager
// implements it.
type Workspace interface {
	Root() string
	ReadFile(path string) ([]string, error)
	Checksum(path string) (string, error)
	Modified(path string) (bool, error)
	WriteLines(path string, lines []string) error
	Create(path string, lines []string) error
	Delete(path string) error
	Rename(oldPath, newPath string) error
	Exists(path string) bool
	OnDisk(path string) bool
}

// Asker decides whether one proposed file edit is applied. Called once per
// FileEdit, in plan order.
type Asker func(fe *edit.FileEdit) bool

// Applier applies parsed responses to a workspace and records them in its
// history. Configure with options; the zero configuration auto-accepts every
// edit and holds no lock.
type Applier struct {
	ws      Workspace
	history *History
	printer display.Printer

	asker       Asker
	confirm     func(path string) bool
	subset      map[int]struct{}
	lockTimeout time.Duration
}

// Option configures an Applier.
type Option func(*Applier)

// WithAsker sets the per-edit acceptance callback. Without one, every edit
// is accepted.
func WithAsker(ask Asker) Option {
	return func(a *Applier) { a.asker = ask }
}

// WithDivergenceConfirm sets the callback consulted when a file's on-disk
// content no longer matches the snapshot the edit was parsed against.
// Without one, diverged files are skipped.
func WithDivergenceConfirm(confirm func(path string) bool) Option {
	return func(a *Applier) { a.confirm = confirm }
}

// WithSubset restricts an apply to the edits at the given indices of the
// response's FileEdits.
func WithSubset(indices ...int) Option {
	return func(a *Applier) {
		a.subset = make(map[int]struct{}, len(indices))
		for _, i := range indices {
			a.subset[i] = struct{}{}
		}
	}
}

// WithProjectLock holds the advisory project-root lock for the duration of
// each apply batch, waiting up to timeout to acquire it.
func WithProjectLock(timeout time.Duration) Option {
	return func(a *Applier) { a.lockTimeout = timeout }
}

// WithPrinter sets the sink for apply notices.
func WithPrinter(p display.Printer) Option {
	return func(a *Applier) { a.printer = p }
}

// WithHistory records applied batches into an existing history instead of a
// fresh one.
func WithHistory(h *History) Option {
	return func(a *Applier) { a.history = h }
}

// NewApplier creates an applier over the workspace.
func NewApplier(ws Workspace, opts ...Option) *Applier {
	a := &Applier{
		ws:      ws,
		history: NewHistory(),
		printer: display.Discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// History returns the applier's edit history.
func (a *Applier) History() *History {
	return a.history
}

// Result summarizes one apply batch. Application is at-least-effort: a
// failing file never rolls back the files applied before it.
type Result struct {
	// Applied lists the target paths written, created, deleted, or
	// renamed.
	Applied []string

	// Skipped lists paths declined by policy, divergence, or validation.
	Skipped []string

	// Errors holds the per-file failures, one entry per skipped-by-error
	// file.
	Errors []error
}

// Apply runs one apply batch over the response's edit plan. Per-file
// failures are reported and collected in the result; only lock acquisition
// and internal invariant violations fail the batch itself.
func (a *Applier) Apply(ctx context.Context, resp *parse.ParsedResponse) (*Result, error) {
	if a.lockTimeout > 0 {
		unlock, err := a.acquireLock(ctx)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	res := &Result{}
	var batch []Action

	for i, fe := range resp.FileEdits {
		if a.subset != nil {
			if _, ok := a.subset[i]; !ok {
				continue
			}
		}
		if a.asker != nil && !a.asker(fe) {
			res.Skipped = append(res.Skipped, fe.FilePath)
			continue
		}

		actions, err := a.applyOne(fe)
		if err != nil {
			if errors.Is(err, edit.ErrInternal) {
				return nil, err
			}
			a.printer.Print(fmt.Sprintf("[not applied] %s: %v\n", fe.FilePath, err), display.StyleError)
			res.Skipped = append(res.Skipped, fe.FilePath)
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", fe.FilePath, err))
			continue
		}
		if actions == nil {
			res.Skipped = append(res.Skipped, fe.FilePath)
			continue
		}
		batch = append(batch, actions...)
		res.Applied = append(res.Applied, fe.TargetPath())
	}

	if len(batch) > 0 {
		a.history.Append(batch)
	}
	return res, nil
}

// applyOne validates and applies a single FileEdit, returning the inverse
// actions for the history. A nil, nil return means the edit was skipped by
// the divergence policy.
func (a *Applier) applyOne(fe *edit.FileEdit) ([]Action, error) {
	if err := fe.Validate(); err != nil {
		return nil, err
	}

	if fe.IsCreation {
		content, err := fe.UpdatedLines()
		if err != nil {
			return nil, err
		}
		if err := a.ws.Create(fe.FilePath, content); err != nil {
			return nil, err
		}
		return []Action{{Kind: ActionCreate, Path: fe.FilePath, After: content}}, nil
	}

	if !a.ws.Exists(fe.FilePath) {
		return nil, fmt.Errorf("file not in context")
	}

	modified, err := a.ws.Modified(fe.FilePath)
	if err != nil {
		return nil, err
	}
	if modified {
		if a.confirm == nil || !a.confirm(fe.FilePath) {
			a.printer.Print(fmt.Sprintf("[not applied] %s: changed on disk since it was read\n", fe.FilePath), display.StyleError)
			return nil, nil
		}
	}

	if fe.IsDeletion {
		before, err := a.ws.ReadFile(fe.FilePath)
		if err != nil {
			return nil, err
		}
		if err := a.ws.Delete(fe.FilePath); err != nil {
			return nil, err
		}
		return []Action{{Kind: ActionDelete, Path: fe.FilePath, Before: before}}, nil
	}

	var actions []Action
	target := fe.FilePath
	if fe.RenamePath != "" {
		if err := a.ws.Rename(fe.FilePath, fe.RenamePath); err != nil {
			return nil, err
		}
		actions = append(actions, Action{Kind: ActionRename, Path: fe.FilePath, NewPath: fe.RenamePath})
		target = fe.RenamePath
	}

	if len(fe.Replacements) > 0 {
		content, err := fe.UpdatedLines()
		if err != nil {
			return nil, err
		}
		if err := a.ws.WriteLines(target, content); err != nil {
			return nil, err
		}
		actions = append(actions, Action{
			Kind:   ActionEdit,
			Path:   target,
			Before: fe.PreviousLines,
			After:  content,
		})
	}
	return actions, nil
}

func (a *Applier) acquireLock(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()

	fl := flock.New(filepath.Join(a.ws.Root(), LockFileName))
	locked, err := fl.TryLockContext(lockCtx, lockPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("acquire project lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	return func() { _ = fl.Unlock() }, nil
}
