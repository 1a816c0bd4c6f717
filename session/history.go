package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ActionKind enumerates the reversible mutations the history records.
type ActionKind string

const (
	ActionEdit   ActionKind = "edit"
	ActionCreate ActionKind = "create"
	ActionDelete ActionKind = "delete"
	ActionRename ActionKind = "rename"
)

// Action is one recorded filesystem mutation. Before and After carry enough
// content to replay the action in either direction.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Path    string     `json:"path"`
	NewPath string     `json:"new_path,omitempty"`
	Before  []string   `json:"before,omitempty"`
	After   []string   `json:"after,omitempty"`
}

// HistoryError indicates the filesystem no longer matches what an undo or
// redo expects: the file changed, disappeared, or reappeared since the
// action was recorded.
type HistoryError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *HistoryError) Error() string {
	return fmt.Sprintf("history: %s: %s", e.Path, e.Reason)
}

func historyErr(path, format string, args ...any) *HistoryError {
	return &HistoryError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// History is the append-only log of applied edit batches. Undo pops the most
// recent batch and replays its actions in reverse; redo replays an undone
// batch forward again. Appending a new batch discards the redo tail.
//
// Safe for concurrent use; appends are serialized.
type History struct {
	mu      sync.Mutex
	batches [][]Action
	cursor  int // batches[:cursor] are applied
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records one applied batch.
func (h *History) Append(batch []Action) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches[:h.cursor], batch)
	h.cursor = len(h.batches)
}

// Len returns the number of applied batches.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Batches returns a copy of all recorded batches, applied and undone.
func (h *History) Batches() [][]Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]Action, len(h.batches))
	copy(out, h.batches)
	return out
}

// CanUndo reports whether an applied batch remains to undo.
func (h *History) CanUndo() bool {
	return h.Len() > 0
}

// CanRedo reports whether an undone batch remains to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.batches)
}

// Undo reverses the most recent applied batch. On a HistoryError the cursor
// is left unmoved and the filesystem may be partially reverted; the error
// names the file that diverged.
func (h *History) Undo(ws Workspace) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == 0 {
		return historyErr("", "nothing to undo")
	}
	batch := h.batches[h.cursor-1]
	for i := len(batch) - 1; i >= 0; i-- {
		if err := undoAction(ws, batch[i]); err != nil {
			return err
		}
	}
	h.cursor--
	return nil
}

// Redo re-applies the most recently undone batch.
func (h *History) Redo(ws Workspace) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == len(h.batches) {
		return historyErr("", "nothing to redo")
	}
	batch := h.batches[h.cursor]
	for _, act := range batch {
		if err := redoAction(ws, act); err != nil {
			return err
		}
	}
	h.cursor++
	return nil
}

func undoAction(ws Workspace, act Action) error {
	switch act.Kind {
	case ActionEdit:
		if err := verifyContent(ws, act.Path, act.After); err != nil {
			return err
		}
		return ws.WriteLines(act.Path, act.Before)

	case ActionCreate:
		if err := verifyContent(ws, act.Path, act.After); err != nil {
			return err
		}
		return ws.Delete(act.Path)

	case ActionDelete:
		if ws.OnDisk(act.Path) {
			return historyErr(act.Path, "file reappeared since it was deleted")
		}
		return ws.Create(act.Path, act.Before)

	case ActionRename:
		if ws.OnDisk(act.Path) {
			return historyErr(act.Path, "original path is occupied")
		}
		return ws.Rename(act.NewPath, act.Path)
	}
	return historyErr(act.Path, "unknown action kind %q", act.Kind)
}

func redoAction(ws Workspace, act Action) error {
	switch act.Kind {
	case ActionEdit:
		if err := verifyContent(ws, act.Path, act.Before); err != nil {
			return err
		}
		return ws.WriteLines(act.Path, act.After)

	case ActionCreate:
		if ws.OnDisk(act.Path) {
			return historyErr(act.Path, "file already exists")
		}
		return ws.Create(act.Path, act.After)

	case ActionDelete:
		if err := verifyContent(ws, act.Path, act.Before); err != nil {
			return err
		}
		return ws.Delete(act.Path)

	case ActionRename:
		if ws.OnDisk(act.NewPath) {
			return historyErr(act.NewPath, "rename target is occupied")
		}
		return ws.Rename(act.Path, act.NewPath)
	}
	return historyErr(act.Path, "unknown action kind %q", act.Kind)
}

// verifyContent checks that a file's current content is what the history
// recorded before replaying over it.
func verifyContent(ws Workspace, path string, want []string) error {
	if !ws.OnDisk(path) {
		return historyErr(path, "file is gone")
	}
	if modified, err := ws.Modified(path); err != nil {
		return historyErr(path, "unreadable: %v", err)
	} else if modified {
		return historyErr(path, "content diverged since it was recorded")
	}
	got, err := ws.ReadFile(path)
	if err != nil {
		return historyErr(path, "unreadable: %v", err)
	}
	if len(got) != len(want) {
		return historyErr(path, "content diverged since it was recorded")
	}
	for i := range got {
		if got[i] != want[i] {
			return historyErr(path, "content diverged since it was recorded")
		}
	}
	return nil
}

// persisted is the on-disk shape of a history file.
type persisted struct {
	Batches [][]Action `json:"batches"`
	Cursor  int        `json:"cursor"`
}

// Save writes the history as JSON.
func (h *History) Save(path string) error {
	h.mu.Lock()
	p := persisted{Batches: h.batches, Cursor: h.cursor}
	h.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// LoadHistory reads a history saved by Save.
func LoadHistory(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if p.Cursor < 0 || p.Cursor > len(p.Batches) {
		return nil, fmt.Errorf("decode history: cursor %d out of range", p.Cursor)
	}
	return &History{batches: p.Batches, cursor: p.Cursor}, nil
}
