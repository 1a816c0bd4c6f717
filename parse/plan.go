package parse

import "github.com/randalmurphal/editkit/edit"

// PlanBuilder accumulates FileEdits as a parser finalizes edits, one
// FileEdit per touched file in first-touch order. It owns the semantic
// validation every format shares: edit targets must be in the known context
// set, creation targets must not already exist.
type PlanBuilder struct {
	sess   *Session
	order  []string
	byPath map[string]*edit.FileEdit
}

// NewPlanBuilder creates an empty builder for one parsing run.
func NewPlanBuilder(sess *Session) *PlanBuilder {
	return &PlanBuilder{
		sess:   sess,
		byPath: make(map[string]*edit.FileEdit),
	}
}

// Edit returns the FileEdit accumulating changes for an existing context
// file, creating it on first touch with the file's snapshot lines.
func (b *PlanBuilder) Edit(path string) (*edit.FileEdit, error) {
	if fe, ok := b.byPath[path]; ok {
		if fe.IsDeletion {
			return nil, Editf(path, "file is already deleted in this response")
		}
		return fe, nil
	}
	if !b.sess.Files.Exists(path) {
		return nil, Editf(path, "file not in context")
	}
	lines, err := b.sess.Files.ReadFile(path)
	if err != nil {
		return nil, Editf(path, "unreadable: %v", err)
	}
	fe := &edit.FileEdit{FilePath: path, PreviousLines: lines}
	b.add(path, fe)
	return fe, nil
}

// Creation starts a FileEdit for a brand-new file. Fails if the path is
// already in context, already on disk, or already touched in this response.
func (b *PlanBuilder) Creation(path string) (*edit.FileEdit, error) {
	if _, ok := b.byPath[path]; ok {
		return nil, Editf(path, "file already touched in this response")
	}
	if b.sess.Files.Exists(path) || b.sess.Files.OnDisk(path) {
		return nil, Editf(path, "file already exists")
	}
	fe := &edit.FileEdit{FilePath: path, IsCreation: true}
	b.add(path, fe)
	return fe, nil
}

// Deletion marks a context file for removal. A deletion overrides any line
// edits the response previously accumulated for the file.
func (b *PlanBuilder) Deletion(path string) error {
	if fe, ok := b.byPath[path]; ok {
		if fe.IsCreation {
			return Editf(path, "file is created earlier in this response")
		}
		fe.IsDeletion = true
		fe.Replacements = nil
		fe.RenamePath = ""
		return nil
	}
	if !b.sess.Files.Exists(path) {
		return Editf(path, "file not in context")
	}
	fe := &edit.FileEdit{FilePath: path, IsDeletion: true}
	b.add(path, fe)
	return nil
}

// Rename records a rename of a context file. The rename target must be
// otherwise untouched: not in context and not on disk.
func (b *PlanBuilder) Rename(path, newPath string) error {
	if b.sess.Files.Exists(newPath) || b.sess.Files.OnDisk(newPath) {
		return Editf(path, "rename target %s already exists", newPath)
	}
	fe, ok := b.byPath[path]
	if !ok {
		if !b.sess.Files.Exists(path) {
			return Editf(path, "file not in context")
		}
		lines, err := b.sess.Files.ReadFile(path)
		if err != nil {
			return Editf(path, "unreadable: %v", err)
		}
		fe = &edit.FileEdit{FilePath: path, PreviousLines: lines}
		b.add(path, fe)
	}
	if fe.IsDeletion {
		return Editf(path, "file is deleted in this response")
	}
	fe.RenamePath = newPath
	return nil
}

// Edits returns the accumulated plan in first-touch order.
func (b *PlanBuilder) Edits() []*edit.FileEdit {
	out := make([]*edit.FileEdit, 0, len(b.order))
	for _, path := range b.order {
		out = append(out, b.byPath[path])
	}
	return out
}

func (b *PlanBuilder) add(path string, fe *edit.FileEdit) {
	b.order = append(b.order, path)
	b.byPath[path] = fe
}
