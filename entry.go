package vtree

import (
	"fmt"

	"github.com/google/uuid"
)

// Entry is a named node in the tree: either a *File holding content or a
// *Folder holding further entries. Only those two types implement it.
type Entry interface {
	// Name returns the entry name within its parent folder.
	Name() string

	// ID returns the stable identity of the entry. Overwriting an entry
	// installs a replacement with a new ID under the same name.
	ID() string

	// Rename changes the entry name. For an attached entry the parent's
	// child mapping is re-keyed; a sibling with the new name fails the
	// rename with ErrDuplicateName.
	Rename(name string) error

	parentFolder() *Folder
	setParent(p *Folder)
	cloneEntry() Entry
}

// AsFile downcasts an entry to *File, failing with ErrWrongType when the
// entry is a folder.
func AsFile(e Entry) (*File, error) {
	f, ok := e.(*File)
	if !ok {
		return nil, fmt.Errorf("%s: %w", e.Name(), ErrWrongType)
	}
	return f, nil
}

// AsFolder downcasts an entry to *Folder, failing with ErrWrongType when the
// entry is a file.
func AsFolder(e Entry) (*Folder, error) {
	f, ok := e.(*Folder)
	if !ok {
		return nil, fmt.Errorf("%s: %w", e.Name(), ErrWrongType)
	}
	return f, nil
}

// File is a leaf entry with a mutable byte payload.
type File struct {
	id      string
	name    string
	content []byte

	parent *Folder
}

// NewFile creates a detached file entry.
func NewFile(name string, content []byte) *File {
	return &File{
		id:      uuid.NewString(),
		name:    name,
		content: content,
	}
}

// Name returns the file name.
func (f *File) Name() string {
	return f.name
}

// ID returns the stable identity of the file.
func (f *File) ID() string {
	return f.id
}

// Content returns the file payload.
func (f *File) Content() []byte {
	return f.content
}

// SetContent replaces the file payload.
func (f *File) SetContent(content []byte) {
	f.content = content
}

// Rename changes the file name, re-keying the parent folder when attached.
func (f *File) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if f.parent != nil {
		if err := f.parent.rekeyChild(f.name, name); err != nil {
			return err
		}
	}
	f.name = name
	return nil
}

// Clone returns a detached copy of the file with a fresh identity.
func (f *File) Clone() *File {
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return NewFile(f.name, content)
}

func (f *File) parentFolder() *Folder { return f.parent }
func (f *File) setParent(p *Folder)   { f.parent = p }
func (f *File) cloneEntry() Entry     { return f.Clone() }

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	for _, r := range name {
		if r == '/' {
			return fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
	}
	return nil
}
