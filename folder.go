package vtree

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// Policy controls what Insert does when the target name is already taken.
type Policy string

const (
	// PolicyReject fails the insert with ErrDuplicateName and leaves the
	// folder unchanged.
	PolicyReject Policy = "reject"

	// PolicyOverwrite replaces the existing child in place. The name is
	// kept, the identity and contents are the replacement's.
	PolicyOverwrite Policy = "overwrite"
)

// ParsePolicy converts a textual policy (e.g. from config) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyReject, PolicyOverwrite:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown duplicate-name policy %q", s)
	}
}

// Folder is a container entry. It owns its children exclusively: removing a
// child drops the whole subtree, and child names are unique at any instant.
type Folder struct {
	id       string
	name     string
	children map[string]Entry

	parent *Folder
}

// NewFolder creates a detached empty folder.
func NewFolder(name string) *Folder {
	return &Folder{
		id:       uuid.NewString(),
		name:     name,
		children: make(map[string]Entry),
	}
}

// Name returns the folder name.
func (f *Folder) Name() string {
	return f.name
}

// ID returns the stable identity of the folder.
func (f *Folder) ID() string {
	return f.id
}

// Has reports whether an immediate child with the given name exists.
func (f *Folder) Has(name string) bool {
	_, ok := f.children[name]
	return ok
}

// Len returns the number of immediate children.
func (f *Folder) Len() int {
	return len(f.children)
}

// Child returns the immediate child with the given name, of either variant.
func (f *Folder) Child(name string) (Entry, error) {
	child, ok := f.children[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return child, nil
}

// ChildFile returns the immediate child file with the given name. It fails
// with ErrNotFound if no child has that name and with ErrWrongType if the
// name refers to a folder.
func (f *Folder) ChildFile(name string) (*File, error) {
	child, err := f.Child(name)
	if err != nil {
		return nil, err
	}
	return AsFile(child)
}

// ChildFolder returns the immediate child folder with the given name. It
// fails with ErrNotFound if no child has that name and with ErrWrongType if
// the name refers to a file.
func (f *Folder) ChildFolder(name string) (*Folder, error) {
	child, err := f.Child(name)
	if err != nil {
		return nil, err
	}
	return AsFolder(child)
}

// Insert adopts the entry as an immediate child. An entry attached elsewhere
// is detached from its previous parent first, so the single-parent invariant
// holds; inserting a folder into itself or into its own subtree fails with
// ErrCycle. On a name collision the policy decides: PolicyOverwrite replaces
// the existing child (same name, new identity), PolicyReject fails with
// ErrDuplicateName and leaves the folder unchanged.
func (f *Folder) Insert(e Entry, policy Policy) (Entry, error) {
	name := e.Name()
	if err := validateName(name); err != nil {
		return nil, err
	}

	// Adopting a folder that is this folder itself, or an ancestor of it,
	// would close a parent cycle and the tree must stay acyclic.
	if sub, ok := e.(*Folder); ok {
		for cur := f; cur != nil; cur = cur.parent {
			if cur == sub {
				return nil, fmt.Errorf("%s: %w", name, ErrCycle)
			}
		}
	}

	if existing, ok := f.children[name]; ok {
		if policy != PolicyOverwrite {
			return nil, fmt.Errorf("%s: %w", name, ErrDuplicateName)
		}
		existing.setParent(nil)
	}

	if prev := e.parentFolder(); prev != nil && prev != f {
		delete(prev.children, name)
	}

	e.setParent(f)
	f.children[name] = e
	return e, nil
}

// Remove detaches and drops the named immediate child and its subtree. It
// reports whether a child was found and removed.
func (f *Folder) Remove(name string) bool {
	child, ok := f.children[name]
	if !ok {
		return false
	}
	child.setParent(nil)
	delete(f.children, name)
	return true
}

// Entries iterates over the immediate children. The sequence is lazy,
// restartable and visits every child exactly once; the order is unspecified.
func (f *Folder) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, child := range f.children {
			if !yield(child) {
				return
			}
		}
	}
}

// Parent returns the owning folder, or ErrNoParent on the root.
func (f *Folder) Parent() (*Folder, error) {
	if f.parent == nil {
		return nil, fmt.Errorf("%s: %w", f.name, ErrNoParent)
	}
	return f.parent, nil
}

// Rename changes the folder name, re-keying the parent folder when attached.
func (f *Folder) Rename(name string) error {
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

// Clone deep-copies the folder and its whole subtree. Every copied child gets
// a fresh identity and its parent back-reference points into the copy, never
// into the source tree. The clone itself is detached.
func (f *Folder) Clone() *Folder {
	clone := NewFolder(f.name)
	for name, child := range f.children {
		copied := child.cloneEntry()
		copied.setParent(clone)
		clone.children[name] = copied
	}
	return clone
}

// rekeyChild moves a child to a new key in the children map. The caller owns
// updating the child's own name field.
func (f *Folder) rekeyChild(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	child, ok := f.children[oldName]
	if !ok {
		return fmt.Errorf("%s: %w", oldName, ErrNotFound)
	}
	if _, taken := f.children[newName]; taken {
		return fmt.Errorf("%s: %w", newName, ErrDuplicateName)
	}
	delete(f.children, oldName)
	f.children[newName] = child
	return nil
}

func (f *Folder) parentFolder() *Folder { return f.parent }
func (f *Folder) setParent(p *Folder)   { f.parent = p }
func (f *Folder) cloneEntry() Entry     { return f.Clone() }
