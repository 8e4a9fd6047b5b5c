package vtree

import (
	"fmt"
)

// Tree is an in-memory virtual filesystem: a root folder, a current working
// location and path-addressed operations on top of them. A Tree owns exactly
// one root folder for its whole lifetime.
//
// All operations are synchronous and the Tree assumes a single owner; see the
// package documentation for the reference-validity rules.
type Tree struct {
	root   *Folder
	policy Policy

	workPath string
	workDir  *Folder
}

// New creates an empty tree with the working directory at root.
func New(opts ...Option) *Tree {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	root := NewFolder("/")
	return &Tree{
		root:     root,
		policy:   options.Policy,
		workPath: "/",
		workDir:  root,
	}
}

// Root returns the root folder.
func (t *Tree) Root() *Folder {
	return t.root
}

// Policy returns the duplicate-name policy Create applies.
func (t *Tree) Policy() Policy {
	return t.policy
}

// Create inserts the entry into the folder denoted by the directory part of
// path, resolved from the working directory. The final path segment is the
// conventional spot for the entry name and is not interpreted; an empty path
// or "." targets the working directory itself. The configured duplicate-name
// policy decides collisions.
func (t *Tree) Create(e Entry, path string) (Entry, error) {
	if path == "" {
		path = "."
	}

	dir, _ := splitPath(path)
	parent, err := resolvePath(t.workDir, t.root, dir)
	if err != nil {
		return nil, err
	}

	inserted, err := parent.Insert(e, t.policy)
	if err != nil {
		return nil, err
	}

	// An overwrite can detach the subtree holding the working directory,
	// and a re-parenting move can change its canonical path.
	t.refreshWorkDir()
	return inserted, nil
}

// FileAt returns the file denoted by path, resolved from the working
// directory.
func (t *Tree) FileAt(path string) (*File, error) {
	dir, base := splitPath(path)
	parent, err := resolvePath(t.workDir, t.root, dir)
	if err != nil {
		return nil, err
	}

	file, err := parent.ChildFile(base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// FolderAt returns the folder denoted by path, resolved from the working
// directory. The whole path is resolved, so "." and ".." work as expected.
func (t *Tree) FolderAt(path string) (*Folder, error) {
	return resolvePath(t.workDir, t.root, path)
}

// Remove detaches and drops the entry denoted by path together with its
// subtree. It reports whether an entry was found and removed; failing to
// resolve the directory part is an error. If the removal detaches the
// working directory itself, the working location falls back to the root.
func (t *Tree) Remove(path string) (bool, error) {
	dir, base := splitPath(path)
	parent, err := resolvePath(t.workDir, t.root, dir)
	if err != nil {
		return false, err
	}

	removed := parent.Remove(base)
	if removed {
		t.refreshWorkDir()
	}
	return removed, nil
}

// refreshWorkDir re-anchors the working location after a mutation: the
// textual path is recomputed (a move may have changed it) and a working
// directory that is no longer reachable from the root falls back to it.
func (t *Tree) refreshWorkDir() {
	if t.workDirReachable() {
		t.workPath = pathOf(t.workDir)
		return
	}
	t.workDir = t.root
	t.workPath = "/"
}

// workDirReachable reports whether the working directory still hangs off the
// root.
func (t *Tree) workDirReachable() bool {
	cur := t.workDir
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur == t.root
}

// ChangeDirectory moves the working location to the folder denoted by path.
// On failure the working location is left unchanged. Both the live folder
// reference and the textual working path are updated together, the latter in
// canonical absolute form.
func (t *Tree) ChangeDirectory(path string) error {
	target, err := resolvePath(t.workDir, t.root, path)
	if err != nil {
		return err
	}

	t.workDir = target
	t.workPath = pathOf(target)
	return nil
}

// WorkingDirectory returns the textual path of the current working location.
func (t *Tree) WorkingDirectory() string {
	return t.workPath
}

// Search walks the whole tree from the root and returns every entry, at any
// depth, whose name matches. Every reachable entry is visited exactly once;
// the order of the result is unspecified. The walk is breadth-first.
func (t *Tree) Search(name string) []Entry {
	var found []Entry

	queue := []*Folder{t.root}
	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		for child := range folder.Entries() {
			if child.Name() == name {
				found = append(found, child)
			}
			if sub, ok := child.(*Folder); ok {
				queue = append(queue, sub)
			}
		}
	}

	return found
}
