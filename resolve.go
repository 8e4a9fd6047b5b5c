package vtree

import (
	"fmt"
	"strings"
)

// resolvePath walks a slash-separated path from start and returns the folder
// it denotes. Segments are interpreted left to right: empty segments and "."
// stay put, ".." moves to the parent, a name descends into the child folder
// with that name. A leading "/" anchors the walk at root before any segment
// is consumed.
//
// ".." at the root is a deliberate no-op: the walk stays at root rather than
// failing. The walk never mutates the tree.
func resolvePath(start, root *Folder, path string) (*Folder, error) {
	current := start
	if strings.HasPrefix(path, "/") {
		current = root
	}

	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".":
			// stay
		case "..":
			if current.parent != nil {
				current = current.parent
			}
		default:
			child, err := current.ChildFolder(segment)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			current = child
		}
	}

	return current, nil
}

// splitPath separates a path into its directory part and final segment.
// "a/b/c" yields ("a/b", "c"), "/a" yields ("/", "a") and a bare name yields
// (".", name).
func splitPath(path string) (dir, base string) {
	idx := strings.LastIndex(path, "/")
	switch {
	case idx < 0:
		return ".", path
	case idx == 0:
		return "/", path[1:]
	default:
		return path[:idx], path[idx+1:]
	}
}

// pathOf returns the canonical absolute path of a folder by climbing its
// parent chain up to the root.
func pathOf(f *Folder) string {
	if f.parent == nil {
		return "/"
	}

	var names []string
	for cur := f; cur.parent != nil; cur = cur.parent {
		names = append(names, cur.name)
	}

	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(names[i])
	}
	return b.String()
}
