// Package vtree provides an embeddable in-memory virtual filesystem: a tree
// of named entries navigable by slash-separated paths with "." / ".." /
// leading-"/" semantics.
//
// A Tree owns a root folder, tracks a working directory and exposes
// path-addressed operations. Entries come in two variants: *File holds a
// mutable byte payload, *Folder holds further entries.
//
// Basic usage:
//
//	t := vtree.New()
//
//	// Create entries
//	t.Create(vtree.NewFile("a", []byte("hello")), ".")
//	t.Create(vtree.NewFolder("docs"), ".")
//
//	// Navigate
//	t.ChangeDirectory("docs")
//	fmt.Println(t.WorkingDirectory()) // /docs
//
//	// Look up by path
//	f, _ := t.FileAt("/a")
//	fmt.Println(string(f.Content())) // hello
//
//	// Search the whole tree by name
//	for _, e := range t.Search("a") { ... }
//
// Snapshots capture the tree into a deduplicated, content-addressed object
// set that can be encoded to bytes and restored later:
//
//	snap, _ := t.Snapshot()
//	data, _ := snap.Encode()
//	...
//	snap2, _ := vtree.DecodeSnapshot(data)
//	t2, _ := vtree.Restore(snap2)
//
// A Tree assumes a single owner: operations are synchronous and there is no
// internal locking. References returned by lookups stay valid across
// mutations of other entries; removing an entry (or an ancestor) detaches
// the references into its subtree from the tree.
package vtree
