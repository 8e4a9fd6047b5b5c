package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookup(t *testing.T) {
	folder := NewFolder("d")

	file, err := folder.Insert(NewFile("a", []byte("1")), PolicyReject)
	require.NoError(t, err)
	sub, err := folder.Insert(NewFolder("s"), PolicyReject)
	require.NoError(t, err)

	assert.True(t, folder.Has("a"))
	assert.True(t, folder.Has("s"))
	assert.False(t, folder.Has("missing"))
	assert.Equal(t, 2, folder.Len())

	gotFile, err := folder.ChildFile("a")
	require.NoError(t, err)
	assert.Same(t, file, Entry(gotFile))

	gotSub, err := folder.ChildFolder("s")
	require.NoError(t, err)
	assert.Same(t, sub, Entry(gotSub))

	_, err = folder.ChildFile("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = folder.ChildFolder("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = folder.ChildFile("s")
	assert.ErrorIs(t, err, ErrWrongType)
	_, err = folder.ChildFolder("a")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestInsertRejectPolicy(t *testing.T) {
	folder := NewFolder("d")
	_, err := folder.Insert(NewFile("a", []byte("1")), PolicyReject)
	require.NoError(t, err)

	_, err = folder.Insert(NewFile("a", []byte("2")), PolicyReject)
	require.ErrorIs(t, err, ErrDuplicateName)

	// original untouched
	file, err := folder.ChildFile("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), file.Content())
	assert.Equal(t, 1, folder.Len())
}

func TestInsertOverwritePolicy(t *testing.T) {
	folder := NewFolder("d")
	original, err := folder.Insert(NewFile("a", []byte("1")), PolicyReject)
	require.NoError(t, err)

	replacement, err := folder.Insert(NewFile("a", []byte("2")), PolicyOverwrite)
	require.NoError(t, err)

	file, err := folder.ChildFile("a")
	require.NoError(t, err)
	assert.Equal(t, "a", file.Name())
	assert.Equal(t, []byte("2"), file.Content())
	assert.Same(t, replacement, Entry(file))
	assert.NotEqual(t, original.ID(), file.ID())
	assert.Equal(t, 1, folder.Len())
}

func TestInsertOverwriteChangesVariant(t *testing.T) {
	folder := NewFolder("d")
	_, err := folder.Insert(NewFolder("a"), PolicyReject)
	require.NoError(t, err)

	_, err = folder.Insert(NewFile("a", []byte("x")), PolicyOverwrite)
	require.NoError(t, err)

	file, err := folder.ChildFile("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), file.Content())
}

func TestInsertInvalidName(t *testing.T) {
	folder := NewFolder("d")

	for _, name := range []string{"", ".", "..", "a/b"} {
		_, err := folder.Insert(NewFile(name, nil), PolicyReject)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
	assert.Equal(t, 0, folder.Len())
}

func TestInsertMovesBetweenFolders(t *testing.T) {
	src := NewFolder("src")
	dst := NewFolder("dst")

	file := NewFile("a", nil)
	_, err := src.Insert(file, PolicyReject)
	require.NoError(t, err)

	_, err = dst.Insert(file, PolicyReject)
	require.NoError(t, err)

	assert.False(t, src.Has("a"))
	assert.True(t, dst.Has("a"))
}

func TestInsertRejectsSelf(t *testing.T) {
	folder := NewFolder("d")

	_, err := folder.Insert(folder, PolicyReject)
	require.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, 0, folder.Len())
}

func TestInsertRejectsOwnSubtree(t *testing.T) {
	tree := New()
	xEntry, err := tree.Create(NewFolder("x"), "/x")
	require.NoError(t, err)
	x := xEntry.(*Folder)
	_, err = tree.Create(NewFolder("y"), "/x/y")
	require.NoError(t, err)

	y, err := tree.FolderAt("/x/y")
	require.NoError(t, err)

	_, err = y.Insert(x, PolicyReject)
	require.ErrorIs(t, err, ErrCycle)

	// ownership edges are untouched and every parent chain still ends at
	// the root
	assert.False(t, y.Has("x"))
	assert.True(t, tree.Root().Has("x"))
	parent, err := y.Parent()
	require.NoError(t, err)
	assert.Same(t, x, parent)
	assert.Equal(t, "/x", pathOf(x))
	assert.Equal(t, "/x/y", pathOf(y))

	require.NoError(t, tree.ChangeDirectory("/x/y"))
	assert.Equal(t, "/x/y", tree.WorkingDirectory())
}

func TestRemove(t *testing.T) {
	folder := NewFolder("d")
	_, err := folder.Insert(NewFile("a", nil), PolicyReject)
	require.NoError(t, err)

	assert.True(t, folder.Remove("a"))
	assert.False(t, folder.Has("a"))
	_, err = folder.ChildFile("a")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.False(t, folder.Remove("a"))
	assert.False(t, folder.Remove("missing"))
}

func TestEntriesVisitsEachChildOnce(t *testing.T) {
	folder := NewFolder("d")
	names := []string{"a", "b", "c", "sub"}
	for _, n := range names[:3] {
		_, err := folder.Insert(NewFile(n, nil), PolicyReject)
		require.NoError(t, err)
	}
	_, err := folder.Insert(NewFolder("sub"), PolicyReject)
	require.NoError(t, err)

	seen := make(map[string]int)
	for e := range folder.Entries() {
		seen[e.Name()]++
	}

	require.Len(t, seen, len(names))
	for _, n := range names {
		assert.Equal(t, 1, seen[n], "child %s", n)
	}

	// restartable
	count := 0
	for range folder.Entries() {
		count++
	}
	assert.Equal(t, len(names), count)

	// early break is safe
	for range folder.Entries() {
		break
	}
}

func TestParent(t *testing.T) {
	root := NewFolder("/")
	sub, err := root.Insert(NewFolder("sub"), PolicyReject)
	require.NoError(t, err)

	parent, err := sub.(*Folder).Parent()
	require.NoError(t, err)
	assert.Same(t, root, parent)

	_, err = root.Parent()
	assert.ErrorIs(t, err, ErrNoParent)
}

func TestCloneDeepCopies(t *testing.T) {
	folder := NewFolder("d")
	_, err := folder.Insert(NewFile("a", []byte("1")), PolicyReject)
	require.NoError(t, err)
	subEntry, err := folder.Insert(NewFolder("s"), PolicyReject)
	require.NoError(t, err)
	sub := subEntry.(*Folder)
	_, err = sub.Insert(NewFile("b", []byte("2")), PolicyReject)
	require.NoError(t, err)

	clone := folder.Clone()

	// same shape and contents
	assert.Equal(t, folder.Len(), clone.Len())
	cloneFile, err := clone.ChildFile("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), cloneFile.Content())
	cloneSub, err := clone.ChildFolder("s")
	require.NoError(t, err)
	cloneNested, err := cloneSub.ChildFile("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), cloneNested.Content())

	// fresh identities, clone detached
	assert.NotEqual(t, folder.ID(), clone.ID())
	assert.NotEqual(t, sub.ID(), cloneSub.ID())
	_, err = clone.Parent()
	assert.ErrorIs(t, err, ErrNoParent)

	// back-references point into the copy, never the source
	parent, err := cloneSub.Parent()
	require.NoError(t, err)
	assert.Same(t, clone, parent)
	assert.Same(t, cloneSub, cloneNested.parent)

	// mutating the source leaves the clone alone
	srcFile, err := folder.ChildFile("a")
	require.NoError(t, err)
	srcFile.SetContent([]byte("changed"))
	folder.Remove("s")
	assert.Equal(t, []byte("1"), cloneFile.Content())
	assert.True(t, clone.Has("s"))
}
