package vtree

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/vtree/internal/compression"
)

// Snapshot is an immutable, content-addressed capture of a tree. Equal file
// payloads collapse into a single blob object, so a snapshot is also a
// deduplicated form of the tree. Snapshots live in memory; the host program
// decides what to do with the encoded bytes.
type Snapshot struct {
	rootHash string
	objects  map[string][]byte
}

const (
	entryKindFile   = 0
	entryKindFolder = 1
)

// treeEntry is the wire form of one child inside an encoded tree object.
type treeEntry struct {
	Name string
	Kind byte
	Hash [32]byte
}

// Snapshot captures the current state of the tree. The tree is read on the
// calling goroutine only; blob hashing fans out over a worker pool once the
// payloads have been collected.
func (t *Tree) Snapshot() (*Snapshot, error) {
	files := collectFiles(t.root)

	objects := make(map[string][]byte)
	blobHash := make(map[string]string, len(files)) // file ID -> digest

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for _, file := range files {
		p.Go(func() {
			hash, encoded := encodeBlob(file.Content())
			mu.Lock()
			objects[hash] = encoded
			blobHash[file.ID()] = hash
			mu.Unlock()
		})
	}
	p.Wait()

	rootHash, err := encodeFolder(t.root, blobHash, objects)
	if err != nil {
		return nil, err
	}

	return &Snapshot{rootHash: rootHash, objects: objects}, nil
}

// Restore builds a fresh tree from a snapshot. Every entry gets a new
// identity and the working directory starts at root.
func Restore(s *Snapshot, opts ...Option) (*Tree, error) {
	t := New(opts...)
	if err := decodeFolderInto(t.root, s.rootHash, s.objects); err != nil {
		return nil, err
	}
	return t, nil
}

// RootHash returns the digest of the snapshot's root tree object.
func (s *Snapshot) RootHash() string {
	return s.rootHash
}

// Len returns the number of stored objects.
func (s *Snapshot) Len() int {
	return len(s.objects)
}

// archive is the serialized snapshot layout.
type archive struct {
	Root    string            `json:"root"`
	Objects map[string][]byte `json:"objects"`
}

// Encode serializes the snapshot into a compressed archive.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(archive{Root: s.rootHash, Objects: s.objects})
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}

	codec, err := compression.NewCodec(2)
	if err != nil {
		return nil, err
	}
	defer codec.Close()

	return codec.Compress(data), nil
}

// DecodeSnapshot parses an archive produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	codec, err := compression.NewCodec(2)
	if err != nil {
		return nil, err
	}
	defer codec.Close()

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	var a archive
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if a.Objects == nil {
		a.Objects = make(map[string][]byte)
	}

	return &Snapshot{rootHash: a.Root, objects: a.Objects}, nil
}

// collectFiles gathers every file in the subtree, depth-first.
func collectFiles(folder *Folder) []*File {
	var files []*File
	for child := range folder.Entries() {
		switch c := child.(type) {
		case *File:
			files = append(files, c)
		case *Folder:
			files = append(files, collectFiles(c)...)
		}
	}
	return files
}

// encodeFolder encodes the subtree bottom-up and returns its digest. Blob
// digests are looked up from the precomputed map.
func encodeFolder(folder *Folder, blobHash map[string]string, objects map[string][]byte) (string, error) {
	var entries []treeEntry
	for child := range folder.Entries() {
		entry := treeEntry{Name: child.Name()}

		switch c := child.(type) {
		case *File:
			entry.Kind = entryKindFile
			hash, ok := blobHash[c.ID()]
			if !ok {
				return "", fmt.Errorf("missing blob for %s", c.Name())
			}
			decoded, err := hex.DecodeString(hash)
			if err != nil {
				return "", err
			}
			copy(entry.Hash[:], decoded)
		case *Folder:
			entry.Kind = entryKindFolder
			hash, err := encodeFolder(c, blobHash, objects)
			if err != nil {
				return "", err
			}
			decoded, err := hex.DecodeString(hash)
			if err != nil {
				return "", err
			}
			copy(entry.Hash[:], decoded)
		}

		entries = append(entries, entry)
	}

	hash, encoded := encodeTree(entries)
	objects[hash] = encoded
	return hash, nil
}

// decodeFolderInto rebuilds the children of a tree object into folder.
func decodeFolderInto(folder *Folder, hash string, objects map[string][]byte) error {
	data, ok := objects[hash]
	if !ok {
		return fmt.Errorf("missing object %s", hash)
	}

	content, err := objectContent(data, "tree ")
	if err != nil {
		return err
	}

	entries, err := decodeTreeEntries(content)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childHash := hex.EncodeToString(entry.Hash[:])

		switch entry.Kind {
		case entryKindFile:
			blob, ok := objects[childHash]
			if !ok {
				return fmt.Errorf("missing object %s", childHash)
			}
			payload, err := objectContent(blob, "blob ")
			if err != nil {
				return err
			}
			if _, err := folder.Insert(NewFile(entry.Name, payload), PolicyReject); err != nil {
				return err
			}
		case entryKindFolder:
			sub := NewFolder(entry.Name)
			if _, err := folder.Insert(sub, PolicyReject); err != nil {
				return err
			}
			if err := decodeFolderInto(sub, childHash, objects); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown entry kind %d", entry.Kind)
		}
	}

	return nil
}

// encodeBlob encodes a file payload as a blob object.
// Format: "blob {size}\0{content}" → SHA256
func encodeBlob(content []byte) (hash string, encoded []byte) {
	header := fmt.Sprintf("blob %d\x00", len(content))
	buf := make([]byte, len(header)+len(content))
	copy(buf, header)
	copy(buf[len(header):], content)

	h := sha256.Sum256(buf)
	return hex.EncodeToString(h[:]), buf
}

// encodeTree encodes folder children as a tree object.
// Format: "tree {size}\0{entries}"
// Entry format: {kind:1byte}{hash:32bytes}{nameLen:2bytes}{name}
func encodeTree(entries []treeEntry) (hash string, encoded []byte) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	var entriesBuf bytes.Buffer
	for _, entry := range entries {
		entriesBuf.WriteByte(entry.Kind)
		entriesBuf.Write(entry.Hash[:])
		binary.Write(&entriesBuf, binary.BigEndian, uint16(len(entry.Name)))
		entriesBuf.WriteString(entry.Name)
	}

	entriesData := entriesBuf.Bytes()
	header := fmt.Sprintf("tree %d\x00", len(entriesData))
	buf := make([]byte, len(header)+len(entriesData))
	copy(buf, header)
	copy(buf[len(header):], entriesData)

	h := sha256.Sum256(buf)
	return hex.EncodeToString(h[:]), buf
}

// objectContent strips and checks the object header, returning the payload.
func objectContent(data []byte, prefix string) ([]byte, error) {
	idx := bytes.IndexByte(data, 0)
	if idx == -1 {
		return nil, fmt.Errorf("invalid object: missing null terminator")
	}
	if !bytes.HasPrefix(data[:idx], []byte(prefix)) {
		return nil, fmt.Errorf("invalid object: expected %q header", prefix)
	}
	return data[idx+1:], nil
}

// decodeTreeEntries decodes tree entries from binary data.
func decodeTreeEntries(data []byte) ([]treeEntry, error) {
	var entries []treeEntry
	reader := bytes.NewReader(data)

	for reader.Len() > 0 {
		var entry treeEntry

		kind, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}
		entry.Kind = kind

		if _, err := io.ReadFull(reader, entry.Hash[:]); err != nil {
			return nil, err
		}

		var nameLen uint16
		if err := binary.Read(reader, binary.BigEndian, &nameLen); err != nil {
			return nil, err
		}

		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(reader, nameBuf); err != nil {
			return nil, err
		}
		entry.Name = string(nameBuf)

		entries = append(entries, entry)
	}

	return entries, nil
}
