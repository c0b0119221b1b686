package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashBytesDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := HashBytes(data)
	h2 := HashBytes(data)
	if h1 != h2 {
		t.Errorf("HashBytes not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Hash length: got %d, want 64", len(h1))
	}
}

func TestHashBytesDifferentInput(t *testing.T) {
	h1 := HashBytes([]byte("aaa"))
	h2 := HashBytes([]byte("bbb"))
	if h1 == h2 {
		t.Error("Different inputs produced same hash")
	}
}

func TestHashObjectEnvelope(t *testing.T) {
	data := []byte("hello")
	h1 := HashObject(TypeBlob, data)
	h2 := HashBytes(data)
	if h1 == h2 {
		t.Error("HashObject should differ from HashBytes due to envelope")
	}

	// Same type+data => same hash
	h3 := HashObject(TypeBlob, data)
	if h1 != h3 {
		t.Error("HashObject not deterministic")
	}

	// Different type => different hash
	h4 := HashObject(TypeCommit, data)
	if h1 == h4 {
		t.Error("Different types should produce different hashes")
	}
}

func TestHashIsLowerHex(t *testing.T) {
	h := HashBytes([]byte("test"))
	for _, c := range string(h) {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("Hash contains non-lowercase-hex character: %c", c)
		}
	}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(h) != 64 {
		t.Errorf("Hash length: got %d, want 64", len(h))
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("exists"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Has(h) {
		t.Error("Has returned false for existing object")
	}
	if s.Has(Hash("0000000000000000000000000000000000000000000000000000000000000000")) {
		t.Error("Has returned true for non-existing object")
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("fanout test"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Check 2-char fan-out directory
	objPath := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		t.Errorf("Expected fan-out file at %s", objPath)
	}
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t)
	data := []byte("duplicate")
	h1, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	h2, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Same content produced different hashes: %q vs %q", h1, h2)
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(Hash("0000000000000000000000000000000000000000000000000000000000000000"))
	if err == nil {
		t.Fatal("Read of missing object should return error")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestStoreOnDiskCompressed(t *testing.T) {
	// The stored file is compressed; hashing is over the uncompressed
	// envelope, so the raw file must not contain the plain content.
	s := tempStore(t)
	data := bytes.Repeat([]byte("compressible content "), 64)
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.root, "objects", string(h[:2]), string(h[2:])))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if bytes.Contains(raw, data) {
		t.Error("on-disk object contains uncompressed content")
	}
	if len(raw) >= len(data) {
		t.Errorf("on-disk object not smaller than content: %d >= %d", len(raw), len(data))
	}

	// Hash must equal the hash of the uncompressed envelope.
	if h != HashObject(TypeBlob, data) {
		t.Error("stored hash differs from envelope hash")
	}
}

func TestStoreWriteReadBlob(t *testing.T) {
	s := tempStore(t)
	orig := &Blob{Data: []byte("blob content\nwith newlines")}
	h, err := s.WriteBlob(orig)
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	got, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Blob round-trip: got %q, want %q", got.Data, orig.Data)
	}
}

func TestStoreWriteReadTree(t *testing.T) {
	s := tempStore(t)
	orig := &TreeObj{
		Entries: []TreeEntry{
			{
				Name:     "main.go",
				Mode:     TreeModeFile,
				BlobHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			},
			{
				Name:        "pkg",
				IsDir:       true,
				SubtreeHash: Hash("cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"),
			},
		},
	}
	h, err := s.WriteTree(orig)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	got, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("Entries length: got %d, want 2", len(got.Entries))
	}
	// Should be sorted: main.go before pkg
	if got.Entries[0].Name != "main.go" || got.Entries[1].Name != "pkg" {
		t.Errorf("Tree entries not sorted correctly")
	}
	if got.Entries[0].Mode != TreeModeFile {
		t.Errorf("Mode: got %q, want %q", got.Entries[0].Mode, TreeModeFile)
	}
}

func TestStoreWriteReadCommit(t *testing.T) {
	s := tempStore(t)
	orig := &CommitObj{
		TreeHash:  Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents:   []Hash{Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")},
		Author:    "Test User <test@example.com>",
		Timestamp: 1700000000,
		Message:   "test commit\n\nWith details.",
	}
	h, err := s.WriteCommit(orig)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	got, err := s.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if got.TreeHash != orig.TreeHash {
		t.Errorf("TreeHash mismatch")
	}
	if len(got.Parents) != 1 || got.Parents[0] != orig.Parents[0] {
		t.Errorf("Parents mismatch: %v", got.Parents)
	}
	if got.Author != orig.Author {
		t.Errorf("Author mismatch")
	}
	if got.Timestamp != orig.Timestamp {
		t.Errorf("Timestamp mismatch")
	}
	if got.Message != orig.Message {
		t.Errorf("Message mismatch: got %q, want %q", got.Message, orig.Message)
	}
}

func TestStoreWriteReadTag(t *testing.T) {
	s := tempStore(t)
	orig := &TagObj{
		TargetHash: Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Tagger:     "Test User <test@example.com>",
		Timestamp:  1700000000,
		Message:    "v1.0.0 release",
	}
	h, err := s.WriteTag(orig)
	if err != nil {
		t.Fatalf("WriteTag: %v", err)
	}
	got, err := s.ReadTag(h)
	if err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if got.TargetHash != orig.TargetHash || got.Tagger != orig.Tagger ||
		got.Timestamp != orig.Timestamp || got.Message != orig.Message {
		t.Errorf("Tag round-trip mismatch: %+v", got)
	}
}

func TestStoreReadBlobTypeMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteCommit(&CommitObj{
		TreeHash:  Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Author:    "t",
		Timestamp: 1,
		Message:   "m",
	})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	// Try to read commit as blob -- should fail
	_, err = s.ReadBlob(h)
	if err == nil {
		t.Fatal("ReadBlob on commit object should return error")
	}
	if !strings.Contains(err.Error(), "type mismatch") {
		t.Errorf("Expected type mismatch error, got: %v", err)
	}
}
