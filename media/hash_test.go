package media

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/corona10/goimagehash"
)

func TestCalculateCRC32(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "hello.jpg"), []byte("hello world"))

	sum, err := CalculateCRC32(path)
	if err != nil {
		t.Fatalf("CalculateCRC32() error = %v", err)
	}
	if sum != 0x0D4A1185 {
		t.Errorf("Expected 0D4A1185, got %08X", sum)
	}

	if _, err := CalculateCRC32(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestFindDuplicates(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, filepath.Join(root, "a.jpg"), []byte("same bytes"))
	b := writeFile(t, filepath.Join(root, "nested", "b.jpg"), []byte("same bytes"))
	writeFile(t, filepath.Join(root, "c.jpg"), []byte("other bytes"))
	writeFile(t, filepath.Join(root, "same.txt"), []byte("same bytes"))

	groups, err := FindDuplicates(context.Background(), root, 2, testLogger)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected 1 duplicate group, got %d: %+v", len(groups), groups)
	}

	g := groups[0]
	if len(g.Paths) != 2 || g.Paths[0] != a || g.Paths[1] != b {
		t.Errorf("Expected [%s %s], got %v", a, b, g.Paths)
	}
	if g.Size != int64(len("same bytes")) {
		t.Errorf("Expected size %d, got %d", len("same bytes"), g.Size)
	}
	if len(g.Hash) != 8 {
		t.Errorf("Expected an 8 digit hash, got %q", g.Hash)
	}
}

func TestFindDuplicates_NoneFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), []byte("one"))
	writeFile(t, filepath.Join(root, "b.jpg"), []byte("two"))

	groups, err := FindDuplicates(context.Background(), root, 0, testLogger)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Expected no groups, got %+v", groups)
	}
}

func TestPerceptualHash(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, filepath.Join(dir, "a.png"), 64, 64)
	b := writePNG(t, filepath.Join(dir, "b.png"), 64, 64)

	ha, err := PerceptualHash(a)
	if err != nil {
		t.Fatalf("PerceptualHash() error = %v", err)
	}
	hb, err := PerceptualHash(b)
	if err != nil {
		t.Fatalf("PerceptualHash() error = %v", err)
	}
	distance, err := ha.Distance(hb)
	if err != nil {
		t.Fatal(err)
	}
	if distance != 0 {
		t.Errorf("Expected identical images to have distance 0, got %d", distance)
	}

	broken := writeFile(t, filepath.Join(dir, "broken.png"), []byte("nope"))
	if _, err := PerceptualHash(broken); err == nil {
		t.Error("Expected error for an undecodable image")
	}
}

func TestFindSimilar(t *testing.T) {
	hashes := map[string]*goimagehash.ImageHash{
		"/c.jpg": goimagehash.NewImageHash(0xFF, goimagehash.PHash),
		"/a.jpg": goimagehash.NewImageHash(0, goimagehash.PHash),
		"/b.jpg": goimagehash.NewImageHash(1, goimagehash.PHash),
		"/d.jpg": goimagehash.NewImageHash(0xFFFFFFFF00000000, goimagehash.PHash),
	}

	pairs, err := FindSimilar(hashes, 7)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}

	expected := []SimilarPair{
		{A: "/a.jpg", B: "/b.jpg", Distance: 1},
		{A: "/b.jpg", B: "/c.jpg", Distance: 7},
	}
	if len(pairs) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, pairs)
	}
	for i := range expected {
		if pairs[i] != expected[i] {
			t.Errorf("Pair %d: expected %+v, got %+v", i, expected[i], pairs[i])
		}
	}
}
