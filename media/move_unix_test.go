//go:build unix

package media

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestMoveFile_CrossDeviceFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.jpg"), []byte("content"))
	dst := filepath.Join(dir, "b.jpg")

	calls := 0
	renameFunc = func(oldpath, newpath string) error {
		calls++
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renameFunc = os.Rename })

	if err := moveFile(src, dst); err != nil {
		t.Fatalf("moveFile() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected one rename attempt, got %d", calls)
	}
	assertMissing(t, src)

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("Expected copied content, got %q", data)
	}
}
