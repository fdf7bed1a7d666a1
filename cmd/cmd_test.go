package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/victorhqc/photos-manager/config"
	"github.com/victorhqc/photos-manager/media"
	"github.com/victorhqc/photos-manager/progress"
	"github.com/victorhqc/photos-manager/types"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("not really an image"), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"File", "Outcome"},
		[][]string{{"a.jpg", "moved"}, {"b.jpg"}},
		[]columnAlignment{alignLeft, alignRight},
	)

	for _, want := range []string{"File", "Outcome", "a.jpg", "moved", "b.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("Expected empty output without headers")
	}
}

func TestLockTarget(t *testing.T) {
	target := t.TempDir()

	unlock, err := lockTarget(target)
	if err != nil {
		t.Fatalf("lockTarget() error = %v", err)
	}

	if _, err := lockTarget(target); !errors.Is(err, ErrTargetLocked) {
		t.Errorf("Expected ErrTargetLocked for a second lock, got %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock() error = %v", err)
	}

	again, err := lockTarget(target)
	if err != nil {
		t.Fatalf("Expected lock to be free after unlock, got %v", err)
	}
	_ = again()
}

func TestLockPath_StableAndDistinct(t *testing.T) {
	a1, err := lockPath("/photos/a")
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := lockPath("/photos/a")
	b, _ := lockPath("/photos/b")

	if a1 != a2 {
		t.Errorf("Expected same lock path for the same target, got %s and %s", a1, a2)
	}
	if a1 == b {
		t.Errorf("Expected different lock paths for different targets, got %s", a1)
	}
}

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		name     string
		appCtx   *types.AppContext
		path     string
		expected int
	}{
		{name: "Explicit setting", appCtx: &types.AppContext{Workers: 3}, path: "/home/user/photos", expected: 3},
		{name: "Explicit setting on network drive", appCtx: &types.AppContext{Workers: 3}, path: "/mnt/nas/photos", expected: 3},
		{name: "Network drive", appCtx: &types.AppContext{}, path: "/mnt/nas/photos", expected: 1},
		{name: "Nil context", appCtx: nil, path: "/home/user/photos", expected: runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveWorkers(tt.appCtx, tt.path); got != tt.expected {
				t.Errorf("Expected %d workers, got %d", tt.expected, got)
			}
		})
	}
}

func TestOrderCmd_Run(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "IMG_20230815_001.jpg"))
	writeFile(t, filepath.Join(source, "nested", "VID_20220101_120000.mp4"))
	writeFile(t, filepath.Join(source, "notes.txt"))

	cmd := &OrderCmd{Source: source, Target: target}
	if err := cmd.Run(&types.AppContext{Workers: 2}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{
		filepath.Join(target, "2023-08", "IMG_20230815_001.jpg"),
		filepath.Join(target, "2022-01", "VID_20220101_120000.mp4"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("Expected %s to exist: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(source, "notes.txt")); err != nil {
		t.Errorf("Expected unsupported file to stay in place: %v", err)
	}
}

func TestOrderCmd_DryRunMovesNothing(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "sorted")
	photo := filepath.Join(source, "IMG_20230815_001.jpg")
	writeFile(t, photo)

	cmd := &OrderCmd{Source: source, Target: target, DryRun: true}
	if err := cmd.Run(nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(photo); err != nil {
		t.Errorf("Expected photo to stay in source: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("Expected target to not be created, got %v", err)
	}
}

func TestOrderCmd_InvalidCutoff(t *testing.T) {
	cmd := &OrderCmd{Source: t.TempDir(), Target: t.TempDir(), From: "15/08/2023"}

	var borderErr *media.BorderError
	if err := cmd.Run(nil); !errors.As(err, &borderErr) {
		t.Fatalf("Expected BorderError for a malformed date, got %v", err)
	}
}

func TestOrderCmd_LockEnabled(t *testing.T) {
	cmd := &OrderCmd{}
	disabled := config.Default()
	disabled.Order.Lock = false

	if !cmd.lockEnabled(nil) {
		t.Error("Expected lock enabled without a context")
	}
	if cmd.lockEnabled(&types.AppContext{Config: &disabled}) {
		t.Error("Expected config to disable the lock")
	}
}

func TestBorderCmd_Thickness(t *testing.T) {
	cfg := config.Default()
	cfg.Border.Thickness = "thick"

	tests := []struct {
		name     string
		flag     string
		appCtx   *types.AppContext
		expected string
	}{
		{name: "Flag wins", flag: "thin", appCtx: &types.AppContext{Config: &cfg}, expected: "thin"},
		{name: "Config value", appCtx: &types.AppContext{Config: &cfg}, expected: "thick"},
		{name: "Nothing set", appCtx: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &BorderCmd{Thickness: tt.flag}
			if got := cmd.thickness(tt.appCtx); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestReclaimable(t *testing.T) {
	groups := []media.DuplicateGroup{
		{Size: 100, Paths: []string{"a", "b", "c"}},
		{Size: 10, Paths: []string{"d", "e"}},
	}
	if got := reclaimable(groups); got != 210 {
		t.Errorf("Expected 210 reclaimable bytes, got %d", got)
	}
}

func TestSimilarCmd_ThresholdRange(t *testing.T) {
	for _, threshold := range []int{-1, 65} {
		cmd := &SimilarCmd{Paths: []string{t.TempDir()}, Threshold: threshold}
		if err := cmd.Run(nil); err == nil {
			t.Errorf("Expected error for threshold %d", threshold)
		}
	}
}

func TestOrderPipeline_ProgressEvents(t *testing.T) {
	const n = 12
	source := t.TempDir()
	target := t.TempDir()
	for i := 0; i < n; i++ {
		writeFile(t, filepath.Join(source, fmt.Sprintf("IMG_20230815_%03d.jpg", i)))
	}

	ch := progress.NewChannels()
	errCh := make(chan error, 1)
	go func() {
		defer ch.Close()
		assets, err := media.Discover(context.Background(), source, media.DiscoverOptions{
			Workers:    4,
			Logger:     zerolog.Nop(),
			OnComplete: ch.SendTotal,
		})
		if err != nil {
			errCh <- err
			return
		}
		_, err = media.Organize(context.Background(), assets, target, media.OrganizeOptions{
			Workers:    4,
			Logger:     zerolog.Nop(),
			OnMoved:    ch.Inc,
			OnComplete: ch.Done,
		})
		errCh <- err
	}()

	var events []progress.Event
	total, err := progress.Consume(context.Background(), ch, func(ev progress.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("pipeline error = %v", err)
	}

	if total != n {
		t.Errorf("Expected total %d, got %d", n, total)
	}
	if len(events) != n+2 {
		t.Fatalf("Expected %d events, got %d", n+2, len(events))
	}
	if events[0].Kind != progress.EventStarted {
		t.Errorf("Expected Started first, got %v", events[0].Kind)
	}
	for _, ev := range events[1 : n+1] {
		if ev.Kind != progress.EventUnit {
			t.Errorf("Expected Unit events in the middle, got %v", ev.Kind)
		}
	}
	if last := events[n+1]; last.Kind != progress.EventFinished || last.N != n {
		t.Errorf("Expected Finished(%d) last, got %v(%d)", n, last.Kind, last.N)
	}
}
