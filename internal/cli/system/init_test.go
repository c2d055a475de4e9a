package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
	"github.com/chaisa2/student-productivity-help-app/internal/storage/sqlite"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
)

func newContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Config:    config.Default(),
		ConfigDir: t.TempDir(),
		Location:  time.UTC,
		Out:       out,
		In:        strings.NewReader(""),
	}
	ctx.SetClock(func() time.Time {
		return time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	})
	return ctx, out
}

func addTask(t *testing.T, store storage.Provider, title string) {
	t.Helper()
	ts, err := tasks.Open(store)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Add(tasks.NewTask{Title: title}); err != nil {
		t.Fatal(err)
	}
}

func TestInitJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyflow.json")
	ctx, out := newContext(t, storage.NewJSONStore(path))

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized studyflow storage at: "+path) {
		t.Errorf("unexpected output: %s", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("storage file not created: %v", err)
	}

	// A second init keeps the existing document
	addTask(t, ctx.Store, "Read chapter 3")
	out.Reset()
	ctx.Store = storage.NewJSONStore(path)
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Storage already initialized") {
		t.Errorf("unexpected output: %s", out.String())
	}
	ts, err := ctx.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.All()) != 1 {
		t.Errorf("expected existing task to survive, got %d tasks", len(ts.All()))
	}
}

func TestInitForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyflow.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	addTask(t, store, "Old task")

	ctx, out := newContext(t, store)
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing storage at: "+path) {
		t.Errorf("unexpected output: %s", out.String())
	}

	ts, err := ctx.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.All()) != 0 {
		t.Errorf("expected empty store after --force, got %d tasks", len(ts.All()))
	}
}

func TestInitForceRejectsSameSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyflow.db")
	ctx, _ := newContext(t, sqlite.NewStore(path))

	err := (&InitCmd{Force: true, Source: path}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "source and destination are the same") {
		t.Errorf("expected same-path error, got %v", err)
	}
}

func TestInitCopiesFromSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "old.json")
	src := storage.NewJSONStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	addTask(t, src, "Essay draft")
	addTask(t, src, "Lab report")

	dst := sqlite.NewStore(filepath.Join(dir, "studyflow.db"))
	ctx, out := newContext(t, dst)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Migration completed successfully! (1 collections)") {
		t.Errorf("unexpected output: %s", out.String())
	}

	ts, err := ctx.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.All()) != 2 {
		t.Errorf("expected 2 copied tasks, got %d", len(ts.All()))
	}
}
