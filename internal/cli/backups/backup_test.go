package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chaisa2/student-productivity-help-app/internal/backup"
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studyflow.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:  store,
		Config: config.Default(),
		Out:    out,
		In:     strings.NewReader(""),
	}
	return ctx, out, path
}

func addTask(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	store, err := ctx.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(tasks.NewTask{Title: title}); err != nil {
		t.Fatal(err)
	}
}

func taskTitles(t *testing.T, path string) []string {
	t.Helper()
	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	ts, err := tasks.Open(store)
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, task := range ts.All() {
		titles = append(titles, task.Title)
	}
	return titles
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, path := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "No backups found.") {
		t.Errorf("empty listing = %q", out.String())
	}

	addTask(t, ctx, "Essay")
	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "✓ Backup created: studyflow-") {
		t.Errorf("create output = %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "Available backups (1 total, keeping most recent 14)") || !strings.Contains(s, " B, ") {
		t.Errorf("listing = %q", s)
	}
	if !strings.Contains(s, backup.NewManager(path).GetBackupDir()) {
		t.Errorf("listing should name the backup directory: %q", s)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, path := setupTestContext(t)
	addTask(t, ctx, "Before")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("backups = %v, %v", backups, err)
	}
	name := filepath.Base(backups[0].Path)

	addTask(t, ctx, "After")

	ctx.In = strings.NewReader("n\n")
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("declined restore output = %q", out.String())
	}
	if got := taskTitles(t, path); len(got) != 2 {
		t.Fatalf("declined restore changed the data: %v", got)
	}

	ctx.In = strings.NewReader("y\n")
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Data restored successfully!") || !strings.Contains(out.String(), "Previous data saved as:") {
		t.Errorf("restore output = %q", out.String())
	}
	got := taskTitles(t, path)
	if len(got) != 1 || got[0] != "Before" {
		t.Errorf("restored tasks = %v", got)
	}

	if err := (&BackupRestoreCmd{BackupFile: "missing.json", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupUnsupportedStore(t *testing.T) {
	ctx := &cli.Context{Store: fakePostgres{}, Out: &bytes.Buffer{}}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backups of a database server should be rejected")
	}
}

type fakePostgres struct{ storage.Provider }

func (fakePostgres) GetConfigPath() string { return "postgresql://localhost:5432/studyflow" }
