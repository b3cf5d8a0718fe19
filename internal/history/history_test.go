package history

import (
	"path/filepath"
	"strings"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openStore(t)

	id, err := s.StartRun("/data/orders.csv", "orders", "mysql")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if id == "" {
		t.Fatal("StartRun() returned empty id")
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", run.Status, StatusRunning)
	}
	if !run.FinishedAt.IsZero() {
		t.Error("FinishedAt should be zero while running")
	}

	if err := s.CompleteRun(id, 1234); err != nil {
		t.Fatalf("CompleteRun() error = %v", err)
	}

	run, err = s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != StatusSuccess {
		t.Errorf("Status = %q, want %q", run.Status, StatusSuccess)
	}
	if run.RowsLoaded != 1234 {
		t.Errorf("RowsLoaded = %d, want 1234", run.RowsLoaded)
	}
	if run.CSVPath != "/data/orders.csv" || run.TableName != "orders" || run.Engine != "mysql" {
		t.Errorf("run fields = %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set after completion")
	}
}

func TestFailRunKeepsPartialCount(t *testing.T) {
	s := openStore(t)

	id, err := s.StartRun("/data/orders.csv", "orders", "postgres")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FailRun(id, 20, "database error: inserting batch into orders: gone away"); err != nil {
		t.Fatalf("FailRun() error = %v", err)
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", run.Status, StatusFailed)
	}
	if run.RowsLoaded != 20 {
		t.Errorf("RowsLoaded = %d, want the partial count 20", run.RowsLoaded)
	}
	if !strings.Contains(run.Error, "inserting batch") {
		t.Errorf("Error = %q, want the failure message", run.Error)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	s := openStore(t)
	if err := s.CompleteRun("no-such-id", 1); err == nil {
		t.Error("CompleteRun() should fail for unknown run")
	}
}

func TestListRunsLimit(t *testing.T) {
	s := openStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.StartRun("/data/f.csv", "t", "mysql"); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("len(runs) = %d, want 3", len(runs))
	}

	all, err := s.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("len(all) = %d, want 5", len(all))
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := openStore(t)
	if err := s.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
