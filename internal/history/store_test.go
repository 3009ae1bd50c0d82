package history

import (
	"context"
	"path/filepath"
	"testing"

	"shuttersort/internal/organize"
	"shuttersort/internal/plan"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "/in", "/out", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	sink := store.Sink(runID)
	record := organize.OperationRecord{
		Source:      "/in/a.jpg",
		Destination: "/out/2024/07/a.jpg",
		Status:      organize.StatusCopied,
		Bucket:      plan.BucketDated,
		Digest:      "abc123",
		DateSource:  "metadata",
	}
	if err := sink.Record(ctx, record); err != nil {
		t.Fatalf("Record: %v", err)
	}

	summary := organize.Summary{Scanned: 1, Copied: 1}
	if err := store.FinishRun(ctx, runID, summary); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Copied != 1 || run.Scanned != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.FinishedAt.IsZero() || run.FinishedAt.Before(run.StartedAt) {
		t.Fatalf("bad timestamps: %+v", run)
	}

	operations, err := store.RunOperations(ctx, runID)
	if err != nil {
		t.Fatalf("RunOperations: %v", err)
	}
	if len(operations) != 1 {
		t.Fatalf("expected one operation, got %d", len(operations))
	}
	if operations[0].Status != string(organize.StatusCopied) || operations[0].Destination != record.Destination {
		t.Fatalf("unexpected operation: %+v", operations[0])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := store.BeginRun(ctx, "/in", "/out", false)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("expected newest first: %+v", runs)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening should replay no migrations: %v", err)
	}
	_ = second.Close()
}
