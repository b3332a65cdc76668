package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

func TestCommitGrowsCollectionAppendOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultLeadsFile)
	sink := NewFileLeadSink(path)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	const n = 4
	for i := 0; i < n; i++ {
		p := &statex.LeadProfile{
			Name:    fmt.Sprintf("Lead %d", i),
			Email:   fmt.Sprintf("lead%d@example.com", i),
			UseCase: "fiber internet",
		}
		if err := sink.Commit(context.Background(), p.Record(now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Commit() #%d error = %v", i, err)
		}
	}

	records := readLeads(t, path)
	if len(records) != n {
		t.Fatalf("expected %d records, got %d", n, len(records))
	}
	for i, rec := range records {
		if rec.Name != fmt.Sprintf("Lead %d", i) {
			t.Fatalf("record %d out of order or mutated: %+v", i, rec)
		}
	}
}

func TestCommitToleratesMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", DefaultLeadsFile)
	sink := NewFileLeadSink(path)

	p := &statex.LeadProfile{Name: "Sita", Email: "sita@example.com", UseCase: "gaming"}
	if err := sink.Commit(context.Background(), p.Record(time.Now())); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if got := len(readLeads(t, path)); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
}

func TestCommitToleratesCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultLeadsFile)
	if err := os.WriteFile(path, []byte("{{{ not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	sink := NewFileLeadSink(path)
	p := &statex.LeadProfile{Name: "Sita", Email: "sita@example.com", UseCase: "gaming"}
	if err := sink.Commit(context.Background(), p.Record(time.Now())); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	records := readLeads(t, path)
	if len(records) != 1 || records[0].Name != "Sita" {
		t.Fatalf("unexpected records after corrupt recovery: %+v", records)
	}
}

func TestCommitHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultLeadsFile)
	sink := NewFileLeadSink(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &statex.LeadProfile{Name: "Sita"}
	if err := sink.Commit(ctx, p.Record(time.Now())); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("cancelled commit must not write the collection")
	}
}

func readLeads(t *testing.T, path string) []statex.LeadRecord {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var records []statex.LeadRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return records
}
