package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func paths(c Change) []string {
	var out []string
	for _, e := range c.Events {
		out = append(out, e.Path)
	}
	return out
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	flushed := make(chan Change, 4)
	d := NewDebouncer(20*time.Millisecond, 100, func(c Change) { flushed <- c })

	for i := 0; i < 5; i++ {
		d.Add(FileEvent{Path: "b.svg", Type: EventModify, Concern: ConcernMaster})
	}
	d.Add(FileEvent{Path: "a.yaml", Type: EventModify, Concern: ConcernConfig})

	select {
	case c := <-flushed:
		if diff := cmp.Diff([]string{"a.yaml", "b.svg"}, paths(c)); diff != "" {
			t.Errorf("batch mismatch (-want +got):\n%s", diff)
		}
		if !c.Has(ConcernConfig) || !c.Has(ConcernMaster) || c.Has(ConcernTable) {
			t.Errorf("concerns of %+v", c)
		}
		if diff := cmp.Diff([]string{"b.svg"}, c.Paths(ConcernMaster)); diff != "" {
			t.Errorf("master paths mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}

	d.Stop()
	d.Add(FileEvent{Path: "c.svg"})
	select {
	case c := <-flushed:
		t.Errorf("flush after Stop: %v", c)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	tests := []struct {
		name   string
		events []EventType
		want   []EventType
	}{
		{"save by replace", []EventType{EventDelete, EventCreate}, []EventType{EventModify}},
		{"rename then create", []EventType{EventRename, EventCreate, EventModify}, []EventType{EventModify}},
		{"new file written", []EventType{EventCreate, EventModify}, []EventType{EventCreate}},
		{"temporary file", []EventType{EventCreate, EventModify, EventDelete}, nil},
		{"removed", []EventType{EventModify, EventDelete}, []EventType{EventDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []EventType
			d := NewDebouncer(time.Hour, 0, func(c Change) {
				for _, e := range c.Events {
					got = append(got, e.Type)
				}
			})
			for _, typ := range tt.events {
				d.Add(FileEvent{Path: "dip.svg", Type: typ})
			}
			d.Stop()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("flushed types mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDebouncerMaxBatch(t *testing.T) {
	var mu sync.Mutex
	var sizes []int
	d := NewDebouncer(time.Hour, 2, func(c Change) {
		mu.Lock()
		sizes = append(sizes, len(c.Events))
		mu.Unlock()
	})
	d.Add(FileEvent{Path: "a"})
	d.Add(FileEvent{Path: "b"})
	d.Add(FileEvent{Path: "c"})
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]int{2, 1}, sizes); diff != "" {
		t.Errorf("batch sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherReportsFollowedFiles(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "dip.svg")
	other := filepath.Join(dir, "notes.txt")
	for _, f := range []string{master, other} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := DefaultConfig()
	cfg.DebounceWindow = 50 * time.Millisecond
	batches := make(chan Change, 8)
	w, err := New(cfg, func(c Change) { batches <- c })
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Add(master, ConcernMaster); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := w.Add(filepath.Join(dir, ".dip.svg.swp"), ConcernMaster); err == nil {
		t.Error("Add() accepted an ignored path")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to start receiving.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(other, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(master, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-batches:
		for _, e := range c.Events {
			if e.Path != master || e.Concern != ConcernMaster {
				t.Errorf("unexpected event %+v", e)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error: %v", err)
	}
}
