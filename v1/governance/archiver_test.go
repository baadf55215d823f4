package governance

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func testArchiver(t *testing.T) (*Archiver, *fakeStore) {
	t.Helper()
	archiver, err := NewArchiver(ArchiverConfig{
		Endpoint:   "localhost:9000",
		BucketName: "audit",
		MaxBatch:   3,
	})
	if err != nil {
		t.Fatalf("NewArchiver failed: %v", err)
	}

	store := &fakeStore{objects: map[string][]byte{}}
	archiver.put = store.put
	archiver.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return archiver, store
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (s *fakeStore) put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStore) singleObject(t *testing.T) (string, []byte) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.objects) != 1 {
		t.Fatalf("expected exactly 1 object, got %d", len(s.objects))
	}
	for key, data := range s.objects {
		return key, data
	}
	return "", nil
}

func TestArchiverFlushWritesJSONLines(t *testing.T) {
	archiver, store := testArchiver(t)
	ctx := context.Background()

	_ = archiver.Write(ctx, Record{ActorID: "u1", Index: "patients", RowsIn: 5})
	_ = archiver.Write(ctx, Record{ActorID: "u2", Index: "patients", RowsIn: 2})
	if err := archiver.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	key, data := store.singleObject(t)
	if !strings.HasPrefix(key, "audit/2026/08/29/") {
		t.Fatalf("object key should be time partitioned, got %q", key)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var lines int
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", lines)
	}
}

func TestArchiverFlushesWhenBatchFull(t *testing.T) {
	archiver, store := testArchiver(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := archiver.Write(ctx, Record{ActorID: "u1"}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	store.mu.Lock()
	objects := len(store.objects)
	store.mu.Unlock()
	if objects != 1 {
		t.Fatalf("full batch should flush immediately, got %d objects", objects)
	}
}

func TestArchiverRetainsBatchOnFailure(t *testing.T) {
	archiver, store := testArchiver(t)
	ctx := context.Background()

	_ = archiver.Write(ctx, Record{ActorID: "u1"})
	store.fail = true
	if err := archiver.Flush(ctx); err == nil {
		t.Fatal("expected flush error")
	}

	store.fail = false
	if err := archiver.Flush(ctx); err != nil {
		t.Fatalf("retry flush failed: %v", err)
	}

	_, data := store.singleObject(t)
	if len(data) == 0 {
		t.Fatal("retried flush should carry the retained batch")
	}
}

func TestArchiverFlushEmptyIsNoop(t *testing.T) {
	archiver, store := testArchiver(t)

	if err := archiver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.objects) != 0 {
		t.Fatal("empty flush should write nothing")
	}
}
