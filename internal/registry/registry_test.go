package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"server/internal/domain"
)

func record(requestID, videoID string) domain.VideoRequest {
	return domain.VideoRequest{
		RequestID:  requestID,
		VideoID:    videoID,
		ScriptText: "hello",
		TemplateID: "tpl-1",
		Status:     domain.StatusProcessing,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInsertAndGet(t *testing.T) {
	r := New()
	if err := r.Insert(record("req-1", "vid-1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := r.Get("req-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.VideoID != "vid-1" {
		t.Fatalf("video id = %q, want vid-1", got.VideoID)
	}
	if got.Status != domain.StatusProcessing {
		t.Fatalf("status = %q, want processing", got.Status)
	}

	if _, err := r.Get("req-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertDuplicateFails(t *testing.T) {
	r := New()
	if err := r.Insert(record("req-1", "vid-1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := r.Insert(record("req-1", "vid-2"))
	if !errors.Is(err, domain.ErrDuplicateOperation) {
		t.Fatalf("expected ErrDuplicateOperation, got %v", err)
	}
	// the original record must be untouched
	got, err := r.Get("req-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.VideoID != "vid-1" {
		t.Fatalf("video id = %q, want vid-1", got.VideoID)
	}
}

func TestFindByVideoID(t *testing.T) {
	r := New()
	for i := 0; i < 3; i++ {
		if err := r.Insert(record(fmt.Sprintf("req-%d", i), fmt.Sprintf("vid-%d", i))); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	id, err := r.FindByVideoID("vid-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if id != "req-1" {
		t.Fatalf("request id = %q, want req-1", id)
	}

	if _, err := r.FindByVideoID("vid-nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusIsBestEffort(t *testing.T) {
	r := New()
	if err := r.Insert(record("req-1", "vid-1")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	checked := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !r.UpdateStatus("req-1", domain.StatusCompleted, checked) {
		t.Fatalf("update on existing record should apply")
	}
	got, _ := r.Get("req-1")
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.LastCheckedAt == nil || !got.LastCheckedAt.Equal(checked) {
		t.Fatalf("last checked = %v, want %v", got.LastCheckedAt, checked)
	}

	if r.UpdateStatus("req-unknown", domain.StatusFailed, checked) {
		t.Fatalf("update on absent record must be a no-op")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		if err := r.Insert(record(fmt.Sprintf("req-%d", i), fmt.Sprintf("vid-%d", i))); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	recs := r.List()
	if len(recs) != 5 {
		t.Fatalf("len = %d, want 5", len(recs))
	}
	for i, rec := range recs {
		if want := fmt.Sprintf("req-%d", i); rec.RequestID != want {
			t.Fatalf("recs[%d] = %q, want %q", i, rec.RequestID, want)
		}
	}
	if r.Len() != 5 {
		t.Fatalf("Len = %d, want 5", r.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := New()
	if err := r.Insert(record("req-1", "vid-1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, _ := r.Get("req-1")
	got.Status = "mutated"
	again, _ := r.Get("req-1")
	if again.Status != domain.StatusProcessing {
		t.Fatalf("stored record mutated through returned copy")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("req-%d", i)
			if err := r.Insert(record(id, fmt.Sprintf("vid-%d", i))); err != nil {
				t.Errorf("insert %s: %v", id, err)
				return
			}
			r.UpdateStatus(id, domain.StatusCompleted, time.Now().UTC())
			if _, err := r.Get(id); err != nil {
				t.Errorf("get %s: %v", id, err)
			}
			r.List()
		}(i)
	}
	wg.Wait()
	if r.Len() != 50 {
		t.Fatalf("Len = %d, want 50", r.Len())
	}
}
