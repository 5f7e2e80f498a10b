package enrich

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/api"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
)

type fakeTriggerSource struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeTriggerSource) StartEnrichment(ctx context.Context, companyID int) (*dto.EnrichStartResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EnrichStartResponse{Message: "Contact enrichment started", CompanyID: companyID}, nil
}

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestStartSuccess(t *testing.T) {
	source := &fakeTriggerSource{}
	trigger := NewTrigger(source, quietLogger())

	resp, err := trigger.Start(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.CompanyID != 42 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if trigger.Pending() {
		t.Fatalf("pending flag must clear after the request resolves")
	}
	if trigger.Err() != nil {
		t.Fatalf("unexpected stored error: %v", trigger.Err())
	}
}

func TestStartConflictKeepsErrorDistinct(t *testing.T) {
	source := &fakeTriggerSource{err: &api.Error{
		StatusCode: http.StatusConflict,
		Detail:     "Enrichment already in progress",
	}}
	trigger := NewTrigger(source, quietLogger())

	_, err := trigger.Start(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error")
	}
	// callers route this to the advisory path, not the generic failure path
	if !api.IsConflict(err) {
		t.Fatalf("conflict must stay detectable, got %v", err)
	}
	if trigger.Pending() {
		t.Fatalf("pending flag must clear after a conflict")
	}
}

func TestStartRejectsOverlappingRequests(t *testing.T) {
	source := &fakeTriggerSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	trigger := NewTrigger(source, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := trigger.Start(context.Background(), 42)
		done <- err
	}()
	<-source.started

	if !trigger.Pending() {
		t.Fatalf("expected pending while request is in flight")
	}
	if _, err := trigger.Start(context.Background(), 42); !errors.Is(err, ErrTriggerInFlight) {
		t.Fatalf("expected ErrTriggerInFlight, got %v", err)
	}

	close(source.release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from first request: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected a single backend call, got %d", source.calls)
	}
}

func TestStartRecordsLastError(t *testing.T) {
	source := &fakeTriggerSource{}
	trigger := NewTrigger(source, quietLogger())
	if _, err := trigger.Start(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trigger.Err() != nil {
		t.Fatalf("expected no stored error, got %v", trigger.Err())
	}

	source.err = errors.New("backend unavailable")
	if _, err := trigger.Start(context.Background(), 7); err == nil {
		t.Fatalf("expected error")
	}
	if trigger.Err() == nil {
		t.Fatalf("expected last error recorded")
	}
	if source.calls != 2 {
		t.Fatalf("expected two calls, got %d", source.calls)
	}
}
