package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func digestOf(b byte) Digest {
	var d Digest
	d[0] = b
	return d
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	if changed := s.Update([]byte("line one"), digestOf(1), nil); !changed {
		t.Fatalf("Update changed = false, want true on first read")
	}

	snap := s.Snapshot()
	if !snap.HasData() || snap.Version != 1 {
		t.Fatalf("snapshot = %+v, want version 1 with data", snap)
	}
	if string(snap.Raw) != "line one" {
		t.Fatalf("Raw = %q, want %q", snap.Raw, "line one")
	}
	if snap.LastUpdated.Before(before) || snap.LastChanged.Before(before) {
		t.Fatalf("timestamps = %v/%v, want >= %v", snap.LastUpdated, snap.LastChanged, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Raw[0] = 'X'
	if got := s.Snapshot().Raw[0]; got != 'l' {
		t.Fatalf("Snapshot should clone raw; got %q", got)
	}
}

func TestStore_UnchangedDigestKeepsVersion(t *testing.T) {
	var s Store

	s.Update([]byte("a"), digestOf(1), nil)
	first := s.Snapshot()

	if changed := s.Update([]byte("a"), digestOf(1), nil); changed {
		t.Fatalf("Update changed = true for identical digest")
	}
	if got := s.Version(); got != 1 {
		t.Fatalf("Version = %d, want 1", got)
	}
	if got := s.Snapshot().LastChanged; !got.Equal(first.LastChanged) {
		t.Fatalf("LastChanged moved to %v", got)
	}

	if changed := s.Update([]byte("ab"), digestOf(2), nil); !changed {
		t.Fatalf("Update changed = false for new digest")
	}
	if got := s.Version(); got != 2 {
		t.Fatalf("Version = %d, want 2", got)
	}
}

func TestStore_EmptyFirstReadCountsAsData(t *testing.T) {
	var s Store
	s.Update(nil, Digest{}, nil)
	if !s.Snapshot().HasData() {
		t.Fatalf("HasData = false after successful empty read")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]byte("kept"), digestOf(1), nil)

	origErr := errors.New("boom")
	if changed := s.Update(nil, Digest{}, origErr); changed {
		t.Fatalf("Update changed = true on error")
	}

	snap := s.Snapshot()
	if string(snap.Raw) != "kept" || snap.Version != 1 {
		t.Fatalf("data changed on error: %+v", snap)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	tests := []struct {
		err      error
		failures int
		offline  bool
	}{
		{errors.New("fail 1"), 1, false},
		{errors.New("fail 2"), 2, true},
		{errors.New("fail 3"), 3, true},
		{nil, 0, false},
	}
	for i, tt := range tests {
		s.Update([]byte("x"), digestOf(1), tt.err)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != tt.failures {
			t.Fatalf("step %d: ConsecutiveFailures = %d, want %d", i, snap.ConsecutiveFailures, tt.failures)
		}
		if snap.IsOffline() != tt.offline {
			t.Fatalf("step %d: IsOffline() = %v, want %v", i, snap.IsOffline(), tt.offline)
		}
	}
}

func TestStore_StatusOmitsContents(t *testing.T) {
	var s Store
	s.Update([]byte("payload"), digestOf(7), nil)
	s.Update(nil, Digest{}, errors.New("transient"))

	st := s.Status()
	if st.Raw != nil {
		t.Fatalf("Status Raw = %q, want nil", st.Raw)
	}
	if st.Version != 1 || st.ConsecutiveFailures != 1 || st.LastError == nil {
		t.Fatalf("Status = %+v, want version 1 with one failure", st)
	}
}
