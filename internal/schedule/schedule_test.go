package schedule

import (
	"reflect"
	"testing"
	"time"
)

type flushed struct {
	id   string
	rows []int
}

func newTestScheduler(t *testing.T, delay time.Duration) (*Scheduler, chan flushed) {
	t.Helper()
	out := make(chan flushed, 16)
	s := New(delay, func(id string, rows []int) {
		out <- flushed{id: id, rows: rows}
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s, out
}

func waitFlush(t *testing.T, out chan flushed) flushed {
	t.Helper()
	select {
	case f := <-out:
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("no flush within 2s")
	}
	return flushed{}
}

func TestCoalescesNotifications(t *testing.T) {
	s, out := newTestScheduler(t, 30*time.Millisecond)
	s.Notify("doc", 3, 1)
	s.Notify("doc", 1, 7)
	f := waitFlush(t, out)
	if f.id != "doc" || !reflect.DeepEqual(f.rows, []int{1, 3, 7}) {
		t.Fatalf("flush = %+v, want doc [1 3 7]", f)
	}
	select {
	case extra := <-out:
		t.Fatalf("unexpected second flush %+v", extra)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestNotifyRestartsWindow(t *testing.T) {
	delay := 80 * time.Millisecond
	s, out := newTestScheduler(t, delay)
	start := time.Now()
	s.Notify("doc", 1)
	time.Sleep(50 * time.Millisecond)
	s.Notify("doc", 2)
	f := waitFlush(t, out)
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond+delay {
		t.Fatalf("flushed after %v, want at least %v", elapsed, 50*time.Millisecond+delay)
	}
	if !reflect.DeepEqual(f.rows, []int{1, 2}) {
		t.Fatalf("rows = %v, want [1 2]", f.rows)
	}
}

func TestDocumentsFlushIndependently(t *testing.T) {
	s, out := newTestScheduler(t, 20*time.Millisecond)
	s.Notify("a", 1)
	s.Notify("b", 2)
	got := map[string][]int{}
	for i := 0; i < 2; i++ {
		f := waitFlush(t, out)
		got[f.id] = f.rows
	}
	want := map[string][]int{"a": {1}, "b": {2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flushes = %v, want %v", got, want)
	}
}

func TestFlushDeliversImmediately(t *testing.T) {
	s, out := newTestScheduler(t, time.Hour)
	s.Notify("doc", 5)
	s.Notify("doc", 4)
	s.Flush()
	select {
	case f := <-out:
		if !reflect.DeepEqual(f.rows, []int{4, 5}) {
			t.Fatalf("rows = %v, want [4 5]", f.rows)
		}
	default:
		t.Fatalf("Flush returned before delivering")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(time.Hour, func(string, []int) {})
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
	// neither blocks once stopped
	for i := 0; i < 100; i++ {
		s.Notify("doc", i)
	}
	s.Flush()
}
