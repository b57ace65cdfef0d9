// Package schedule coalesces dirty-row notifications. Rows reported for a
// document accumulate until no new notification for it has arrived for the
// configured delay; then they are delivered in one call.
package schedule

import (
	"sort"
	"time"

	"github.com/kobzarvs/elastictabs/internal/logger"
)

// FlushFunc receives the accumulated rows of one document, ascending and
// without duplicates. It runs on the scheduler goroutine.
type FlushFunc func(id string, rows []int)

type request struct {
	id   string
	rows []int
}

type pending struct {
	rows     map[int]struct{}
	deadline time.Time
}

type Scheduler struct {
	delay   time.Duration
	flush   FlushFunc
	reqCh   chan request
	flushCh chan chan struct{}
	stopCh  chan struct{}
	done    chan struct{}
}

func New(delay time.Duration, flush FlushFunc) *Scheduler {
	return &Scheduler{
		delay:   delay,
		flush:   flush,
		reqCh:   make(chan request, 64),
		flushCh: make(chan chan struct{}),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() error {
	go s.loop()
	return nil
}

// Stop ends the loop. Rows still waiting are dropped; call Flush first to
// deliver them.
func (s *Scheduler) Stop() error {
	select {
	case <-s.stopCh:
		return nil
	default:
		close(s.stopCh)
	}
	<-s.done
	return nil
}

// Notify marks rows of document id dirty and restarts its quiet window.
func (s *Scheduler) Notify(id string, rows ...int) {
	select {
	case s.reqCh <- request{id: id, rows: append([]int(nil), rows...)}:
	case <-s.stopCh:
	}
}

// Flush delivers everything pending now and returns once it is delivered.
func (s *Scheduler) Flush() {
	ack := make(chan struct{})
	select {
	case s.flushCh <- ack:
		<-ack
	case <-s.stopCh:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)
	docs := make(map[string]*pending)
	timer := time.NewTimer(s.delay)
	timer.Stop()
	var timerC <-chan time.Time

	reschedule := func() {
		var next time.Time
		for _, p := range docs {
			if next.IsZero() || p.deadline.Before(next) {
				next = p.deadline
			}
		}
		if next.IsZero() {
			timer.Stop()
			timerC = nil
			return
		}
		timer.Reset(time.Until(next))
		timerC = timer.C
	}

	add := func(req request) *pending {
		p, ok := docs[req.id]
		if !ok {
			p = &pending{rows: make(map[int]struct{})}
			docs[req.id] = p
		}
		for _, r := range req.rows {
			p.rows[r] = struct{}{}
		}
		return p
	}

	deliver := func(all bool) {
		now := time.Now()
		ids := make([]string, 0, len(docs))
		for id, p := range docs {
			if all || !p.deadline.After(now) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			rows := make([]int, 0, len(docs[id].rows))
			for r := range docs[id].rows {
				rows = append(rows, r)
			}
			sort.Ints(rows)
			delete(docs, id)
			logger.Debug("dirty rows flushed", "doc", id, "rows", len(rows))
			s.flush(id, rows)
		}
	}

	for {
		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case req := <-s.reqCh:
			add(req).deadline = time.Now().Add(s.delay)
			reschedule()
		case ack := <-s.flushCh:
			// Take requests already queued so Flush sees every Notify that
			// returned before it.
			for drained := false; !drained; {
				select {
				case req := <-s.reqCh:
					add(req)
				default:
					drained = true
				}
			}
			deliver(true)
			reschedule()
			close(ack)
		case <-timerC:
			deliver(false)
			reschedule()
		}
	}
}
