package service

import (
	"sync"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

// Partition is the three-way split of the ledger by billing status.
// Pending lines (no id) never enter the ledger, so the split is exhaustive
// and the three views are disjoint.
type Partition struct {
	// New lines are persisted but neither printed nor held.
	New []entity.SaleLine
	// Printed lines belong to closed, numbered bills.
	Printed []entity.SaleLine
	// Unprinted lines sit on customers' held tabs.
	Unprinted []entity.SaleLine
}

// Ledger is the authoritative in-memory set of sale lines for the active
// session. Every mutating operation notifies subscribers, replacing the
// original UI's forced re-render signal.
type Ledger struct {
	mu    sync.RWMutex
	lines []entity.SaleLine
	subs  []chan struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Subscribe returns a channel that receives a signal after every mutating
// operation. The signal is coalescing: a slow consumer sees at least one
// notification for any burst of mutations.
func (l *Ledger) Subscribe() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan struct{}, 1)
	l.subs = append(l.subs, ch)
	return ch
}

func (l *Ledger) notify() {
	for _, ch := range l.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ReplaceAll swaps the entire ledger for the backend's current sales set.
func (l *Ledger) ReplaceAll(lines []entity.SaleLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = make([]entity.SaleLine, len(lines))
	copy(l.lines, lines)
	l.notify()
}

// Snapshot returns a copy of all lines in insertion order.
func (l *Ledger) Snapshot() []entity.SaleLine {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.SaleLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Get returns the line with the given id.
func (l *Ledger) Get(id int64) (entity.SaleLine, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.lines {
		if l.lines[i].ID == id {
			return l.lines[i], true
		}
	}
	return entity.SaleLine{}, false
}

// Upsert inserts a server-confirmed line, or replaces the existing line
// with the same id. It never invents server-assigned fields: the caller
// passes exactly what the backend returned.
func (l *Ledger) Upsert(line entity.SaleLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ID == line.ID {
			l.lines[i] = line
			l.notify()
			return
		}
	}
	l.lines = append(l.lines, line)
	l.notify()
}

// Remove deletes the line with the given id, if present.
func (l *Ledger) Remove(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ID == id {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			l.notify()
			return
		}
	}
}

// MarkPrinted patches the given ids to printed status with the assigned
// bill number. This is the optimistic closure patch applied after the
// backend confirms a bill close but before the receipt renders.
func (l *Ledger) MarkPrinted(ids []int64, billNo string) {
	idSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if idSet[l.lines[i].ID] {
			l.lines[i].BillPrinted = enum.BillStatusPrinted
			l.lines[i].BillNo = billNo
		}
	}
	l.notify()
}

// MarkHeld patches the given ids onto the held tab after the backend
// confirms a mark-all-processed call.
func (l *Ledger) MarkHeld(ids []int64) {
	idSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if idSet[l.lines[i].ID] {
			l.lines[i].BillPrinted = enum.BillStatusHeld
		}
	}
	l.notify()
}

// Partition derives the three disjoint views. Each persisted line falls
// into exactly one of them.
func (l *Ledger) Partition() Partition {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var p Partition
	for _, line := range l.lines {
		if line.IsPending() {
			continue
		}
		switch line.BillPrinted {
		case enum.BillStatusPrinted:
			p.Printed = append(p.Printed, line)
		case enum.BillStatusHeld:
			p.Unprinted = append(p.Unprinted, line)
		default:
			p.New = append(p.New, line)
		}
	}
	return p
}
