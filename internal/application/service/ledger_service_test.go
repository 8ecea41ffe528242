package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

func line(id int64, customer string, status enum.BillStatus, billNo string) entity.SaleLine {
	return entity.SaleLine{
		ID:           id,
		CustomerCode: customer,
		BillPrinted:  status,
		BillNo:       billNo,
		Weight:       decimal.NewFromInt(1),
		PricePerKg:   decimal.NewFromInt(100),
	}
}

func TestPartitionExhaustive(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]entity.SaleLine{
		line(1, "C1", enum.BillStatusNone, ""),
		line(2, "C1", enum.BillStatusHeld, ""),
		line(3, "C2", enum.BillStatusPrinted, "101"),
		line(4, "C2", enum.BillStatusHeld, ""),
		line(5, "C3", enum.BillStatusNone, ""),
	})

	p := l.Partition()

	if got := len(p.New) + len(p.Printed) + len(p.Unprinted); got != 5 {
		t.Fatalf("partition covers %d lines, want 5", got)
	}

	seen := make(map[int64]int)
	for _, l := range p.New {
		seen[l.ID]++
	}
	for _, l := range p.Printed {
		seen[l.ID]++
	}
	for _, l := range p.Unprinted {
		seen[l.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("line %d appears in %d partitions, want exactly 1", id, n)
		}
	}
}

func TestPartitionSkipsPending(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]entity.SaleLine{
		line(0, "C1", enum.BillStatusNone, ""),
		line(1, "C1", enum.BillStatusNone, ""),
	})

	p := l.Partition()
	if len(p.New) != 1 || len(p.Printed) != 0 || len(p.Unprinted) != 0 {
		t.Fatalf("pending line leaked into a partition: %+v", p)
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]entity.SaleLine{line(1, "C1", enum.BillStatusNone, "")})

	updated := line(1, "C1", enum.BillStatusHeld, "")
	l.Upsert(updated)

	if got := len(l.Snapshot()); got != 1 {
		t.Fatalf("ledger has %d lines after upsert, want 1", got)
	}
	stored, ok := l.Get(1)
	if !ok || stored.BillPrinted != enum.BillStatusHeld {
		t.Fatalf("upsert did not replace line 1: %+v", stored)
	}

	l.Upsert(line(2, "C2", enum.BillStatusNone, ""))
	if got := len(l.Snapshot()); got != 2 {
		t.Fatalf("ledger has %d lines after insert, want 2", got)
	}
}

func TestRemove(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]entity.SaleLine{
		line(1, "C1", enum.BillStatusNone, ""),
		line(2, "C1", enum.BillStatusNone, ""),
	})

	l.Remove(1)
	if _, ok := l.Get(1); ok {
		t.Fatal("line 1 still present after Remove")
	}
	if _, ok := l.Get(2); !ok {
		t.Fatal("Remove deleted the wrong line")
	}
}

func TestMarkPrintedPatchesOnlyTargets(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]entity.SaleLine{
		line(1, "C1", enum.BillStatusHeld, ""),
		line(2, "C1", enum.BillStatusHeld, ""),
		line(3, "C2", enum.BillStatusHeld, ""),
	})

	l.MarkPrinted([]int64{1, 2}, "500")

	for _, id := range []int64{1, 2} {
		got, _ := l.Get(id)
		if got.BillPrinted != enum.BillStatusPrinted || got.BillNo != "500" {
			t.Errorf("line %d = (%s, %q), want (Y, 500)", id, got.BillPrinted, got.BillNo)
		}
	}
	other, _ := l.Get(3)
	if other.BillPrinted != enum.BillStatusHeld || other.BillNo != "" {
		t.Errorf("line 3 was patched but was not a target: %+v", other)
	}
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	l := NewLedger()
	ch := l.Subscribe()

	l.ReplaceAll([]entity.SaleLine{line(1, "C1", enum.BillStatusNone, "")})
	select {
	case <-ch:
	default:
		t.Fatal("no notification after ReplaceAll")
	}

	// Burst of mutations coalesces to at least one signal.
	l.Upsert(line(2, "C1", enum.BillStatusNone, ""))
	l.Remove(1)
	select {
	case <-ch:
	default:
		t.Fatal("no notification after mutation burst")
	}
}
