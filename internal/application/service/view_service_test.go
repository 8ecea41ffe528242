package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

func printedLine(id int64, customer, billNo string) entity.SaleLine {
	return line(id, customer, enum.BillStatusPrinted, billNo)
}

func TestPrintedGroupsIdempotent(t *testing.T) {
	printed := []entity.SaleLine{
		printedLine(1, "C1", "200"),
		printedLine(2, "C1", "200"),
		printedLine(3, "C2", "199"),
		printedLine(4, "C1", "198"),
	}

	groups := PrintedGroups(printed, "")

	// Re-flattening reproduces the original set.
	seen := make(map[int64]bool)
	total := 0
	for _, g := range groups {
		for _, l := range g.Lines {
			seen[l.ID] = true
			total++
			if l.CustomerCode != g.CustomerCode || l.BillNo != g.BillNo {
				t.Errorf("line %d grouped under (%s,%s)", l.ID, g.CustomerCode, g.BillNo)
			}
		}
	}
	if total != len(printed) || len(seen) != len(printed) {
		t.Fatalf("flattened %d distinct lines, want %d", len(seen), len(printed))
	}
}

func TestPrintedGroupsOrderAndFilter(t *testing.T) {
	printed := []entity.SaleLine{
		printedLine(1, "ALPHA", "7"),
		printedLine(2, "BETA", "12"),
		printedLine(3, "ALPHA", "X9"), // non-numeric sorts as zero
	}

	tests := []struct {
		name      string
		query     string
		wantBills []string
	}{
		{"no filter sorts numeric desc", "", []string{"12", "7", "X9"}},
		{"customer prefix, case-insensitive", "al", []string{"7", "X9"}},
		{"bill number prefix", "1", []string{"12"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := PrintedGroups(printed, tt.query)
			if len(groups) != len(tt.wantBills) {
				t.Fatalf("got %d groups, want %d", len(groups), len(tt.wantBills))
			}
			for i, g := range groups {
				if g.BillNo != tt.wantBills[i] {
					t.Errorf("group %d bill = %s, want %s", i, g.BillNo, tt.wantBills[i])
				}
			}
		})
	}
}

func TestHeldCustomersRecencyFallback(t *testing.T) {
	at := func(s string) *time.Time {
		ts, _ := time.Parse(time.RFC3339, s)
		return &ts
	}

	older := line(1, "OLD", enum.BillStatusHeld, "")
	older.Timestamp = at("2026-01-01T09:00:00Z")

	// No timestamp: falls back to created_at.
	mid := line(2, "MID", enum.BillStatusHeld, "")
	mid.CreatedAt = at("2026-01-01T10:00:00Z")

	// Only date.
	newest := line(3, "NEW", enum.BillStatusHeld, "")
	newest.Date = at("2026-01-01T11:00:00Z")

	// Two lines for one customer: the later one represents it.
	stale := line(4, "MID", enum.BillStatusHeld, "")
	stale.CreatedAt = at("2026-01-01T08:00:00Z")

	customers := HeldCustomers([]entity.SaleLine{stale, older, mid, newest}, "")

	want := []string{"NEW", "MID", "OLD"}
	if len(customers) != len(want) {
		t.Fatalf("got %d customers, want %d", len(customers), len(want))
	}
	for i, c := range customers {
		if c.CustomerCode != want[i] {
			t.Errorf("position %d = %s, want %s", i, c.CustomerCode, want[i])
		}
	}
	if customers[1].Latest.ID != 2 {
		t.Errorf("MID represented by line %d, want the more recent line 2", customers[1].Latest.ID)
	}
}

func TestHeldCustomersIDTiebreak(t *testing.T) {
	// Neither line has any timestamp; the higher id wins.
	a := line(1, "C1", enum.BillStatusHeld, "")
	b := line(9, "C1", enum.BillStatusHeld, "")

	customers := HeldCustomers([]entity.SaleLine{a, b}, "")
	if len(customers) != 1 || customers[0].Latest.ID != 9 {
		t.Fatalf("tiebreak picked %+v, want line 9", customers)
	}
}

func TestDisplayedRows(t *testing.T) {
	part := Partition{
		New: []entity.SaleLine{
			line(1, "C1", enum.BillStatusNone, ""),
			line(2, "C2", enum.BillStatusNone, ""),
		},
		Unprinted: []entity.SaleLine{
			line(3, "C1", enum.BillStatusHeld, ""),
			line(4, "C3", enum.BillStatusHeld, ""),
		},
		Printed: []entity.SaleLine{
			printedLine(5, "C1", "300"),
		},
	}

	tests := []struct {
		name    string
		sel     Selection
		wantIDs []int64 // reverse insertion order
	}{
		{"fresh shows only new lines", Selection{Mode: enum.ModeFresh}, []int64{2, 1}},
		{"held adds the customer's tab", Selection{Mode: enum.ModeHeldCustomer, CustomerCode: "C1"}, []int64{3, 2, 1}},
		{"printed adds the bill's lines", Selection{Mode: enum.ModePrintedBill, CustomerCode: "C1", BillNo: "300"}, []int64{5, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := DisplayedRows(part, tt.sel)
			if len(rows) != len(tt.wantIDs) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.wantIDs))
			}
			for i, r := range rows {
				if r.ID != tt.wantIDs[i] {
					t.Errorf("row %d = line %d, want %d", i, r.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeTotals(t *testing.T) {
	withTotal := func(l entity.SaleLine, total string) entity.SaleLine {
		l.Total = decimal.NullDecimal{Decimal: dec(total), Valid: true}
		return l
	}

	priced := func(id int64, weight, price string) entity.SaleLine {
		l := line(id, "C1", enum.BillStatusNone, "")
		l.Weight = dec(weight)
		l.PricePerKg = dec(price)
		return l
	}

	rows := []entity.SaleLine{
		withTotal(priced(1, "10", "5"), "56"), // 3 packs at pack due 2
		priced(2, "2", "20"),                  // no stored total: falls back to 40
		withTotal(priced(3, "4", "25"), "90"), // stored total below weight cost
	}

	totals := ComputeTotals(rows)

	if want := dec("190"); !totals.SalesTotal.Equal(want) {
		t.Errorf("sales total = %s, want %s", totals.SalesTotal, want)
	}
	// Line 3's discrepancy (90 - 100 = -10) floors to zero; only line 1
	// contributes 6.
	if want := dec("6"); !totals.PackCost.Equal(want) {
		t.Errorf("pack cost = %s, want %s", totals.PackCost, want)
	}
	if totals.PackCost.IsNegative() {
		t.Error("pack cost went negative")
	}
	if want := dec("186"); !totals.GrandTotal.Equal(want) {
		t.Errorf("grand total = %s, want %s", totals.GrandTotal, want)
	}
}

func TestSummarizeItems(t *testing.T) {
	named := func(id int64, item, weight string, packs int) entity.SaleLine {
		l := line(id, "C1", enum.BillStatusNone, "")
		l.ItemName = item
		l.Weight = dec(weight)
		l.Packs = packs
		return l
	}

	items := SummarizeItems([]entity.SaleLine{
		named(1, "KELAWALLA", "10.5", 2),
		named(2, "PARAW", "3", 1),
		named(3, "KELAWALLA", "4.5", 0),
	})

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ItemName != "KELAWALLA" || !items[0].Weight.Equal(dec("15")) || items[0].Packs != 2 {
		t.Errorf("KELAWALLA summary wrong: %+v", items[0])
	}
	if items[1].ItemName != "PARAW" || !items[1].Weight.Equal(dec("3")) {
		t.Errorf("PARAW summary wrong: %+v", items[1])
	}
}
