package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

// The derived view functions are pure: they compute projections of the
// ledger partition plus the current selection and search query, and are
// recomputed on every state change.

// PrintedGroup is one closed bill: all lines sharing (customer, bill no).
type PrintedGroup struct {
	CustomerCode string            `json:"customer_code"`
	BillNo       string            `json:"bill_no"`
	Lines        []entity.SaleLine `json:"lines"`
}

// HeldCustomer is one open tab, represented by its most recent line.
type HeldCustomer struct {
	CustomerCode string          `json:"customer_code"`
	Latest       entity.SaleLine `json:"latest"`
}

// matchesPrefix does the case-insensitive prefix match of the search
// filter. An empty query matches everything.
func matchesPrefix(value, query string) bool {
	if query == "" {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(value), strings.ToUpper(query))
}

// billNoValue parses a bill number for numeric ordering. Non-numeric bill
// numbers sort as zero.
func billNoValue(billNo string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(billNo), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// PrintedGroups groups printed lines by (customer, bill no), filters by the
// query against customer code or bill number, and sorts by bill number
// descending.
func PrintedGroups(printed []entity.SaleLine, query string) []PrintedGroup {
	type key struct{ customer, bill string }
	index := make(map[key]int)
	var groups []PrintedGroup

	for _, line := range printed {
		k := key{line.CustomerCode, line.BillNo}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, PrintedGroup{CustomerCode: k.customer, BillNo: k.bill})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}

	if query != "" {
		filtered := groups[:0]
		for _, g := range groups {
			if matchesPrefix(g.CustomerCode, query) || matchesPrefix(g.BillNo, query) {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return billNoValue(groups[i].BillNo) > billNoValue(groups[j].BillNo)
	})
	return groups
}

// HeldCustomers reduces unprinted lines to one entry per customer, keeping
// the most recent line, and sorts by that recency descending.
func HeldCustomers(unprinted []entity.SaleLine, query string) []HeldCustomer {
	index := make(map[string]int)
	var customers []HeldCustomer

	for _, line := range unprinted {
		i, ok := index[line.CustomerCode]
		if !ok {
			index[line.CustomerCode] = len(customers)
			customers = append(customers, HeldCustomer{CustomerCode: line.CustomerCode, Latest: line})
			continue
		}
		if moreRecent(&line, &customers[i].Latest) {
			customers[i].Latest = line
		}
	}

	if query != "" {
		filtered := customers[:0]
		for _, c := range customers {
			if matchesPrefix(c.CustomerCode, query) {
				filtered = append(filtered, c)
			}
		}
		customers = filtered
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return moreRecent(&customers[i].Latest, &customers[j].Latest)
	})
	return customers
}

func moreRecent(a, b *entity.SaleLine) bool {
	ka, kb := a.RecencyKey(), b.RecencyKey()
	if !ka.Equal(kb) {
		return ka.After(kb)
	}
	return a.RecencyTiebreak() > b.RecencyTiebreak()
}

// DisplayedRows computes the rows the entry grid shows: all new lines plus
// the lines matching the active selection, most recent first.
func DisplayedRows(p Partition, sel Selection) []entity.SaleLine {
	var rows []entity.SaleLine
	rows = append(rows, p.New...)
	if sel.Mode != enum.ModeFresh {
		for _, line := range append(append([]entity.SaleLine{}, p.Printed...), p.Unprinted...) {
			if sel.Matches(&line) {
				rows = append(rows, line)
			}
		}
	}

	// Reverse insertion order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

// Totals are the aggregate figures over the displayed rows.
type Totals struct {
	// SalesTotal is the weight-based headline figure, pack due excluded.
	SalesTotal decimal.Decimal `json:"sales_total"`
	// PackCost is the pack-due portion. A stored total lower than the
	// weight cost contributes zero, never a negative amount.
	PackCost decimal.Decimal `json:"pack_cost"`
	// GrandTotal sums the line display amounts.
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals aggregates the displayed rows.
func ComputeTotals(rows []entity.SaleLine) Totals {
	t := Totals{
		SalesTotal: decimal.Zero,
		PackCost:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for i := range rows {
		line := &rows[i]
		weightCost := line.WeightCost()
		t.SalesTotal = t.SalesTotal.Add(weightCost)
		t.GrandTotal = t.GrandTotal.Add(line.LineAmount())

		if line.Total.Valid {
			packCost := line.Total.Decimal.Sub(weightCost)
			if packCost.IsPositive() {
				t.PackCost = t.PackCost.Add(packCost)
			}
		}
	}
	return t
}

// ItemSummary is one badge of the compact per-item list.
type ItemSummary struct {
	ItemName string          `json:"item_name"`
	Weight   decimal.Decimal `json:"weight"`
	Packs    int             `json:"packs"`
}

// SummarizeItems groups displayed rows by item name, summing weight and
// packs, in first-appearance order.
func SummarizeItems(rows []entity.SaleLine) []ItemSummary {
	index := make(map[string]int)
	var items []ItemSummary

	for _, line := range rows {
		i, ok := index[line.ItemName]
		if !ok {
			i = len(items)
			index[line.ItemName] = i
			items = append(items, ItemSummary{ItemName: line.ItemName, Weight: decimal.Zero})
		}
		items[i].Weight = items[i].Weight.Add(line.Weight)
		items[i].Packs += line.Packs
	}
	return items
}
