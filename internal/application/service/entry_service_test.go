package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

func TestTotalRecompute(t *testing.T) {
	tests := []struct {
		name    string
		weight  string
		price   string
		packs   string
		packDue string
		want    string // blank means the total renders empty
	}{
		{"weight, price and packs", "10", "5", "3", "2", "56.00"},
		{"weight and price only", "2.5", "100", "", "", "250.00"},
		{"untouched form stays blank", "", "", "", "", ""},
		{"zero result renders blank, not 0.00", "0", "100", "", "", ""},
		{"packs without pack due", "1", "50", "4", "", "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &EntryForm{PackDue: tt.packDue}
			f.SetField(enum.FieldWeight, tt.weight)
			f.SetField(enum.FieldPricePerKg, tt.price)
			f.SetField(enum.FieldPacks, tt.packs)

			if f.Total != tt.want {
				t.Errorf("total = %q, want %q", f.Total, tt.want)
			}
		})
	}
}

func TestApplyItemClearsQuantities(t *testing.T) {
	item := entity.Item{Code: "I01", Name: "KELAWALLA", PackDue: decimal.NewFromInt(2)}

	f := &EntryForm{Weight: "10", PricePerKg: "5", Packs: "3", Total: "56.00"}
	f.ApplyItem(item, false)

	if f.ItemCode != "I01" || f.ItemName != "KELAWALLA" || f.PackDue != "2" {
		t.Errorf("item fields not applied: %+v", f)
	}
	if f.Weight != "" || f.PricePerKg != "" || f.Packs != "" || f.Total != "" {
		t.Errorf("quantities survived a fresh item selection: %+v", f)
	}
}

func TestApplyItemKeepsQuantitiesWhileEditing(t *testing.T) {
	item := entity.Item{Code: "I02", Name: "PARAW", PackDue: decimal.NewFromInt(1)}

	f := &EntryForm{Weight: "10", PricePerKg: "5", Packs: "3"}
	f.ApplyItem(item, true)

	if f.Weight != "10" || f.PricePerKg != "5" || f.Packs != "3" {
		t.Errorf("editing lost quantities: %+v", f)
	}
	if f.Total != "53.00" { // 10*5 + 3*1
		t.Errorf("total = %q, want 53.00", f.Total)
	}
}

func TestAdvanceProtocol(t *testing.T) {
	tests := []struct {
		name        string
		field       enum.EntryField
		givenAmount string
		wantKind    AdvanceKind
		wantNext    enum.EntryField
		wantDelay   bool
	}{
		{"customer code skips pickers", enum.FieldCustomerCode, "", AdvanceFocus, enum.FieldSupplierCode, false},
		{"customer picker advances in order", enum.FieldCustomerPicker, "", AdvanceFocus, enum.FieldGivenAmount, false},
		{"empty given amount advances", enum.FieldGivenAmount, "", AdvanceFocus, enum.FieldSupplierCode, false},
		{"filled given amount commits", enum.FieldGivenAmount, "500", AdvanceSubmitGivenAmount, 0, false},
		{"supplier skips to item picker", enum.FieldSupplierCode, "", AdvanceFocus, enum.FieldItemPicker, false},
		{"item picker skips to weight", enum.FieldItemPicker, "", AdvanceFocus, enum.FieldWeight, false},
		{"item name advances to weight", enum.FieldItemName, "", AdvanceFocus, enum.FieldWeight, false},
		{"weight advances to price", enum.FieldWeight, "", AdvanceFocus, enum.FieldPricePerKg, false},
		{"price jumps to packs after settle", enum.FieldPricePerKg, "", AdvanceFocus, enum.FieldPacks, true},
		{"packs submits the line", enum.FieldPacks, "", AdvanceSubmitLine, 0, false},
		{"total wraps to customer code", enum.FieldTotal, "", AdvanceFocus, enum.FieldCustomerCode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &EntryForm{GivenAmount: tt.givenAmount}
			action := f.Advance(tt.field)

			if action.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", action.Kind, tt.wantKind)
			}
			if action.Kind == AdvanceFocus && action.Next != tt.wantNext {
				t.Errorf("next = %v, want %v", action.Next, tt.wantNext)
			}
			if tt.wantDelay && action.SettleDelay == 0 {
				t.Error("expected a focus-settle delay")
			}
			if !tt.wantDelay && action.SettleDelay != 0 {
				t.Errorf("unexpected settle delay %v", action.SettleDelay)
			}
		})
	}
}

func TestFormLine(t *testing.T) {
	f := &EntryForm{
		CustomerCode: "C1",
		SupplierCode: "S01",
		ItemCode:     "I01",
		ItemName:     "KELAWALLA",
		Weight:       "10",
		PricePerKg:   "5",
		Packs:        "3",
		PackDue:      "2",
		Total:        "56.00",
		GivenAmount:  "500",
	}

	l := f.Line()
	if l.ID != 0 {
		t.Error("form line must be pending")
	}
	if !l.Total.Valid || !l.Total.Decimal.Equal(decimal.NewFromInt(56)) {
		t.Errorf("total = %+v, want 56", l.Total)
	}
	if l.GivenAmount == nil || !l.GivenAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("given amount = %v, want 500", l.GivenAmount)
	}
	if l.Packs != 3 {
		t.Errorf("packs = %d, want 3", l.Packs)
	}
}

func TestFormLineBlankTotalStaysNull(t *testing.T) {
	f := &EntryForm{CustomerCode: "C1"}
	l := f.Line()
	if l.Total.Valid {
		t.Errorf("blank total parsed as %s, want null", l.Total.Decimal)
	}
	if l.GivenAmount != nil {
		t.Error("blank given amount parsed as a value")
	}
}

func TestResetKeepsCustomer(t *testing.T) {
	f := &EntryForm{CustomerCode: "C1", Weight: "10", Total: "50.00"}
	f.Reset(true)
	if f.CustomerCode != "C1" {
		t.Error("Reset(true) dropped the customer code")
	}
	if f.Weight != "" || f.Total != "" {
		t.Error("Reset(true) kept quantities")
	}

	f.CustomerCode = "C2"
	f.Reset(false)
	if f.CustomerCode != "" {
		t.Error("Reset(false) kept the customer code")
	}
}
