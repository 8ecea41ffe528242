package service

import (
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
)

// Selection tracks which customer or bill the workspace is focused on.
// Exactly one mode is active at a time; entering one clears the other.
type Selection struct {
	Mode         enum.SelectionMode `json:"mode"`
	CustomerCode string             `json:"customer_code,omitempty"`
	BillNo       string             `json:"bill_no,omitempty"`
}

// Clear returns to fresh-entry mode.
func (s *Selection) Clear() {
	*s = Selection{Mode: enum.ModeFresh}
}

// ToggleHeld toggles held-customer mode for the given code. It reports
// whether the selection was entered (true) or left (false).
func (s *Selection) ToggleHeld(code string) bool {
	if s.Mode == enum.ModeHeldCustomer && s.CustomerCode == code {
		s.Clear()
		return false
	}
	*s = Selection{Mode: enum.ModeHeldCustomer, CustomerCode: code}
	return true
}

// TogglePrinted toggles printed-bill mode for the given pair. It reports
// whether the selection was entered.
func (s *Selection) TogglePrinted(code, billNo string) bool {
	if s.Mode == enum.ModePrintedBill && s.CustomerCode == code && s.BillNo == billNo {
		s.Clear()
		return false
	}
	*s = Selection{Mode: enum.ModePrintedBill, CustomerCode: code, BillNo: billNo}
	return true
}

// Matches reports whether a ledger line belongs to the active selection.
func (s *Selection) Matches(line *entity.SaleLine) bool {
	switch s.Mode {
	case enum.ModeHeldCustomer:
		return line.BillPrinted == enum.BillStatusHeld && line.CustomerCode == s.CustomerCode
	case enum.ModePrintedBill:
		return line.BillPrinted == enum.BillStatusPrinted &&
			line.CustomerCode == s.CustomerCode && line.BillNo == s.BillNo
	}
	return false
}
