package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/repository"
	"github.com/nethmavilhandesilva/trading-workspace/pkg/apperror"
)

// noticeTTL is how long a transient validation notice stays visible.
const noticeTTL = time.Second

// reconcileDelay is how long after a bill close the background
// ledger refetch runs.
const reconcileDelay = 2 * time.Second

// WorkspaceService owns one operator session of the sales entry
// workspace: the ledger, the entry form, the selection state and the
// commit and print workflows. There is a single logical actor (the
// operator); the busy flags are mutual-exclusion latches, not cosmetic
// indicators.
type WorkspaceService struct {
	gateway repository.BackendGateway
	ledger  *Ledger
	refdata *RefDataService
	sink    ReceiptSink

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	form         EntryForm
	selection    Selection
	editingID    int64
	searchQuery  string
	loanBalance  decimal.Decimal
	notice       string
	noticeExpiry time.Time
	isSubmitting bool
	isPrinting   bool
	isLoading    bool
}

// NewWorkspaceService wires a session over the given collaborators.
func NewWorkspaceService(
	gateway repository.BackendGateway,
	ledger *Ledger,
	refdata *RefDataService,
	sink ReceiptSink,
) *WorkspaceService {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkspaceService{
		gateway:     gateway,
		ledger:      ledger,
		refdata:     refdata,
		sink:        sink,
		ctx:         ctx,
		cancel:      cancel,
		loanBalance: decimal.Zero,
	}
}

// Start loads reference data and the ledger. Reference data failures
// degrade soft; a sales fetch failure is returned since the workspace
// cannot open without a ledger.
func (s *WorkspaceService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.isLoading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	s.refdata.Load(ctx)
	return s.reloadSales(ctx)
}

// Refresh is the explicit external refresh nudge: it reloads the ledger
// from the backend.
func (s *WorkspaceService) Refresh(ctx context.Context) error {
	return s.reloadSales(ctx)
}

// Close tears the session down. Responses of in-flight requests arriving
// afterwards are discarded, never applied.
func (s *WorkspaceService) Close() {
	s.cancel()
}

func (s *WorkspaceService) closed() bool {
	return s.ctx.Err() != nil
}

func (s *WorkspaceService) reloadSales(ctx context.Context) error {
	lines, err := s.gateway.FetchSales(ctx)
	if err != nil {
		return err
	}
	if s.closed() {
		return nil
	}
	s.ledger.ReplaceAll(lines)
	return nil
}

// WorkspaceState is the whole-session snapshot the front-end renders.
type WorkspaceState struct {
	Selection    Selection         `json:"selection"`
	Form         EntryForm         `json:"form"`
	EditingID    int64             `json:"editing_id,omitempty"`
	SearchQuery  string            `json:"search_query,omitempty"`
	LoanBalance  decimal.Decimal   `json:"loan_balance"`
	Notice       string            `json:"notice,omitempty"`
	RefDataError string            `json:"refdata_error,omitempty"`
	IsSubmitting bool              `json:"is_submitting"`
	IsPrinting   bool              `json:"is_printing"`
	IsLoading    bool              `json:"is_loading"`
	Printed      []PrintedGroup    `json:"printed"`
	Held         []HeldCustomer    `json:"held"`
	Displayed    []entity.SaleLine `json:"displayed"`
	Totals       Totals            `json:"totals"`
	Items        []ItemSummary     `json:"items"`
}

// State recomputes the derived views and returns the current snapshot.
func (s *WorkspaceService) State() WorkspaceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notice != "" && time.Now().After(s.noticeExpiry) {
		s.notice = ""
	}

	part := s.ledger.Partition()
	displayed := DisplayedRows(part, s.selection)

	return WorkspaceState{
		Selection:    s.selection,
		Form:         s.form,
		EditingID:    s.editingID,
		SearchQuery:  s.searchQuery,
		LoanBalance:  s.loanBalance,
		Notice:       s.notice,
		RefDataError: s.refdata.LoadError(),
		IsSubmitting: s.isSubmitting,
		IsPrinting:   s.isPrinting,
		IsLoading:    s.isLoading,
		Printed:      PrintedGroups(part.Printed, s.searchQuery),
		Held:         HeldCustomers(part.Unprinted, s.searchQuery),
		Displayed:    displayed,
		Totals:       ComputeTotals(displayed),
		Items:        SummarizeItems(displayed),
	}
}

func (s *WorkspaceService) setNoticeLocked(msg string) {
	s.notice = msg
	s.noticeExpiry = time.Now().Add(noticeTTL)
}

func (s *WorkspaceService) displayedLocked() []entity.SaleLine {
	return DisplayedRows(s.ledger.Partition(), s.selection)
}

// earliestCustomerLineLocked returns the customer's earliest persisted
// line, the one whose given amount is authoritative.
func (s *WorkspaceService) earliestCustomerLineLocked(code string) (entity.SaleLine, bool) {
	for _, line := range s.ledger.Snapshot() {
		if line.CustomerCode == code && !line.BillPrinted.IsClosed() {
			return line, true
		}
	}
	return entity.SaleLine{}, false
}

func (s *WorkspaceService) hasHeldLinesLocked(code string) bool {
	for _, line := range s.ledger.Partition().Unprinted {
		if line.CustomerCode == code {
			return true
		}
	}
	return false
}

// loadGivenAmountLocked copies the tab's authoritative given amount into
// the form for display.
func (s *WorkspaceService) loadGivenAmountLocked(code string) {
	s.form.GivenAmount = ""
	if line, ok := s.earliestCustomerLineLocked(code); ok && line.GivenAmount != nil {
		s.form.GivenAmount = line.GivenAmount.String()
	}
}

// fetchLoan loads the customer's loan balance off the lock and stores it
// if the customer is still the one on the form. Best effort: failures are
// logged, never surfaced.
func (s *WorkspaceService) fetchLoan(ctx context.Context, code string) {
	loan, err := s.gateway.GetLoanAmount(ctx, code)
	if err != nil {
		log.Printf("Warning: loan lookup for %s failed: %v", code, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed() || s.form.CustomerCode != code {
		return
	}
	s.loanBalance = loan
}

// ToggleHeldCustomer handles a click on an unprinted-customer entry. It
// reports whether the selection was entered. Clicks are suppressed while
// a print is in flight.
func (s *WorkspaceService) ToggleHeldCustomer(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	if s.isPrinting {
		s.mu.Unlock()
		return false, nil
	}
	entered := s.selection.ToggleHeld(code)
	if !entered {
		s.loanBalance = decimal.Zero
		s.mu.Unlock()
		return false, nil
	}
	s.form.CustomerCode = code
	s.loadGivenAmountLocked(code)
	s.mu.Unlock()

	s.fetchLoan(ctx, code)
	return true, nil
}

// TogglePrintedBill handles a click on a printed-bill entry. Entering it
// clears any held-customer selection. Suppressed while printing.
func (s *WorkspaceService) TogglePrintedBill(code, billNo string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isPrinting {
		return false
	}
	return s.selection.TogglePrinted(code, billNo)
}

// ClearSelection returns to fresh-entry mode.
func (s *WorkspaceService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isPrinting {
		return
	}
	s.selection.Clear()
	s.loanBalance = decimal.Zero
}

// SetSearch updates the customer/bill search filter.
func (s *WorkspaceService) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SetEntryField writes one form field. Typing a customer code that
// matches an existing held customer implicitly enters held mode; clearing
// the code returns to fresh mode and zeroes the loan display.
func (s *WorkspaceService) SetEntryField(ctx context.Context, field enum.EntryField, value string) {
	s.mu.Lock()
	s.form.SetField(field, value)

	if field != enum.FieldCustomerCode && field != enum.FieldCustomerPicker {
		s.mu.Unlock()
		return
	}

	code := s.form.CustomerCode
	if code == "" {
		s.selection.Clear()
		s.loanBalance = decimal.Zero
		s.mu.Unlock()
		return
	}
	if s.hasHeldLinesLocked(code) &&
		!(s.selection.Mode == enum.ModeHeldCustomer && s.selection.CustomerCode == code) {
		s.selection = Selection{Mode: enum.ModeHeldCustomer, CustomerCode: code}
		s.loadGivenAmountLocked(code)
		s.mu.Unlock()
		s.fetchLoan(ctx, code)
		return
	}
	s.mu.Unlock()
}

// SelectCustomer handles the customer picker. It behaves like clicking
// the held entry and, when the customer already has unprinted lines,
// immediately runs the given-amount commit flow.
func (s *WorkspaceService) SelectCustomer(ctx context.Context, code string) error {
	s.mu.Lock()
	if s.isPrinting {
		s.mu.Unlock()
		return nil
	}
	hasHeld := s.hasHeldLinesLocked(code)
	s.form.CustomerCode = code
	if hasHeld {
		s.selection = Selection{Mode: enum.ModeHeldCustomer, CustomerCode: code}
		s.loadGivenAmountLocked(code)
	}
	s.mu.Unlock()

	if !hasHeld {
		return nil
	}
	s.fetchLoan(ctx, code)

	err := s.SubmitGivenAmount(ctx)
	// The picker path tolerates an empty given amount; only real backend
	// failures surface.
	if err == apperror.ErrGivenAmountEmpty || err == apperror.ErrNoPersistedLines {
		return nil
	}
	return err
}

// SelectItem applies an item-master record to the form.
func (s *WorkspaceService) SelectItem(code string) error {
	item, ok := s.refdata.ItemByCode(code)
	if !ok {
		return apperror.NewNotFoundError("Item")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.ApplyItem(item, s.editingID != 0)
	return nil
}

// EditLine loads an existing row into the form. It works in any mode and
// does not change the selection.
func (s *WorkspaceService) EditLine(id int64) error {
	line, ok := s.ledger.Get(id)
	if !ok {
		return apperror.NewNotFoundError("Sale line")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.LoadLine(&line)
	s.editingID = id
	return nil
}

// Advance applies the keyboard advance key from the given field,
// executing the submit it may trigger.
func (s *WorkspaceService) Advance(ctx context.Context, field enum.EntryField) (AdvanceAction, error) {
	s.mu.Lock()
	action := s.form.Advance(field)
	s.mu.Unlock()

	switch action.Kind {
	case AdvanceSubmitLine:
		return action, s.SubmitLine(ctx)
	case AdvanceSubmitGivenAmount:
		return action, s.SubmitGivenAmount(ctx)
	}
	return action, nil
}

// SubmitLine persists the form as a create or, when a row is being
// edited, an update. A submit fired while one is outstanding is a no-op.
func (s *WorkspaceService) SubmitLine(ctx context.Context) error {
	s.mu.Lock()
	if s.isSubmitting {
		s.mu.Unlock()
		return nil
	}

	line := s.form.Line()
	editingID := s.editingID

	// Blank customer falls back to the most recent displayed customer.
	if line.CustomerCode == "" {
		if rows := s.displayedLocked(); len(rows) > 0 {
			line.CustomerCode = rows[0].CustomerCode
		}
	}
	if line.CustomerCode == "" {
		s.setNoticeLocked(apperror.ErrCustomerRequired.Message)
		s.mu.Unlock()
		return apperror.ErrCustomerRequired
	}

	// A closed bill accepts edits of its lines, never new ones.
	if s.selection.Mode == enum.ModePrintedBill && editingID == 0 {
		s.setNoticeLocked(apperror.ErrClosedBill.Message)
		s.mu.Unlock()
		return apperror.ErrClosedBill
	}

	// Stamp billing status from the active mode.
	switch s.selection.Mode {
	case enum.ModePrintedBill:
		line.BillPrinted = enum.BillStatusPrinted
		line.BillNo = s.selection.BillNo
	case enum.ModeHeldCustomer:
		line.BillPrinted = enum.BillStatusHeld
	}

	if editingID != 0 {
		line.ID = editingID
		// Server-authoritative fields carry over from the stored line.
		if existing, ok := s.ledger.Get(editingID); ok {
			line.BillPrinted = existing.BillPrinted
			line.BillNo = existing.BillNo
		}
	}

	// The given amount is authoritative only on the customer's first
	// line, or an edit of it; anywhere else it would double-count.
	if line.GivenAmount != nil {
		if first, ok := s.earliestCustomerLineLocked(line.CustomerCode); ok && first.ID != editingID {
			line.GivenAmount = nil
		}
	}

	s.isSubmitting = true
	s.mu.Unlock()

	var saved *entity.SaleLine
	var err error
	if editingID != 0 {
		saved, err = s.gateway.UpdateSale(ctx, &line)
	} else {
		saved, err = s.gateway.CreateSale(ctx, &line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isSubmitting = false
	if s.closed() {
		return nil
	}
	if err != nil {
		return err
	}

	s.ledger.Upsert(*saved)
	s.form.Reset(true)
	s.editingID = 0
	return nil
}

// SubmitGivenAmount fans the form's given amount out across every
// persisted line of the open tab, so the receipt can read it from any of
// them.
func (s *WorkspaceService) SubmitGivenAmount(ctx context.Context) error {
	s.mu.Lock()
	if s.form.GivenAmount == "" {
		s.mu.Unlock()
		return apperror.ErrGivenAmountEmpty
	}
	amount := parseDecimal(s.form.GivenAmount)

	var ids []int64
	for _, row := range s.displayedLocked() {
		if !row.IsPending() {
			ids = append(ids, row.ID)
		}
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return apperror.ErrNoPersistedLines
	}

	for _, id := range ids {
		saved, err := s.gateway.UpdateGivenAmount(ctx, id, amount)
		if err != nil {
			return err
		}
		if s.closed() {
			return nil
		}
		s.ledger.Upsert(*saved)
	}
	return nil
}

// DeleteLine removes a persisted line. Confirmation happens upstream.
func (s *WorkspaceService) DeleteLine(ctx context.Context, id int64) error {
	if err := s.gateway.DeleteSale(ctx, id); err != nil {
		return err
	}
	if s.closed() {
		return nil
	}
	s.ledger.Remove(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == id {
		s.editingID = 0
		s.form.Reset(false)
	}
	return nil
}

// ProcessHeld moves the displayed persisted lines onto the customer's
// held tab. Like printing, it is blocked while a printed bill is
// selected.
func (s *WorkspaceService) ProcessHeld(ctx context.Context) error {
	s.mu.Lock()
	if s.isPrinting {
		s.mu.Unlock()
		return apperror.ErrBusy
	}
	if s.selection.Mode == enum.ModePrintedBill {
		s.setNoticeLocked(apperror.ErrPrintedBillActive.Message)
		s.mu.Unlock()
		return apperror.ErrPrintedBillActive
	}
	var ids []int64
	for _, row := range s.displayedLocked() {
		if !row.IsPending() {
			ids = append(ids, row.ID)
		}
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return apperror.ErrNoPersistedLines
	}

	if err := s.gateway.MarkAllProcessed(ctx, ids); err != nil {
		return err
	}
	if s.closed() {
		return nil
	}
	s.ledger.MarkHeld(ids)
	return nil
}

// printRollback captures everything PrintBill must restore when the
// mark-printed call fails.
type printRollback struct {
	ledger      []entity.SaleLine
	selection   Selection
	form        EntryForm
	editingID   int64
	searchQuery string
	loanBalance decimal.Decimal
}

// PrintBill closes the displayed lines into a numbered bill: marks them
// printed at the backend, optimistically patches the ledger, resets the
// workspace, renders the receipt and schedules a background
// reconciliation. A mark-printed failure rolls every piece of state back
// to its pre-call snapshot; any failure after it leaves the closure
// committed.
func (s *WorkspaceService) PrintBill(ctx context.Context) error {
	s.mu.Lock()
	if s.isPrinting {
		s.mu.Unlock()
		return apperror.ErrBusy
	}
	if s.selection.Mode == enum.ModePrintedBill {
		s.setNoticeLocked(apperror.ErrPrintedBillActive.Message)
		s.mu.Unlock()
		return apperror.ErrPrintedBillActive
	}

	var target []entity.SaleLine
	for _, row := range s.displayedLocked() {
		if !row.IsPending() {
			target = append(target, row)
		}
	}
	if len(target) == 0 {
		s.mu.Unlock()
		return apperror.ErrNothingToPrint
	}
	for i := range target {
		if target[i].PricePerKg.IsZero() {
			s.mu.Unlock()
			return apperror.ErrUnpricedLine
		}
	}

	ids := make([]int64, len(target))
	for i := range target {
		ids[i] = target[i].ID
	}
	customerCode := target[0].CustomerCode

	rollback := printRollback{
		ledger:      s.ledger.Snapshot(),
		selection:   s.selection,
		form:        s.form,
		editingID:   s.editingID,
		searchQuery: s.searchQuery,
		loanBalance: s.loanBalance,
	}

	s.isPrinting = true
	s.mu.Unlock()

	result, err := s.gateway.MarkPrinted(ctx, ids)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.isPrinting = false
		if s.closed() {
			return nil
		}
		s.ledger.ReplaceAll(rollback.ledger)
		s.selection = rollback.selection
		s.form = rollback.form
		s.editingID = rollback.editingID
		s.searchQuery = rollback.searchQuery
		s.loanBalance = rollback.loanBalance
		return err
	}

	// Loan lookup is receipt enrichment only; it must never abort a
	// closure the backend has already committed.
	loan := decimal.Zero
	if l, lerr := s.gateway.GetLoanAmount(ctx, customerCode); lerr != nil {
		log.Printf("Warning: loan lookup for %s failed, printing with zero balance: %v", customerCode, lerr)
	} else {
		loan = l
	}

	s.mu.Lock()
	if s.closed() {
		s.isPrinting = false
		s.mu.Unlock()
		return nil
	}

	// The ledger reflects closure before anything renders.
	s.ledger.MarkPrinted(ids, result.BillNo)
	receipt := s.buildReceiptLocked(target, customerCode, result.BillNo, loan)

	// Closure always resets the workspace to fresh entry, whatever the
	// rendering outcome.
	s.selection.Clear()
	s.searchQuery = ""
	s.editingID = 0
	s.form = EntryForm{}
	s.loanBalance = decimal.Zero
	s.mu.Unlock()

	renderErr := s.sink.Render(ctx, receipt)

	go s.reconcileAfterPrint()

	s.mu.Lock()
	s.isPrinting = false
	s.mu.Unlock()

	if renderErr != nil {
		log.Printf("Receipt render for bill %s failed: %v", result.BillNo, renderErr)
		return apperror.NewAppError(500, "Bill "+result.BillNo+" was closed but the receipt did not print: "+renderErr.Error())
	}
	return nil
}

// buildReceiptLocked assembles the receipt model from the print
// snapshot. target arrives most recent first; the receipt lists lines in
// entry order.
func (s *WorkspaceService) buildReceiptLocked(target []entity.SaleLine, customerCode, billNo string, loan decimal.Decimal) *entity.Receipt {
	lines := make([]entity.SaleLine, len(target))
	for i := range target {
		lines[i] = target[len(target)-1-i]
	}

	totals := ComputeTotals(lines)

	receipt := &entity.Receipt{
		CustomerCode:  customerCode,
		CustomerName:  customerCode,
		BillNo:        billNo,
		Date:          time.Now().Format("2006-01-02 15:04"),
		SubTotal:      totals.SalesTotal,
		PackCost:      totals.PackCost,
		GrandTotal:    totals.GrandTotal,
		GivenAmount:   decimal.Zero,
		Balance:       decimal.Zero,
		LoanBalance:   loan,
		TotalWithLoan: totals.GrandTotal.Add(loan),
	}

	if customer, ok := s.refdata.CustomerByCode(customerCode); ok {
		receipt.CustomerName = customer.Name
		receipt.CustomerPhone = customer.Phone
	}

	// The earliest line of the tab carries the authoritative given
	// amount; the rest only mirror it.
	for i := range lines {
		if lines[i].GivenAmount != nil {
			receipt.GivenAmount = *lines[i].GivenAmount
			break
		}
	}
	if receipt.HasGivenAmount() {
		receipt.Balance = totals.GrandTotal.Sub(receipt.GivenAmount)
	}

	for _, line := range lines {
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			ItemName:     line.ItemName,
			Weight:       line.Weight,
			PricePerKg:   line.PricePerKg,
			Packs:        line.Packs,
			SupplierCode: line.SupplierCode,
			Amount:       line.LineAmount(),
		})
	}
	return receipt
}

// reconcileAfterPrint refetches the sales set shortly after a close to
// correct any divergence between the optimistic patch and the server
// (e.g. server-side recalculation). Best effort; the immediate UI is
// already correct without it.
func (s *WorkspaceService) reconcileAfterPrint() {
	select {
	case <-s.ctx.Done():
		return
	case <-time.After(reconcileDelay):
	}

	lines, err := s.gateway.FetchSales(s.ctx)
	if err != nil {
		log.Printf("Warning: post-print ledger reconciliation failed: %v", err)
		return
	}
	if s.closed() {
		return
	}
	s.ledger.ReplaceAll(lines)
}
