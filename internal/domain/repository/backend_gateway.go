package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
)

// MarkPrintedResult is the backend's answer to a bill-close request.
type MarkPrintedResult struct {
	Status string `json:"status"`
	BillNo string `json:"bill_no"`
}

// BackendGateway defines the interface to the trading back-office API. The
// workspace core depends on this, never on the HTTP client directly.
type BackendGateway interface {
	// FetchSales returns the backend's current sales set for the session.
	FetchSales(ctx context.Context) ([]entity.SaleLine, error)
	FetchCustomers(ctx context.Context) ([]entity.Customer, error)
	FetchItems(ctx context.Context) ([]entity.Item, error)
	FetchSuppliers(ctx context.Context) ([]entity.Supplier, error)

	// CreateSale persists a new line and returns the server copy with its
	// assigned id.
	CreateSale(ctx context.Context, line *entity.SaleLine) (*entity.SaleLine, error)
	// UpdateSale replaces a persisted line and returns the server copy.
	UpdateSale(ctx context.Context, line *entity.SaleLine) (*entity.SaleLine, error)
	DeleteSale(ctx context.Context, id int64) error
	// UpdateGivenAmount sets the given amount on one persisted line and
	// returns the server copy.
	UpdateGivenAmount(ctx context.Context, id int64, amount decimal.Decimal) (*entity.SaleLine, error)

	// MarkPrinted closes the given lines into a new numbered bill. The
	// client always requests force-new-bill semantics; duplicate-bill
	// avoidance is the backend's responsibility.
	MarkPrinted(ctx context.Context, saleIDs []int64) (*MarkPrintedResult, error)
	// MarkAllProcessed moves the given lines onto the customer's held tab.
	MarkAllProcessed(ctx context.Context, saleIDs []int64) error

	// GetLoanAmount returns the customer's outstanding loan balance.
	GetLoanAmount(ctx context.Context, customerShortName string) (decimal.Decimal, error)
}
