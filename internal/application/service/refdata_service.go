package service

import (
	"context"
	"strings"
	"sync"

	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/repository"
)

// RefDataService caches the customer, item and supplier masters, fetched
// once per session. A failed fetch degrades to an empty list; the failures
// are aggregated into a single message instead of blocking the workspace.
type RefDataService struct {
	gateway repository.BackendGateway

	mu        sync.RWMutex
	customers map[string]entity.Customer
	items     map[string]entity.Item
	suppliers map[string]entity.Supplier
	loadErr   string
}

// NewRefDataService creates an empty cache over the given gateway.
func NewRefDataService(gateway repository.BackendGateway) *RefDataService {
	return &RefDataService{
		gateway:   gateway,
		customers: make(map[string]entity.Customer),
		items:     make(map[string]entity.Item),
		suppliers: make(map[string]entity.Supplier),
	}
}

// Load fetches all three masters. It never returns an error: partial data
// is better than no workspace.
func (s *RefDataService) Load(ctx context.Context) {
	var failures []string

	customers, err := s.gateway.FetchCustomers(ctx)
	if err != nil {
		failures = append(failures, "customers: "+err.Error())
	}
	items, err := s.gateway.FetchItems(ctx)
	if err != nil {
		failures = append(failures, "items: "+err.Error())
	}
	suppliers, err := s.gateway.FetchSuppliers(ctx)
	if err != nil {
		failures = append(failures, "suppliers: "+err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers = make(map[string]entity.Customer, len(customers))
	for _, c := range customers {
		s.customers[strings.ToUpper(c.ShortName)] = c
	}
	s.items = make(map[string]entity.Item, len(items))
	for _, i := range items {
		s.items[strings.ToUpper(i.Code)] = i
	}
	s.suppliers = make(map[string]entity.Supplier, len(suppliers))
	for _, sp := range suppliers {
		s.suppliers[strings.ToUpper(sp.Code)] = sp
	}

	s.loadErr = strings.Join(failures, "; ")
}

// LoadError returns the aggregated fetch failure message, if any.
func (s *RefDataService) LoadError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// CustomerByCode looks up a customer by short name.
func (s *RefDataService) CustomerByCode(code string) (entity.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[strings.ToUpper(code)]
	return c, ok
}

// ItemByCode looks up an item by code.
func (s *RefDataService) ItemByCode(code string) (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.items[strings.ToUpper(code)]
	return i, ok
}

// SupplierByCode looks up a supplier by code.
func (s *RefDataService) SupplierByCode(code string) (entity.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.suppliers[strings.ToUpper(code)]
	return sp, ok
}
