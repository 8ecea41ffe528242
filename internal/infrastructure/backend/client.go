package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nethmavilhandesilva/trading-workspace/internal/config"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/repository"
	"github.com/nethmavilhandesilva/trading-workspace/pkg/apperror"
)

// Client is the HTTP implementation of repository.BackendGateway against
// the trading back-office API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a backend API client from configuration.
func NewClient(cfg *config.BackendConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

var _ repository.BackendGateway = (*Client)(nil)

// listEnvelope is the standard list response shape. Bare arrays are still
// accepted for lists the backend has not migrated onto the envelope yet.
type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// saleEnvelope is the mutation response shape. The backend returns the
// persisted line under "sale"; "data" is accepted as the envelope form.
type saleEnvelope struct {
	Sale *entity.SaleLine `json:"sale"`
	Data *entity.SaleLine `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewBackendError(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewBackendError(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the backend's own message verbatim when it sent one.
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				return apperror.NewBackendError(eb.Message)
			}
			if eb.Error != "" {
				return apperror.NewBackendError(eb.Error)
			}
		}
		return apperror.NewBackendError(fmt.Sprintf("%s %s: %s", method, path, resp.Status))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}

// fetchList GETs a path and decodes either an enveloped or a bare list.
func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("backend: decode list %s: %w", path, err)
	}
	return items, nil
}

func (c *Client) FetchSales(ctx context.Context) ([]entity.SaleLine, error) {
	return fetchList[entity.SaleLine](ctx, c, "/sales")
}

func (c *Client) FetchCustomers(ctx context.Context) ([]entity.Customer, error) {
	return fetchList[entity.Customer](ctx, c, "/customers")
}

func (c *Client) FetchItems(ctx context.Context) ([]entity.Item, error) {
	return fetchList[entity.Item](ctx, c, "/items")
}

func (c *Client) FetchSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	return fetchList[entity.Supplier](ctx, c, "/suppliers")
}

func (e *saleEnvelope) line() (*entity.SaleLine, error) {
	if e.Sale != nil {
		return e.Sale, nil
	}
	if e.Data != nil {
		return e.Data, nil
	}
	return nil, apperror.NewBackendError("backend returned no sale record")
}

func (c *Client) CreateSale(ctx context.Context, line *entity.SaleLine) (*entity.SaleLine, error) {
	var env saleEnvelope
	if err := c.do(ctx, http.MethodPost, "/sales", line, &env); err != nil {
		return nil, err
	}
	return env.line()
}

func (c *Client) UpdateSale(ctx context.Context, line *entity.SaleLine) (*entity.SaleLine, error) {
	var env saleEnvelope
	path := "/sales/" + strconv.FormatInt(line.ID, 10)
	if err := c.do(ctx, http.MethodPut, path, line, &env); err != nil {
		return nil, err
	}
	return env.line()
}

func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/sales/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) UpdateGivenAmount(ctx context.Context, id int64, amount decimal.Decimal) (*entity.SaleLine, error) {
	var env saleEnvelope
	path := "/sales/" + strconv.FormatInt(id, 10) + "/given-amount"
	body := map[string]decimal.Decimal{"given_amount": amount}
	if err := c.do(ctx, http.MethodPut, path, body, &env); err != nil {
		return nil, err
	}
	return env.line()
}

func (c *Client) MarkPrinted(ctx context.Context, saleIDs []int64) (*repository.MarkPrintedResult, error) {
	body := map[string]interface{}{
		"sales_ids":      saleIDs,
		"force_new_bill": true,
	}
	var result repository.MarkPrintedResult
	if err := c.do(ctx, http.MethodPost, "/sales/mark-printed", body, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, apperror.NewBackendError("mark-printed returned status " + result.Status)
	}
	if result.BillNo == "" {
		return nil, apperror.NewBackendError("mark-printed returned no bill number")
	}
	return &result, nil
}

func (c *Client) MarkAllProcessed(ctx context.Context, saleIDs []int64) error {
	body := map[string]interface{}{"sales_ids": saleIDs}
	var result struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/sales/mark-all-processed", body, &result); err != nil {
		return err
	}
	if !result.Success {
		return apperror.NewBackendError("mark-all-processed was not successful")
	}
	return nil
}

func (c *Client) GetLoanAmount(ctx context.Context, customerShortName string) (decimal.Decimal, error) {
	body := map[string]string{"customer_short_name": customerShortName}
	var result struct {
		TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
	}
	if err := c.do(ctx, http.MethodPost, "/get-loan-amount", body, &result); err != nil {
		return decimal.Zero, err
	}
	return result.TotalLoanAmount, nil
}
