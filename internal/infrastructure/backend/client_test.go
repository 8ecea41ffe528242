package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nethmavilhandesilva/trading-workspace/internal/config"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/entity"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.BackendConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
}

func TestFetchListEnvelopeAndBareArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/customers":
			w.Write([]byte(`{"data":[{"short_name":"C1","name":"Ceylon Traders"}]}`))
		case "/suppliers":
			w.Write([]byte(`[{"code":"S01"},{"code":"S02"}]`))
		default:
			http.NotFound(w, r)
		}
	}))

	customers, err := client.FetchCustomers(context.Background())
	if err != nil {
		t.Fatalf("enveloped list failed: %v", err)
	}
	if len(customers) != 1 || customers[0].ShortName != "C1" {
		t.Fatalf("customers = %+v", customers)
	}

	suppliers, err := client.FetchSuppliers(context.Background())
	if err != nil {
		t.Fatalf("bare list failed: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("suppliers = %+v", suppliers)
	}
}

func TestBearerTokenForwarded(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.FetchSales(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != "Bearer test-token" {
		t.Fatalf("authorization header = %q", got)
	}
}

func TestBackendErrorMessageSurfacedVerbatim(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Bill already printed"}`))
	}))

	_, err := client.MarkPrinted(context.Background(), []int64{1})
	if err == nil || err.Error() != "Bill already printed" {
		t.Fatalf("err = %v, want the backend message verbatim", err)
	}
}

func TestMarkPrintedValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantNo  string
	}{
		{"success with bill number", `{"status":"success","bill_no":"777"}`, false, "777"},
		{"non-success status", `{"status":"failed","bill_no":"777"}`, true, ""},
		{"missing bill number", `{"status":"success","bill_no":""}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			result, err := client.MarkPrinted(context.Background(), []int64{1, 2})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("mark-printed failed: %v", err)
			}
			if result.BillNo != tt.wantNo {
				t.Fatalf("bill no = %q, want %q", result.BillNo, tt.wantNo)
			}
		})
	}
}

func TestCreateSaleAcceptsBothEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"sale key", `{"sale":{"id":7,"customer_code":"C1"}}`, false},
		{"data key", `{"data":{"id":7,"customer_code":"C1"}}`, false},
		{"neither", `{"ok":true}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			saved, err := client.CreateSale(context.Background(), &entity.SaleLine{CustomerCode: "C1"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if saved.ID != 7 || saved.CustomerCode != "C1" {
				t.Fatalf("saved = %+v", saved)
			}
		})
	}
}

func TestGetLoanAmount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-loan-amount" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"total_loan_amount":"1250.50"}`))
	}))

	loan, err := client.GetLoanAmount(context.Background(), "C1")
	if err != nil {
		t.Fatalf("loan lookup failed: %v", err)
	}
	if loan.StringFixed(2) != "1250.50" {
		t.Fatalf("loan = %s, want 1250.50", loan)
	}
}
