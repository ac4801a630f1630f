package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CounterPOS/app/api"
	"CounterPOS/app/format"
)

func newOrderService(t *testing.T, handler http.Handler) *OrderService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOrderService(api.NewClient(server.URL, 2*time.Second), format.New("vi", "₫"))
}

func TestListOrdersFormatsRows(t *testing.T) {
	s := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":5,"order_date":"2024-03-05 14:30:09","total":50000}]`))
	}))

	rows, err := s.ListOrders()
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].TotalText != "50.000₫" {
		t.Errorf("TotalText = %q", rows[0].TotalText)
	}
	if rows[0].DateText != "05/03/2024 14:30:09" {
		t.Errorf("DateText = %q", rows[0].DateText)
	}
}

func TestOrderDetailSumsLineTotals(t *testing.T) {
	s := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name":"Trà","barcode":"111","price":10000,"quantity":2,"total":20000,"order_date":"2024-03-05 14:30:09"},
			{"name":"Cà phê","barcode":"222","price":30000,"quantity":1,"total":30000}
		]`))
	}))

	view, err := s.OrderDetail(5)
	if err != nil {
		t.Fatalf("OrderDetail: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("items = %d", len(view.Items))
	}
	if view.TotalText != "50.000₫" {
		t.Errorf("TotalText = %q", view.TotalText)
	}
	if view.DateText != "05/03/2024 14:30:09" {
		t.Errorf("DateText = %q", view.DateText)
	}
}

func TestInvoiceDetailCarriesQRCode(t *testing.T) {
	s := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"order":{"id":5,"order_date":"2024-03-05 14:30:09","total":50000},
			"items":[{"name":"Trà","barcode":"111","price":10000,"quantity":5,"total":50000}]
		}`))
	}))

	view, err := s.InvoiceDetail(5)
	if err != nil {
		t.Fatalf("InvoiceDetail: %v", err)
	}
	if view.ID != 5 || view.TotalText != "50.000₫" {
		t.Errorf("view = %+v", view)
	}
	if view.QRCodePNG == "" {
		t.Error("invoice missing QR code")
	}
}
