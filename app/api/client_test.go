package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 2*time.Second), server
}

func TestFetchCartDecodesSnapshot(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart" || r.Method != "GET" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"8935001":{"name":"Trà xanh","price":10000,"qty":2,"total":20000}}`))
	}))
	defer server.Close()

	cart, err := client.FetchCart()
	if err != nil {
		t.Fatalf("FetchCart: %v", err)
	}
	item, ok := cart["8935001"]
	if !ok {
		t.Fatal("missing cart line 8935001")
	}
	if item.Name != "Trà xanh" || item.Qty != 2 || item.Total != 20000 {
		t.Errorf("unexpected line: %+v", item)
	}
}

func TestFetchCartNullBecomesEmpty(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	cart, err := client.FetchCart()
	if err != nil {
		t.Fatalf("FetchCart: %v", err)
	}
	if cart == nil || len(cart) != 0 {
		t.Errorf("want empty cart, got %v", cart)
	}
}

func TestDomainErrorSurfacesBackendMessage(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Không đủ hàng trong kho"}`))
	}))
	defer server.Close()

	err := client.UpdateQuantity("8935001", 99)
	if err == nil {
		t.Fatal("want error")
	}
	if !IsDomain(err) {
		t.Fatalf("want domain error, got %T: %v", err, err)
	}
	if err.Error() != "Không đủ hàng trong kho" {
		t.Errorf("message not verbatim: %q", err.Error())
	}
}

func TestNonJSONFailureIsTransportError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`backend exploded`))
	}))
	defer server.Close()

	_, err := client.FetchCart()
	if err == nil {
		t.Fatal("want error")
	}
	if IsDomain(err) {
		t.Error("plain 500 must not be a domain error")
	}
}

func TestUpdateQuantitySendsBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody struct {
		Qty int `json:"qty"`
	}
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if err := client.UpdateQuantity("8935001", 3); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if gotMethod != "PUT" || gotPath != "/cart/update/8935001" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
	if gotBody.Qty != 3 {
		t.Errorf("qty = %d, want 3", gotBody.Qty)
	}
}

func TestRemoveItemUsesDelete(t *testing.T) {
	var gotMethod, gotPath string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if err := client.RemoveItem("8935001"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if gotMethod != "DELETE" || gotPath != "/cart/remove/8935001" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

func TestCheckoutReturnsOrderID(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":42,"message":"ok"}`))
	}))
	defer server.Close()

	id, err := client.Checkout()
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if id != 42 {
		t.Errorf("order id = %d, want 42", id)
	}
}

func TestCheckoutRejectsMissingOrderID(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	if _, err := client.Checkout(); err == nil {
		t.Fatal("want error for response without order id")
	}
}

func TestInvoiceDetailRejectsMissingOrder(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	if _, err := client.InvoiceDetail(7); err == nil {
		t.Fatal("want error for invoice without order")
	}
}

func TestPollBarcode(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_barcode" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"barcode":"8935001"}`))
	}))
	defer server.Close()

	result, err := client.PollBarcode()
	if err != nil {
		t.Fatalf("PollBarcode: %v", err)
	}
	if !result.Success || result.Barcode != "8935001" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestStartCameraModeSelectsPath(t *testing.T) {
	var gotPath string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client.StartCamera(0)
	if gotPath != "/camera/start" {
		t.Errorf("mode 0 path = %s", gotPath)
	}
	client.StartCamera(2)
	if gotPath != "/camera/start/2" {
		t.Errorf("mode 2 path = %s", gotPath)
	}
}

func TestProbeVideoFeedReadsFirstFrame(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\njpegbytes"))
	}))
	defer server.Close()

	if err := client.ProbeVideoFeed(); err != nil {
		t.Fatalf("ProbeVideoFeed: %v", err)
	}
}

func TestProbeVideoFeedFailsOnEmptyStream(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with no body: camera claimed to start but produced nothing.
	}))
	defer server.Close()

	if err := client.ProbeVideoFeed(); err == nil {
		t.Fatal("want error for empty feed")
	}
}

func TestProbeVideoFeedFailsOnBadStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if err := client.ProbeVideoFeed(); err == nil {
		t.Fatal("want error for 503 feed")
	}
}
