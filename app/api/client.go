package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CounterPOS/app/models"
)

// DomainError is a rejection returned by the backend with an error
// message field. The message is surfaced to the user verbatim and is
// never retried.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomain reports whether err is a backend domain rejection rather
// than a transport failure.
func IsDomain(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// Client is the typed HTTP client for the POS backend. Every response
// is decoded into an explicit struct and validated before use;
// malformed payloads are transport errors, never panics.
type Client struct {
	baseURL string
	client  *http.Client
	probe   *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		// The video feed is an endless multipart stream; the probe
		// client only reads the first frame so it gets its own,
		// shorter timeout.
		probe: &http.Client{Timeout: 5 * time.Second},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues a request and decodes the response into out (if non-nil).
// Non-2xx responses carrying an {"error": ...} body become a
// DomainError; everything else is a transport error.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejection struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &rejection); err == nil && rejection.Error != "" {
			return &DomainError{Message: rejection.Error}
		}
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}
	}

	return nil
}

// FetchCart reads the authoritative cart snapshot.
func (c *Client) FetchCart() (models.Cart, error) {
	var cart models.Cart
	if err := c.do("GET", "/cart", nil, &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		cart = models.Cart{}
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line. The caller is
// expected to have floored qty at 1; the backend removes lines on
// non-positive quantities as well.
func (c *Client) UpdateQuantity(barcode string, qty int) error {
	body := struct {
		Qty int `json:"qty"`
	}{Qty: qty}
	return c.do("PUT", "/cart/update/"+barcode, body, nil)
}

// RemoveItem deletes a cart line.
func (c *Client) RemoveItem(barcode string) error {
	return c.do("DELETE", "/cart/remove/"+barcode, nil, nil)
}

// ClearCart empties the cart and returns the backend's message.
func (c *Client) ClearCart() (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do("POST", "/cart/clear", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Checkout consumes the cart into a new order and returns its id. A
// response without an order id is treated as a failure.
func (c *Client) Checkout() (int64, error) {
	var resp struct {
		OrderID int64  `json:"order_id"`
		Message string `json:"message"`
	}
	if err := c.do("POST", "/checkout", nil, &resp); err != nil {
		return 0, err
	}
	if resp.OrderID == 0 {
		return 0, fmt.Errorf("checkout response missing order id")
	}
	return resp.OrderID, nil
}

// ListOrders fetches the order history.
func (c *Client) ListOrders() ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	if err := c.do("GET", "/order", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderDetail fetches the line items of one order.
func (c *Client) OrderDetail(id int64) ([]models.OrderLine, error) {
	var items []models.OrderLine
	if err := c.do("GET", fmt.Sprintf("/order/%d", id), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// InvoiceDetail fetches the invoice payload of one order.
func (c *Client) InvoiceDetail(id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := c.do("GET", fmt.Sprintf("/invoice/%d", id), nil, &invoice); err != nil {
		return nil, err
	}
	if invoice.Order.ID == 0 {
		return nil, fmt.Errorf("invoice response missing order")
	}
	return &invoice, nil
}

// ListProducts fetches the catalog.
func (c *Client) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := c.do("GET", "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one catalog entry.
func (c *Client) GetProduct(id int64) (*models.Product, error) {
	var product models.Product
	if err := c.do("GET", fmt.Sprintf("/product/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a catalog entry.
func (c *Client) CreateProduct(input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := c.do("POST", "/product", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct modifies a catalog entry.
func (c *Client) UpdateProduct(id int64, update models.ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := c.do("PUT", fmt.Sprintf("/product/%d", id), update, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog entry and returns the backend's
// message.
func (c *Client) DeleteProduct(id int64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do("DELETE", fmt.Sprintf("/product/%d", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// PollBarcode reads the most recently decoded scan result.
func (c *Client) PollBarcode() (*models.BarcodeResult, error) {
	var result models.BarcodeResult
	if err := c.do("GET", "/get_barcode", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartCamera asks the backend to acquire the camera. Mode selects the
// capture device; zero means the backend default.
func (c *Client) StartCamera(mode int) error {
	path := "/camera/start"
	if mode > 0 {
		path = fmt.Sprintf("/camera/start/%d", mode)
	}
	return c.do("POST", path, nil, nil)
}

// StopCamera asks the backend to release the camera.
func (c *Client) StopCamera() error {
	return c.do("POST", "/camera/stop", nil, nil)
}

// VideoFeedURL returns the streaming resource URL with a cache-busting
// query parameter, suitable as an image-element source.
func (c *Client) VideoFeedURL() string {
	return fmt.Sprintf("%s/video_feed?%d", c.baseURL, time.Now().UnixMilli())
}

// ProbeVideoFeed opens the video stream and reads the first bytes of
// the first frame. It confirms the camera is actually producing output
// before the session is declared streaming.
func (c *Client) ProbeVideoFeed() error {
	resp, err := c.probe.Get(c.VideoFeedURL())
	if err != nil {
		return fmt.Errorf("error opening video feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("video feed returned status %d", resp.StatusCode)
	}

	buf := make([]byte, 512)
	n, err := resp.Body.Read(buf)
	if n == 0 && err != nil {
		return fmt.Errorf("video feed produced no frames: %w", err)
	}
	return nil
}
