package models

// OrderSummary is one row of GET /order. Orders are immutable once
// created; they are fetched for display and discarded after render.
type OrderSummary struct {
	ID        int64   `json:"id"`
	OrderDate string  `json:"order_date"`
	Total     float64 `json:"total"`
}

// OrderLine is one line item of GET /order/{id}.
type OrderLine struct {
	Name      string  `json:"name"`
	Barcode   string  `json:"barcode"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	OrderDate string  `json:"order_date,omitempty"`
}

// Invoice is the payload of GET /invoice/{id}.
type Invoice struct {
	Order OrderSummary `json:"order"`
	Items []OrderLine  `json:"items"`
}

// OrderRow is an order summary with display-formatted fields.
type OrderRow struct {
	ID        int64   `json:"id"`
	Total     float64 `json:"total"`
	TotalText string  `json:"total_text"`
	DateText  string  `json:"date_text"`
}

// OrderLineRow is an order line with display-formatted fields.
type OrderLineRow struct {
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
	PriceText string `json:"price_text"`
	TotalText string `json:"total_text"`
}

// OrderDetailView is the modal view of a single order.
type OrderDetailView struct {
	ID        int64          `json:"id"`
	DateText  string         `json:"date_text"`
	Items     []OrderLineRow `json:"items"`
	TotalText string         `json:"total_text"`
}

// InvoiceView is the invoice payload enriched for display, including a
// QR code referencing the order.
type InvoiceView struct {
	ID        int64          `json:"id"`
	DateText  string         `json:"date_text"`
	Items     []OrderLineRow `json:"items"`
	TotalText string         `json:"total_text"`
	QRCodePNG string         `json:"qr_code_png"` // base64 PNG
}
