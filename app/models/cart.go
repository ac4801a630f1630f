package models

// CartItem is one line of the server-owned cart, keyed by barcode.
// Total is computed by the backend; the client never recomputes it
// authoritatively, it only validates it for display.
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Total float64 `json:"total"`
}

// Cart is the authoritative cart snapshot as returned by GET /cart.
// The local copy is a read-mostly cache, fully replaced on every
// successful poll.
type Cart map[string]CartItem

// CartLine is a cart item paired with its barcode for stable display.
type CartLine struct {
	Barcode   string  `json:"barcode"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Total     float64 `json:"total"`
	PriceText string  `json:"price_text"`
	TotalText string  `json:"total_text"`
}

// CartView is the rendered cart pushed to the webview and to paired
// display clients. Lines are sorted by barcode so consecutive renders
// of the same snapshot are stable.
type CartView struct {
	Lines          []CartLine `json:"lines"`
	ItemCount      int        `json:"item_count"`
	GrandTotal     float64    `json:"grand_total"`
	GrandTotalText string     `json:"grand_total_text"`
}
