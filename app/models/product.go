package models

// Product is a catalog entry as returned by GET /products.
type Product struct {
	ID      int64   `json:"id"`
	Barcode string  `json:"barcode"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Stock   int     `json:"stock"`
}

// ProductInput is the POST /product request body. The backend expects
// capitalised field names.
type ProductInput struct {
	Barcode string  `json:"Barcode"`
	Name    string  `json:"Name"`
	Price   float64 `json:"Price"`
	Stock   int     `json:"Stock"`
}

// ProductUpdate is the PUT /product/{id} request body. The barcode is
// immutable after creation.
type ProductUpdate struct {
	Name  string  `json:"Name"`
	Price float64 `json:"Price"`
	Stock int     `json:"Stock"`
}

// BarcodeResult is the payload of GET /get_barcode. Success with a
// non-empty barcode means the scanner decoded a value since the last
// poll; otherwise Message carries the scanner's status or rejection.
type BarcodeResult struct {
	Success bool   `json:"success"`
	Barcode string `json:"barcode"`
	Message string `json:"message"`
}
