package services

import (
	"encoding/base64"
	"fmt"
	"log"

	"CounterPOS/app/api"
	"CounterPOS/app/format"
	"CounterPOS/app/models"

	qrcode "github.com/skip2/go-qrcode"
)

// OrderService serves the order history and invoice views. Orders are
// immutable; everything here is fetch, format, discard.
type OrderService struct {
	client    *api.Client
	formatter *format.Formatter
}

// NewOrderService creates a new order service.
func NewOrderService(client *api.Client, formatter *format.Formatter) *OrderService {
	return &OrderService{client: client, formatter: formatter}
}

// ListOrders fetches the order history, formatted for display.
func (s *OrderService) ListOrders() ([]models.OrderRow, error) {
	orders, err := s.client.ListOrders()
	if err != nil {
		log.Printf("Order list failed: %v", err)
		return nil, err
	}

	rows := make([]models.OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, models.OrderRow{
			ID:        o.ID,
			Total:     o.Total,
			TotalText: s.formatter.Currency(o.Total),
			DateText:  s.formatter.DateTimeString(o.OrderDate),
		})
	}
	return rows, nil
}

// OrderDetail fetches one order's line items for the detail modal.
func (s *OrderService) OrderDetail(id int64) (*models.OrderDetailView, error) {
	items, err := s.client.OrderDetail(id)
	if err != nil {
		log.Printf("Order detail failed for %d: %v", id, err)
		return nil, err
	}

	view := &models.OrderDetailView{ID: id}
	var total float64
	for _, item := range items {
		if view.DateText == "" && item.OrderDate != "" {
			view.DateText = s.formatter.DateTimeString(item.OrderDate)
		}
		total += item.Total
		view.Items = append(view.Items, models.OrderLineRow{
			Name:      item.Name,
			Barcode:   item.Barcode,
			Quantity:  item.Quantity,
			PriceText: s.formatter.Currency(item.Price),
			TotalText: s.formatter.Currency(item.Total),
		})
	}
	view.TotalText = s.formatter.Currency(total)
	return view, nil
}

// InvoiceDetail fetches the invoice payload for one order and attaches
// a QR code referencing it.
func (s *OrderService) InvoiceDetail(id int64) (*models.InvoiceView, error) {
	invoice, err := s.client.InvoiceDetail(id)
	if err != nil {
		log.Printf("Invoice detail failed for %d: %v", id, err)
		return nil, err
	}

	view := &models.InvoiceView{
		ID:        invoice.Order.ID,
		DateText:  s.formatter.DateTimeString(invoice.Order.OrderDate),
		TotalText: s.formatter.Currency(invoice.Order.Total),
	}
	for _, item := range invoice.Items {
		view.Items = append(view.Items, models.OrderLineRow{
			Name:      item.Name,
			Barcode:   item.Barcode,
			Quantity:  item.Quantity,
			PriceText: s.formatter.Currency(item.Price),
			TotalText: s.formatter.Currency(item.Total),
		})
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/invoice/%d", s.client.BaseURL(), invoice.Order.ID), qrcode.Medium, 256)
	if err != nil {
		// The invoice is still usable without its QR code.
		log.Printf("Invoice QR generation failed for %d: %v", id, err)
	} else {
		view.QRCodePNG = base64.StdEncoding.EncodeToString(png)
	}

	return view, nil
}
