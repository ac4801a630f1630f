package services

import (
	"log"

	"CounterPOS/app/api"
	"CounterPOS/app/models"
	"CounterPOS/app/notify"
)

// ProductService is the catalog CRUD passthrough. The backend owns the
// catalog; this service forwards commands, surfaces domain rejections
// (duplicate barcode and the like) verbatim and never caches.
type ProductService struct {
	client   *api.Client
	notifier notify.Notifier
}

// NewProductService creates a new product service.
func NewProductService(client *api.Client, notifier notify.Notifier) *ProductService {
	return &ProductService{client: client, notifier: notifier}
}

// ListProducts fetches the catalog.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	products, err := s.client.ListProducts()
	if err != nil {
		log.Printf("Product list failed: %v", err)
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one catalog entry, used to prefill the update
// form.
func (s *ProductService) GetProduct(id int64) (*models.Product, error) {
	product, err := s.client.GetProduct(id)
	if err != nil {
		log.Printf("Product fetch failed for %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

// CreateProduct adds a catalog entry.
func (s *ProductService) CreateProduct(input models.ProductInput) (*models.Product, error) {
	product, err := s.client.CreateProduct(input)
	if err != nil {
		log.Printf("Product create failed: %v", err)
		s.notifier.Error("Lỗi", s.userMessage(err, "Không thể thêm sản phẩm"))
		return nil, err
	}
	s.notifier.Success("Thành công", "Đã thêm sản phẩm mới")
	return product, nil
}

// UpdateProduct modifies a catalog entry.
func (s *ProductService) UpdateProduct(id int64, update models.ProductUpdate) (*models.Product, error) {
	product, err := s.client.UpdateProduct(id, update)
	if err != nil {
		log.Printf("Product update failed for %d: %v", id, err)
		s.notifier.Error("Lỗi", s.userMessage(err, "Không thể cập nhật sản phẩm"))
		return nil, err
	}
	s.notifier.Success("Thành công", "Đã cập nhật sản phẩm")
	return product, nil
}

// DeleteProduct removes a catalog entry.
func (s *ProductService) DeleteProduct(id int64) error {
	message, err := s.client.DeleteProduct(id)
	if err != nil {
		log.Printf("Product delete failed for %d: %v", id, err)
		s.notifier.Error("Lỗi", s.userMessage(err, "Không thể xóa sản phẩm"))
		return err
	}
	if message == "" {
		message = "Đã xóa sản phẩm"
	}
	s.notifier.Success("Thành công", message)
	return nil
}

func (s *ProductService) userMessage(err error, fallback string) string {
	if api.IsDomain(err) {
		return err.Error()
	}
	return fallback
}
