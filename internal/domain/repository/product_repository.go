package repository

import "github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"

// ProductRepository is the persistence port for Product.
// CurrentStock is never written through Update: it only moves as a side
// effect of LedgerRepository.Append.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	// ListLowStock returns active products with current_stock <= min_stock.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
