package repository

import "github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"

// CustomerRepository is the persistence port for Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	List(limit, offset int) ([]*entity.Customer, error)
	Delete(id string) error
}
