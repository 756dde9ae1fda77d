package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// CustomerUseCase manages the customer directory.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	log          *logger.Logger
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	log *logger.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, invoiceRepo: invoiceRepo, log: log}
}

// Create registers a customer.
func (uc *CustomerUseCase) Create(_ context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		GSTIN:     in.GSTIN,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", customer.ID).Msg("customer created")
	return toCustomerResponse(customer), nil
}

// Get returns one customer.
func (uc *CustomerUseCase) Get(_ context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// Update applies the non-nil fields of the request.
func (uc *CustomerUseCase) Update(_ context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		customer.Name = *in.Name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.GSTIN != nil {
		customer.GSTIN = *in.GSTIN
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List returns a page of customers.
func (uc *CustomerUseCase) List(_ context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	customers, err := uc.customerRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Items: make([]dto.CustomerResponse, 0, len(customers)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, customer := range customers {
		out.Items = append(out.Items, *toCustomerResponse(customer))
	}
	return out, nil
}

// Delete removes a customer unless invoices still reference it.
func (uc *CustomerUseCase) Delete(_ context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	refs, err := uc.invoiceRepo.CountByCustomer(id)
	if err != nil {
		return err
	}
	if refs.Count > 0 {
		return &domain.ReferentialIntegrityError{
			Entity:     "customer",
			ID:         id,
			References: refs.Count,
			Sample:     refs.Sample,
		}
	}
	return uc.customerRepo.Delete(id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		GSTIN:   c.GSTIN,
		Address: c.Address,
	}
}
