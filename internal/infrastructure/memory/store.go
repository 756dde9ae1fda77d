// Package memory holds an in-memory implementation of the repository
// ports. It backs the test suites and local development without
// Postgres; behavior mirrors the SQL repositories, including the
// current_stock bump on ledger append.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
)

// Store is a mutex-guarded map-backed store. The repository ports are
// exposed as views over the shared data: Products(), Customers(),
// Invoices(), Ledger(), Sequences().
//
// The exported *Err fields inject failures for exercising degraded
// allocation and partial-write paths; each applies to every matching
// call until cleared.
type Store struct {
	mu sync.Mutex

	products  map[string]*entity.Product
	customers map[string]*entity.Customer
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem // by invoice ID
	entries   map[string][]*entity.LedgerEntry // by product ID, append order
	sequences map[string]int64

	// invoice creation order, newest last, for List and LatestNumber
	invoiceOrder []string

	SequenceErr     error // NextInvoiceNumber fails
	LatestNumberErr error // LatestNumber fails
	CreateItemErr   error // CreateItem fails
	AppendErr       error // ledger Append fails
	DeleteErr       error // invoice Delete fails
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		customers: make(map[string]*entity.Customer),
		invoices:  make(map[string]*entity.Invoice),
		items:     make(map[string][]*entity.InvoiceItem),
		entries:   make(map[string][]*entity.LedgerEntry),
		sequences: make(map[string]int64),
	}
}

func (s *Store) Products() repository.ProductRepository   { return productRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository   { return invoiceRepo{s} }
func (s *Store) Ledger() repository.LedgerRepository      { return ledgerRepo{s} }
func (s *Store) Sequences() repository.SequenceRepository { return sequenceRepo{s} }

// --- products ---

type productRepo struct{ s *Store }

func (r productRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (r productRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, product := range r.s.products {
		if product.SKU == sku {
			cp := *product
			return &cp, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *product
	// stock only moves through Append
	cp.CurrentStock = existing.CurrentStock
	r.s.products[product.ID] = &cp
	return nil
}

func (r productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.products))
	for id := range r.s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Product, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *r.s.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r productRepo) ListLowStock() ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, product := range r.s.products {
		if product.Status == entity.ProductStatusActive &&
			product.CurrentStock.LessThanOrEqual(product.MinStock) {
			cp := *product
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r productRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// --- customers ---

type customerRepo struct{ s *Store }

func (r customerRepo) Create(customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *customer
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r customerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *customer
	return &cp, nil
}

func (r customerRepo) Update(customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *customer
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r customerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.customers))
	for id := range r.s.customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Customer, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *r.s.customers[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r customerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

// --- ledger ---

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) Append(entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.AppendErr != nil {
		return r.s.AppendErr
	}
	product, ok := r.s.products[entry.ProductID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *entry
	r.s.entries[entry.ProductID] = append(r.s.entries[entry.ProductID], &cp)
	product.CurrentStock = product.CurrentStock.Add(entry.QuantityDelta)
	return nil
}

func (r ledgerRepo) ListByProduct(productID string) ([]*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := r.s.entries[productID]
	out := make([]*entity.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

func (r ledgerRepo) CountByProduct(productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.entries[productID]), nil
}

// --- invoices ---

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[invoice.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	r.s.invoiceOrder = append(r.s.invoiceOrder, invoice.ID)
	return nil
}

func (r invoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.CreateItemErr != nil {
		return r.s.CreateItemErr
	}
	if _, ok := r.s.invoices[item.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &cp)
	return nil
}

func (r invoiceRepo) Update(invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[invoice.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	invoice, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *invoice
	return &cp, nil
}

func (r invoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, item := range items {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r invoiceRepo) DeleteItems(invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, invoiceID)
	return nil
}

func (r invoiceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.DeleteErr != nil {
		return r.s.DeleteErr
	}
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	delete(r.s.items, id)
	for i, oid := range r.s.invoiceOrder {
		if oid == id {
			r.s.invoiceOrder = append(r.s.invoiceOrder[:i], r.s.invoiceOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r invoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Invoice, 0, limit)
	// newest first
	for i := len(r.s.invoiceOrder) - 1 - offset; i >= 0; i-- {
		if len(out) == limit {
			break
		}
		cp := *r.s.invoices[r.s.invoiceOrder[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (r invoiceRepo) LatestNumber(prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.LatestNumberErr != nil {
		return "", r.s.LatestNumberErr
	}
	for i := len(r.s.invoiceOrder) - 1; i >= 0; i-- {
		number := r.s.invoices[r.s.invoiceOrder[i]].InvoiceNumber
		if len(number) > len(prefix) && number[:len(prefix)+1] == prefix+"-" {
			return number, nil
		}
	}
	return "", nil
}

const referenceSampleSize = 3

func (r invoiceRepo) CountItemsByProduct(productID string) (repository.ProductReference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ref repository.ProductReference
	for invoiceID, items := range r.s.items {
		for _, item := range items {
			if item.ProductID == productID {
				ref.Count++
				if len(ref.Sample) < referenceSampleSize {
					ref.Sample = append(ref.Sample, r.s.invoices[invoiceID].InvoiceNumber)
				}
			}
		}
	}
	sort.Strings(ref.Sample)
	return ref, nil
}

func (r invoiceRepo) CountByCustomer(customerID string) (repository.ProductReference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ref repository.ProductReference
	for _, invoice := range r.s.invoices {
		if invoice.CustomerID == customerID {
			ref.Count++
			if len(ref.Sample) < referenceSampleSize {
				ref.Sample = append(ref.Sample, invoice.InvoiceNumber)
			}
		}
	}
	sort.Strings(ref.Sample)
	return ref, nil
}

// --- sequences ---

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) NextInvoiceNumber(prefix string, pad int) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SequenceErr != nil {
		return "", r.s.SequenceErr
	}
	r.s.sequences[prefix]++
	return fmt.Sprintf("%s-%0*d", prefix, pad, r.s.sequences[prefix]), nil
}
