package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/supplier"
)

type SupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[string]supplier.Supplier
	order     []string
}

func NewSupplierRepository(suppliers []supplier.Supplier) *SupplierRepository {
	r := &SupplierRepository{suppliers: make(map[string]supplier.Supplier, len(suppliers))}
	for _, item := range suppliers {
		if item.ID == "" {
			continue
		}
		r.suppliers[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (supplier.Supplier, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.suppliers[id]
	return item, ok, nil
}

func (r *SupplierRepository) GetBySlug(_ context.Context, slug string) (supplier.Supplier, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.suppliers[id].Slug == slug {
			return r.suppliers[id], true, nil
		}
	}

	return supplier.Supplier{}, false, nil
}

func (r *SupplierRepository) ListActive(_ context.Context) ([]supplier.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]supplier.Supplier, 0, len(r.order))
	for _, id := range r.order {
		if r.suppliers[id].IsActive {
			out = append(out, r.suppliers[id])
		}
	}

	return out, nil
}

func (r *SupplierRepository) Create(_ context.Context, s supplier.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return nil
	}
	if _, ok := r.suppliers[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	r.suppliers[s.ID] = s

	return nil
}

func (r *SupplierRepository) TouchLastSync(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.suppliers[id]
	if !ok {
		return nil
	}
	item.LastSyncAt = &at
	r.suppliers[id] = item

	return nil
}
