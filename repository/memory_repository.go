package repository

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/model"
)

// MemoryUserRepository keeps users in process memory. Used for local runs
// (database.driver: memory) and HTTP tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	prepareUser(user)
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) UpdateUserRole(_ context.Context, id string, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// MemoryProductRepository keeps products in process memory.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]model.Product)}
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prepareProduct(product)
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) GetAllProducts(_ context.Context) ([]*model.Product, error) {
	return r.filter(func(model.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) GetProductsByCategory(_ context.Context, category string) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.Category == category }), nil
}

func (r *MemoryProductRepository) GetFeaturedProducts(_ context.Context) ([]*model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.IsFeatured }), nil
}

func (r *MemoryProductRepository) GetRandomProducts(_ context.Context, size int) ([]model.RecommendedProduct, error) {
	all := r.filter(func(model.Product) bool { return true })
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > size {
		all = all[:size]
	}

	out := make([]model.RecommendedProduct, 0, len(all))
	for _, p := range all {
		out = append(out, p.Recommended())
	}
	return out, nil
}

func (r *MemoryProductRepository) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) UpdateFeatured(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now().UTC()
	stored.IsFeatured = product.IsFeatured
	stored.UpdatedAt = product.UpdatedAt
	r.products[product.ID] = stored
	return nil
}

func (r *MemoryProductRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Len returns the number of stored products.
func (r *MemoryProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *MemoryProductRepository) filter(keep func(model.Product) bool) []*model.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Product, 0)
	for _, p := range r.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
