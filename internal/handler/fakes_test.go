package handler_test

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jlucero/shop-api/internal/handler"
	"github.com/jlucero/shop-api/internal/model"
	"github.com/jlucero/shop-api/internal/repository"
	"github.com/jlucero/shop-api/internal/utils"
)

// In-memory stores implementing the handler interfaces. They reuse the
// repository sentinel errors so handlers map failures exactly as they
// would against MySQL.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (s *fakeUserStore) seed(firstName, lastName, email, password string, active bool) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		panic(err)
	}
	s.nextID++
	u := model.User{
		ID:           s.nextID,
		Email:        strings.ToLower(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u
}

func (s *fakeUserStore) Create(_ context.Context, firstName, lastName, email, password string, cost int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.nextID++
	s.users[s.nextID] = model.User{
		ID: s.nextID, Email: email, FirstName: firstName, LastName: lastName,
		PasswordHash: hash, IsActive: true, CreatedAt: time.Now().UTC(),
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsActive {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) ListActive(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id uint64, firstName, lastName, email *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsActive {
		return repository.ErrUserNotFound
	}
	if email != nil {
		norm := strings.ToLower(strings.TrimSpace(*email))
		for _, other := range s.users {
			if other.ID != id && other.Email == norm {
				return repository.ErrEmailExists
			}
		}
		u.Email = norm
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeProductStore struct {
	mu       sync.Mutex
	nextID   uint64
	products map[uint64]model.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[uint64]model.Product{}}
}

func (s *fakeProductStore) seed(ownerID uint64, name string, price float64, stock int64) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := model.Product{
		ID: s.nextID, OwnerID: ownerID, Name: name, Description: name,
		Price: price, Stock: stock, IsActive: true,
	}
	s.products[p.ID] = p
	return p
}

func (s *fakeProductStore) Create(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.products[p.ID] = *p
	return nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id uint64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return model.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (s *fakeProductStore) ListActive(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeProductStore) Update(_ context.Context, id uint64, name, description *string, price *float64, stock *int64, imagePath *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return repository.ErrProductNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if price != nil {
		p.Price = *price
	}
	if stock != nil {
		p.Stock = *stock
	}
	if imagePath != nil {
		p.ImagePath = *imagePath
	}
	s.products[id] = p
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// DecrementStock mirrors the SQL conditional update: check and decrement
// happen under one lock, so concurrent buyers of the last unit cannot
// both succeed.
func (s *fakeProductStore) DecrementStock(_ context.Context, id uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return 0, repository.ErrProductNotFound
	}
	if p.Stock <= 0 {
		return 0, repository.ErrOutOfStock
	}
	p.Stock--
	s.products[id] = p
	return p.Stock, nil
}

type fakeTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: map[string]bool{}}
}

func (s *fakeTokenStore) Blacklist(_ context.Context, _ uint64, tokenHash string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenHash] = true
	return nil
}

func (s *fakeTokenStore) IsBlacklisted(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[tokenHash], nil
}

type fakeImageStore struct {
	saved   []string
	removed []string
}

func (s *fakeImageStore) Save(fh *multipart.FileHeader) (string, error) {
	rel := "product_image/" + fh.Filename
	s.saved = append(s.saved, rel)
	return rel, nil
}

func (s *fakeImageStore) Remove(rel string) error {
	s.removed = append(s.removed, rel)
	return nil
}

var _ handler.UserStore = (*fakeUserStore)(nil)
var _ handler.ProductStore = (*fakeProductStore)(nil)
var _ handler.TokenStore = (*fakeTokenStore)(nil)
var _ handler.ImageStore = (*fakeImageStore)(nil)
