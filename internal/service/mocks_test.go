package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// Mock ProductRepository for testing
type mockProductRepository struct {
	products []*domain.Product
	byID     map[string]*domain.Product
	listErr  error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		byID: make(map[string]*domain.Product),
	}
}

func (m *mockProductRepository) add(product *domain.Product) {
	m.products = append(m.products, product)
	m.byID[product.ID] = product
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, exists := m.byID[id]
	if !exists {
		return nil, nil
	}
	return product, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if _, exists := m.byID[product.ID]; exists {
		return errors.New("product already exists")
	}
	m.add(product)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.byID[product.ID]; !exists {
		return sql.ErrNoRows
	}
	m.byID[product.ID] = product
	for i, p := range m.products {
		if p.ID == product.ID {
			m.products[i] = product
		}
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	if _, exists := m.byID[id]; !exists {
		return sql.ErrNoRows
	}
	delete(m.byID, id)
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

// Mock UserRepository for testing
type mockUserRepository struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(user *domain.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepository) GetByUsername(username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}
