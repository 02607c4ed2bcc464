// Package storetest provides an in-memory store for handler and route tests.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dcode-github/real_estate_listing/models"
	"github.com/dcode-github/real_estate_listing/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory implements store.UserStore and store.PropertyStore. Err, when set,
// is returned by every call.
type Memory struct {
	mu         sync.Mutex
	users      []models.User
	properties []models.Property

	Err error
}

var (
	_ store.UserStore     = (*Memory)(nil)
	_ store.PropertyStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Ping(context.Context) error {
	return m.Err
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	user.Email = strings.TrimSpace(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// Users returns a copy of every stored user.
func (m *Memory) Users() []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User{}, m.users...)
}

func (m *Memory) CreateProperty(_ context.Context, property *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	m.properties = append(m.properties, *property)
	return nil
}

func (m *Memory) FindPropertyByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, p := range m.properties {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) FindPropertiesBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	properties := []models.Property{}
	for _, p := range m.properties {
		if p.SellerID == sellerID {
			properties = append(properties, p)
		}
	}
	return properties, nil
}

func (m *Memory) FindAllProperties(context.Context) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Property{}, m.properties...), nil
}

func (m *Memory) UpdateProperty(_ context.Context, id, sellerID primitive.ObjectID, update models.PropertyUpdate) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i := range m.properties {
		if m.properties[i].ID == id && m.properties[i].SellerID == sellerID {
			update.Apply(&m.properties[i], time.Now().UTC())
			updated := m.properties[i]
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) DeleteProperty(_ context.Context, id, sellerID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}

	for i, p := range m.properties {
		if p.ID == id && p.SellerID == sellerID {
			m.properties = append(m.properties[:i], m.properties[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
