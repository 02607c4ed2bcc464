package store

import (
	"context"
	"errors"

	"github.com/dcode-github/real_estate_listing/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, property *models.Property) error
	FindPropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindPropertiesBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Property, error)
	FindAllProperties(ctx context.Context) ([]models.Property, error)
	// UpdateProperty applies update to the property with the given id owned by
	// sellerID and returns the stored result, or ErrNotFound.
	UpdateProperty(ctx context.Context, id, sellerID primitive.ObjectID, update models.PropertyUpdate) (*models.Property, error)
	// DeleteProperty reports whether a property with the given id owned by
	// sellerID was removed.
	DeleteProperty(ctx context.Context, id, sellerID primitive.ObjectID) (bool, error)
}
