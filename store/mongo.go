package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dcode-github/real_estate_listing/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps users and properties in two MongoDB collections.
type MongoStore struct {
	users      *mongo.Collection
	properties *mongo.Collection
}

func NewMongoStore(users, properties *mongo.Collection) *MongoStore {
	return &MongoStore{users: users, properties: properties}
}

// EnsureIndexes creates the unique index on users.email, the only index
// the collections carry.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("creating users.email index: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.users.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.TrimSpace(user.Email)

	_, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.TrimSpace(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) CreateProperty(ctx context.Context, property *models.Property) error {
	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	if _, err := s.properties.InsertOne(ctx, property); err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (s *MongoStore) FindPropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find property %s: %w", id.Hex(), err)
	}
	return &property, nil
}

func (s *MongoStore) FindPropertiesBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Property, error) {
	return s.findProperties(ctx, bson.M{"sellerId": sellerID})
}

func (s *MongoStore) FindAllProperties(ctx context.Context) ([]models.Property, error) {
	return s.findProperties(ctx, bson.M{})
}

func (s *MongoStore) findProperties(ctx context.Context, filter bson.M) ([]models.Property, error) {
	cursor, err := s.properties.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

func (s *MongoStore) UpdateProperty(ctx context.Context, id, sellerID primitive.ObjectID, update models.PropertyUpdate) (*models.Property, error) {
	filter := bson.M{"_id": id, "sellerId": sellerID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var property models.Property
	err := s.properties.FindOneAndUpdate(ctx, filter, bson.M{"$set": update.SetDoc(time.Now().UTC())}, opts).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update property %s: %w", id.Hex(), err)
	}
	return &property, nil
}

func (s *MongoStore) DeleteProperty(ctx context.Context, id, sellerID primitive.ObjectID) (bool, error) {
	res, err := s.properties.DeleteOne(ctx, bson.M{"_id": id, "sellerId": sellerID})
	if err != nil {
		return false, fmt.Errorf("delete property %s: %w", id.Hex(), err)
	}
	return res.DeletedCount > 0, nil
}
