package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Property struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SellerID         primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Area             string             `bson:"area" json:"area"`
	Bedrooms         int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms        int                `bson:"bathrooms" json:"bathrooms"`
	Price            float64            `bson:"price" json:"price"`
	NearbyFacilities []string           `bson:"nearbyFacilities" json:"nearbyFacilities"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyInput is the client-supplied part of a listing. It has no id or
// seller fields, so neither can be set from a request body.
type PropertyInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Area             string   `json:"area"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	Price            float64  `json:"price"`
	NearbyFacilities []string `json:"nearbyFacilities"`
}

func (in PropertyInput) Property(sellerID primitive.ObjectID, now time.Time) Property {
	facilities := in.NearbyFacilities
	if facilities == nil {
		facilities = []string{}
	}
	return Property{
		ID:               primitive.NewObjectID(),
		SellerID:         sellerID,
		Title:            in.Title,
		Description:      in.Description,
		Area:             in.Area,
		Bedrooms:         in.Bedrooms,
		Bathrooms:        in.Bathrooms,
		Price:            in.Price,
		NearbyFacilities: facilities,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// PropertyUpdate carries the fields a client may overwrite. Unknown fields in
// the request body are ignored; nil fields are left untouched.
type PropertyUpdate struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Area             *string   `json:"area"`
	Bedrooms         *int      `json:"bedrooms"`
	Bathrooms        *int      `json:"bathrooms"`
	Price            *float64  `json:"price"`
	NearbyFacilities *[]string `json:"nearbyFacilities"`
}

// SetDoc builds the $set document for the update, always stamping updatedAt.
func (u PropertyUpdate) SetDoc(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Area != nil {
		set["area"] = *u.Area
	}
	if u.Bedrooms != nil {
		set["bedrooms"] = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		set["bathrooms"] = *u.Bathrooms
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.NearbyFacilities != nil {
		facilities := *u.NearbyFacilities
		if facilities == nil {
			facilities = []string{}
		}
		set["nearbyFacilities"] = facilities
	}
	return set
}

// Apply writes the non-nil fields onto p.
func (u PropertyUpdate) Apply(p *Property, now time.Time) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Area != nil {
		p.Area = *u.Area
	}
	if u.Bedrooms != nil {
		p.Bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = *u.Bathrooms
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.NearbyFacilities != nil {
		p.NearbyFacilities = append([]string{}, (*u.NearbyFacilities)...)
	}
	p.UpdatedAt = now
}
