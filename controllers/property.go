package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dcode-github/real_estate_listing/cache"
	"github.com/dcode-github/real_estate_listing/models"
	"github.com/dcode-github/real_estate_listing/store"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateProperty(properties store.PropertyStore, listingCache cache.PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			log.Println("User ID missing in context")
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "User ID missing in context")
			return
		}

		var input models.PropertyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Printf("Invalid request body: %v", err)
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
			return
		}

		property := input.Property(userID, time.Now().UTC())
		if err := properties.CreateProperty(r.Context(), &property); err != nil {
			log.Printf("Insert failed: %v", err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to create property")
			return
		}

		listingCache.Invalidate(r.Context())

		writeJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Property added",
			Data:    property,
		})
	}
}

func GetOwnProperties(properties store.PropertyStore, listingCache cache.PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			log.Println("User ID missing in context for GetOwnProperties")
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "User ID missing in context")
			return
		}

		serveListing(w, r, listingCache, cache.SellerKey(userID.Hex()), func(ctx context.Context) ([]models.Property, error) {
			return properties.FindPropertiesBySeller(ctx, userID)
		})
	}
}

func GetAllProperties(properties store.PropertyStore, listingCache cache.PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveListing(w, r, listingCache, cache.AllKey(), properties.FindAllProperties)
	}
}

// serveListing answers from the cache when possible and fills it on a miss,
// under the generation read before the store was queried.
func serveListing(w http.ResponseWriter, r *http.Request, listingCache cache.PropertyCache, key string, load func(context.Context) ([]models.Property, error)) {
	cached, generation, ok := listingCache.Get(r.Context(), key)
	if ok {
		writeRawJSON(w, http.StatusOK, cached)
		return
	}

	result, err := load(r.Context())
	if err != nil {
		log.Printf("Error fetching properties for %s: %v", key, err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "Error fetching properties")
		return
	}
	if result == nil {
		result = []models.Property{}
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to serialize properties: %v", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to encode response")
		return
	}

	listingCache.Set(r.Context(), key, generation, resultBytes)
	writeRawJSON(w, http.StatusOK, resultBytes)
}

func UpdateProperty(properties store.PropertyStore, listingCache cache.PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			log.Println("User ID missing in context")
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "User ID missing in context")
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			WriteError(w, http.StatusBadRequest, CodeInvalidID, "Invalid property ID")
			return
		}

		var update models.PropertyUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Printf("Invalid update data: %v", err)
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid update data")
			return
		}

		if !authorizeOwner(w, r, properties, objID, userID, false) {
			return
		}

		updated, err := properties.UpdateProperty(r.Context(), objID, userID, update)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("Property %s disappeared before update", propertyID)
				WriteError(w, http.StatusNotFound, CodeNotFound, "Property not found")
				return
			}
			log.Printf("Update failed for property %s: %v", propertyID, err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Update failed")
			return
		}

		listingCache.Invalidate(r.Context())

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteProperty(properties store.PropertyStore, listingCache cache.PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r)
		if !ok {
			log.Println("User ID missing in context")
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "User ID missing in context")
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			WriteError(w, http.StatusBadRequest, CodeInvalidID, "Invalid property ID")
			return
		}

		// A missing property counts as already deleted.
		if !authorizeOwner(w, r, properties, objID, userID, true) {
			return
		}

		deleted, err := properties.DeleteProperty(r.Context(), objID, userID)
		if err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Delete failed")
			return
		}

		if deleted {
			listingCache.Invalidate(r.Context())
		}

		writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Property deleted"})
	}
}

// authorizeOwner checks that the property exists and belongs to userID,
// writing the error response itself when it does not. With missingOK a
// nonexistent property passes the check.
func authorizeOwner(w http.ResponseWriter, r *http.Request, properties store.PropertyStore, id, userID primitive.ObjectID, missingOK bool) bool {
	existing, err := properties.FindPropertyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if missingOK {
				return true
			}
			log.Printf("No property found with ID %s", id.Hex())
			WriteError(w, http.StatusNotFound, CodeNotFound, "Property not found")
			return false
		}
		log.Printf("Lookup failed for property %s: %v", id.Hex(), err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to load property")
		return false
	}

	if existing.SellerID != userID {
		log.Printf("User %s is not the seller of property %s", userID.Hex(), id.Hex())
		WriteError(w, http.StatusForbidden, CodeForbidden, "Only the seller may modify this property")
		return false
	}
	return true
}
