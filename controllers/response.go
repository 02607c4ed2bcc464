package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dcode-github/real_estate_listing/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const UserIDKey = ContextKey("userID")

// Error codes returned in models.ErrorResponse.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidRole        = "invalid_role"
	CodeInvalidID          = "invalid_id"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal_error"
	CodeUnavailable        = "unavailable"
)

func userIDFromContext(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(UserIDKey).(primitive.ObjectID)
	return id, ok && !id.IsZero()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeRawJSON writes an already encoded JSON body.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorResponse{Code: code, Message: message})
}
