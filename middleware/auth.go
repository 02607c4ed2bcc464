package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dcode-github/real_estate_listing/controllers"
	"github.com/dcode-github/real_estate_listing/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingHeader   = errors.New("missing Authorization header")
	ErrMalformedHeader = errors.New("invalid Authorization header format")
	ErrBadToken        = errors.New("invalid or expired token")
)

// Authenticate resolves an Authorization header value to the user id it was
// issued for. A nil error means the caller is authorized as the returned id.
func Authenticate(codec *utils.TokenCodec, header string) (primitive.ObjectID, error) {
	if header == "" {
		return primitive.NilObjectID, ErrMissingHeader
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return primitive.NilObjectID, ErrMalformedHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return primitive.NilObjectID, ErrMalformedHeader
	}

	claims, err := codec.ValidateJWT(token)
	if err != nil {
		return primitive.NilObjectID, errors.Join(ErrBadToken, err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, errors.Join(ErrBadToken, err)
	}
	return userID, nil
}

func AuthMiddleware(codec *utils.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(codec, r.Header.Get("Authorization"))
			if err != nil {
				log.Printf("Unauthorized request %s %s: %v", r.Method, r.URL.Path, err)
				controllers.WriteError(w, http.StatusUnauthorized, controllers.CodeUnauthorized, unauthorizedMessage(err))
				return
			}

			ctx := context.WithValue(r.Context(), controllers.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingHeader):
		return "Missing Authorization header"
	case errors.Is(err, ErrMalformedHeader):
		return "Invalid Authorization header format"
	default:
		return "Invalid or expired token"
	}
}
