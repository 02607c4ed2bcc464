package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dcode-github/real_estate_listing/models"
	"github.com/dcode-github/real_estate_listing/store"
	"github.com/dcode-github/real_estate_listing/utils"
)

type registerRequest struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterUser(users store.UserStore, passwords *utils.PasswordHasher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding user data: %v", err)
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request payload")
			return
		}

		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			log.Println("Registration without email or password")
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Email and password are required")
			return
		}
		if !req.Role.Valid() {
			log.Printf("Invalid role %q in registration", req.Role)
			WriteError(w, http.StatusBadRequest, CodeInvalidRole, "Role must be buyer or seller")
			return
		}

		hashedPwd, err := passwords.Hash(req.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to create user")
			return
		}

		user := models.User{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Password:    hashedPwd,
			PhoneNumber: req.PhoneNumber,
			Role:        req.Role,
			CreatedAt:   time.Now().UTC(),
		}

		if err := users.CreateUser(r.Context(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				log.Printf("User email already exists: %s", user.Email)
				WriteError(w, http.StatusConflict, CodeDuplicateEmail, "Email already exists")
				return
			}
			log.Printf("Error inserting user into the database: %v", err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to create user")
			return
		}

		writeJSON(w, http.StatusCreated, models.APIResponse{Success: true, Message: "User registered"})
	}
}

func LoginUser(users store.UserStore, passwords *utils.PasswordHasher, tokens *utils.TokenCodec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials loginRequest
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid payload")
			return
		}

		dbUser, err := users.FindUserByEmail(r.Context(), credentials.Email)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("Error looking up user %s: %v", credentials.Email, err)
				WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to log in")
				return
			}
			passwords.CompareDummy(credentials.Password)
			log.Printf("Login failed for %s", credentials.Email)
			writeInvalidCredentials(w)
			return
		}

		if !passwords.Check(credentials.Password, dbUser.Password) {
			log.Printf("Login failed for %s", credentials.Email)
			writeInvalidCredentials(w)
			return
		}

		token, err := tokens.GenerateJWT(dbUser.ID.Hex())
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "Failed to generate token")
			return
		}

		writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
	}
}

// writeInvalidCredentials is the single rejection for unknown emails and
// wrong passwords alike.
func writeInvalidCredentials(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
}
