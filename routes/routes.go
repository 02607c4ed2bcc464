package routes

import (
	"net/http"
	"time"

	"github.com/dcode-github/real_estate_listing/cache"
	"github.com/dcode-github/real_estate_listing/controllers"
	"github.com/dcode-github/real_estate_listing/middleware"
	"github.com/dcode-github/real_estate_listing/store"
	"github.com/dcode-github/real_estate_listing/utils"
	"github.com/gorilla/mux"
)

type Deps struct {
	Users          store.UserStore
	Properties     store.PropertyStore
	DB             controllers.Pinger
	Cache          cache.PropertyCache
	Tokens         *utils.TokenCodec
	BcryptCost     int
	RequestTimeout time.Duration
}

// NewHandler builds the router and wraps it in the request logger, so
// requests that match no route are logged and tagged too.
func NewHandler(deps Deps) http.Handler {
	router := mux.NewRouter()
	Routes(router, deps)
	return middleware.RequestLogger(router)
}

func Routes(router *mux.Router, deps Deps) {
	listingCache := deps.Cache
	if listingCache == nil {
		listingCache = cache.NoopCache{}
	}
	passwords := utils.NewPasswordHasher(deps.BcryptCost)

	router.Use(middleware.Timeout(deps.RequestTimeout))

	router.HandleFunc("/health", controllers.Health(deps.DB)).Methods("GET")

	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(deps.Users, passwords)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(deps.Users, passwords, deps.Tokens)).Methods("POST")

	// Public listing
	router.HandleFunc("/all-properties", controllers.GetAllProperties(deps.Properties, listingCache)).Methods("GET")

	// Routes that require authentication
	authenticated := router.NewRoute().Subrouter()
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens))

	authenticated.HandleFunc("/property", controllers.CreateProperty(deps.Properties, listingCache)).Methods("POST")
	authenticated.HandleFunc("/properties", controllers.GetOwnProperties(deps.Properties, listingCache)).Methods("GET")
	authenticated.HandleFunc("/property/{id}", controllers.UpdateProperty(deps.Properties, listingCache)).Methods("PUT")
	authenticated.HandleFunc("/property/{id}", controllers.DeleteProperty(deps.Properties, listingCache)).Methods("DELETE")
}
