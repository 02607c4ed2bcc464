package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dcode-github/real_estate_listing/middleware"
	"github.com/dcode-github/real_estate_listing/models"
	"github.com/dcode-github/real_estate_listing/store/storetest"
	"github.com/dcode-github/real_estate_listing/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t      *testing.T
	router http.Handler
	codec  *utils.TokenCodec
}

func newTestServer(t *testing.T) *testServer {
	mem := storetest.NewMemory()
	codec := utils.NewTokenCodec("route-secret", 0, "test")
	router := NewHandler(Deps{
		Users:      mem,
		Properties: mem,
		DB:         mem,
		Tokens:     codec,
		BcryptCost: bcrypt.MinCost,
	})
	return &testServer{t: t, router: router, codec: codec}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) registerAndLogin(email string, role models.Role) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", "", map[string]string{
		"firstName": "Test", "lastName": "User", "email": email,
		"password": "pw", "phoneNumber": "555", "role": string(role),
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TokenResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func TestBuyerBrowsesWithoutAuth(t *testing.T) {
	s := newTestServer(t)

	seller := s.registerAndLogin("seller@x.com", models.RoleSeller)
	w := s.do(http.MethodPost, "/property", seller, map[string]interface{}{"title": "Cottage", "price": 90000})
	require.Equal(t, http.StatusCreated, w.Code)

	token := s.registerAndLogin("buyer@x.com", models.RoleBuyer)
	assert.NotEmpty(t, token)

	w = s.do(http.MethodGet, "/all-properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listings []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Cottage", listings[0].Title)
}

func TestAllPropertiesReturnsEveryListing(t *testing.T) {
	s := newTestServer(t)
	a := s.registerAndLogin("a@x.com", models.RoleSeller)
	b := s.registerAndLogin("b@x.com", models.RoleSeller)

	for _, tc := range []struct{ token, title string }{{a, "A1"}, {b, "B1"}, {a, "A2"}} {
		w := s.do(http.MethodPost, "/property", tc.token, map[string]string{"title": tc.title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/all-properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listings []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	titles := make([]string, 0, len(listings))
	for _, p := range listings {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"A1", "B1", "A2"}, titles)
}

func TestSellerLifecycle(t *testing.T) {
	s := newTestServer(t)
	seller := s.registerAndLogin("seller@x.com", models.RoleSeller)
	other := s.registerAndLogin("other@x.com", models.RoleSeller)

	w := s.do(http.MethodPost, "/property", seller, map[string]interface{}{"title": "Loft", "bedrooms": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Data.ID.Hex()

	w = s.do(http.MethodGet, "/properties", seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var own []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &own))
	require.Len(t, own, 1)

	w = s.do(http.MethodGet, "/properties", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodPut, "/property/"+id, other, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/property/"+id, seller, map[string]interface{}{"bedrooms": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 2, updated.Bedrooms)
	assert.Equal(t, "Loft", updated.Title)

	w = s.do(http.MethodDelete, "/property/"+id, seller, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/property/"+id, seller, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/property/"+id, seller, map[string]string{"title": "Gone"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	id := primitive.NewObjectID().Hex()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/property"},
		{http.MethodGet, "/properties"},
		{http.MethodPut, "/property/" + id},
		{http.MethodDelete, "/property/" + id},
	} {
		w := s.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)

		w = s.do(tc.method, tc.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTokenIdentifiesItsOwnUser(t *testing.T) {
	s := newTestServer(t)
	a := s.registerAndLogin("a@x.com", models.RoleSeller)
	b := s.registerAndLogin("b@x.com", models.RoleSeller)

	w := s.do(http.MethodPost, "/property", a, map[string]string{"title": "A's"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/properties", b, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	claimsA, err := s.codec.ValidateJWT(a)
	require.NoError(t, err)
	claimsB, err := s.codec.ValidateJWT(b)
	require.NoError(t, err)
	assert.NotEqual(t, claimsA.UserID, claimsB.UserID)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnmatchedRequestsAreTagged(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = s.do(http.MethodGet, "/all-properties", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
