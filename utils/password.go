package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordHasher hashes passwords at one configured bcrypt cost.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	return HashPassword(password, h.cost)
}

func (h *PasswordHasher) Check(password, hash string) bool {
	return CheckPasswordHash(password, hash)
}

// CompareDummy does the same bcrypt work as Check against a fixed hash made
// at the hasher's cost. Login calls it for unknown emails so both rejections
// take as long.
func (h *PasswordHasher) CompareDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
