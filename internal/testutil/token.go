package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// IDToken signs an ID token with the given profile. exp of zero leaves the
// claim out. The signature key is fixed; nothing in the site verifies it.
func IDToken(t *testing.T, name, email string, exp time.Time) string {
	t.Helper()
	claims := auth.Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  "https://accounts.google.com",
			Subject: "1234567890",
		},
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
