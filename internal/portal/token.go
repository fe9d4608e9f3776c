package portal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Portal links are stateless signed tokens (HS256). The subject is the
// customer id; expiry bounds how long a mailed link stays usable.

type linkClaims struct {
	jwt.RegisteredClaims
}

const issuer = "rentalmanager-portal"

// MintLinkToken creates a signed portal token for a customer.
func MintLinkToken(customerID int64, secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing signing secret")
	}
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(customerID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// VerifyLinkToken validates a portal token and returns the customer id.
func VerifyLinkToken(tokenString, secret string, now time.Time) (int64, error) {
	if tokenString == "" {
		return 0, fmt.Errorf("missing token")
	}
	if secret == "" {
		return 0, fmt.Errorf("missing signing secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(issuer),
	)
	claims := &linkClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return 0, fmt.Errorf("token expired")
	}

	customerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || customerID <= 0 {
		return 0, fmt.Errorf("invalid subject")
	}
	return customerID, nil
}
