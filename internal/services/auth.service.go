package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"nigraan/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService mints and validates the JWT tokens clients present when
// labelling their realtime connection with an identity. It performs no
// credential verification; that lives in the external user store.
type AuthService struct {
	secretKey   []byte
	tokenExpiry time.Duration
}

// PrincipalClaims is the JWT claims structure carrying the principal.
type PrincipalClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthService builds the service, generating a random per-process secret
// when none is configured.
func NewAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Printf("[AUTH] random secret generation failed, using time-based fallback: %v", err)
			secretKey = fmt.Sprintf("nigraan-%d", time.Now().UnixNano())
		} else {
			secretKey = hex.EncodeToString(buf)
		}
		log.Printf("[AUTH] generated ephemeral secret key (length: %d bytes)", len(secretKey))
	}
	if tokenExpiry == 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken creates a signed token for a principal.
func (a *AuthService) GenerateToken(p models.Principal) (string, error) {
	now := time.Now()
	claims := PrincipalClaims{
		Email: p.Email,
		Name:  p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "nigraan",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secretKey)
}

// ValidateToken verifies a token and returns the principal it carries.
func (a *AuthService) ValidateToken(tokenString string) (models.Principal, error) {
	claims := &PrincipalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secretKey, nil
	})
	if err != nil {
		return models.Principal{}, err
	}
	if !token.Valid {
		return models.Principal{}, fmt.Errorf("invalid token")
	}

	return models.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}

// TokenExpiry returns when a token minted now will expire.
func (a *AuthService) TokenExpiry() time.Time {
	return time.Now().Add(a.tokenExpiry)
}
