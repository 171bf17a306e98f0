package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carmarket-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

const adminAudience = "admin"

// Claims holds the JWT payload fields shared by user and admin tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 JWTs. Admin tokens carry the admin
// audience so a user token can never pass admin verification.
type Provider struct {
	privateKey  *rsa.PrivateKey
	publicKey   *rsa.PublicKey
	expiry      time.Duration
	adminExpiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Provider{
		privateKey:  privKey,
		publicKey:   pubKey,
		expiry:      cfg.JWTExpiry,
		adminExpiry: cfg.AdminJWTExpiry,
	}, nil
}

func (p *Provider) Sign(userID, role, sessionID string) (string, error) {
	claims := Claims{
		UserID:    userID,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

// SignAdmin issues a short-lived token for the admin surface.
func (p *Provider) SignAdmin(adminID, role string) (string, error) {
	claims := Claims{
		UserID: adminID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{adminAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.adminExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	return p.verify(tokenStr, "")
}

// VerifyAdmin accepts only tokens minted by SignAdmin.
func (p *Provider) VerifyAdmin(tokenStr string) (*Claims, error) {
	return p.verify(tokenStr, adminAudience)
}

func (p *Provider) verify(tokenStr, audience string) (*Claims, error) {
	var parseOpts []jwt.ParserOption
	if audience != "" {
		parseOpts = append(parseOpts, jwt.WithAudience(audience))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.publicKey, nil
	}, parseOpts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if audience == "" {
		for _, aud := range claims.Audience {
			if aud == adminAudience {
				return nil, errors.New("admin token not valid here")
			}
		}
	}
	return claims, nil
}
