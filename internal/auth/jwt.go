package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nutriplan/backend/internal/models"
)

// TokenTTL is how long issued session tokens stay valid.
const TokenTTL = 72 * time.Hour

// GenerateToken signs an HS256 session token carrying the session
// identity claims.
func GenerateToken(session models.Session, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":      session.Email,
		"name":       session.Name,
		"clinicalId": session.ClinicalID,
		"exp":        time.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates a session token and reconstructs the session.
func ParseToken(tokenString string, secret []byte) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, errors.New("invalid claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return models.Session{}, errors.New("email claim missing")
	}
	name, _ := claims["name"].(string)
	clinicalID, _ := claims["clinicalId"].(string)
	return models.Session{Email: email, Name: name, ClinicalID: clinicalID}, nil
}
