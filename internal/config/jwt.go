package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenGame = errors.New("token issued for another game")

// GameClaims grant control of one hosted game.
type GameClaims struct {
	GameID uuid.UUID `json:"game_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewJWT(secret string, lifetime time.Duration) *JWT {
	return &JWT{
		secret:        []byte(secret),
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
		now:           time.Now,
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) IssueGameToken(id uuid.UUID) (string, error) {
	now := j.now()
	return j.Sign(&GameClaims{
		GameID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	})
}

func (j *JWT) ParseGameClaims(tokenString string) (*GameClaims, error) {
	claims := &GameClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Authorize checks that tokenString grants control of the game id.
func (j *JWT) Authorize(tokenString string, id uuid.UUID) error {
	claims, err := j.ParseGameClaims(tokenString)
	if err != nil {
		return err
	}
	if claims.GameID != id {
		return fmt.Errorf("%w: %s", ErrTokenGame, claims.GameID)
	}
	return nil
}
