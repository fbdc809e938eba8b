// Package auth はベアラー資格情報の検証と所有権判定を提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 検証エラー
var (
	// ErrInvalidToken はトークンの署名不正・形式不正を表す。
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken はトークンの失効を表す。
	ErrExpiredToken = errors.New("token expired")
	// ErrMissingSubject はsubクレームの欠落を表す。
	ErrMissingSubject = errors.New("missing sub claim")
)

// TokenVerifier はベアラートークン検証のインターフェース。
// IDプロバイダーが発行したトークンからsubject（安定した呼び出し元識別子）を取り出す。
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// JWTVerifier はHS256署名付きJWTを検証するTokenVerifier実装。
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier は指定された共有シークレットでJWTVerifierを生成する。
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify はトークンを検証し、subクレームからsubjectを取り出す。
// 失効・署名不正・subの欠落はすべてエラーになる。
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 署名方式がHS256系であることを検証
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrMissingSubject
	}

	return sub, nil
}

// Generate は指定subjectのJWTを有効期限付きで発行する。
// テストおよび開発用ツールを想定している。
func (v *JWTVerifier) Generate(subject string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
