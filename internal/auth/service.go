package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "postboard-web"

// bcrypt sólo mira los primeros 72 bytes
const maxPasswordBytes = 72

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	email         string
	passwordHash  []byte
	jwtSecret     string
	jwtExpiration time.Duration
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// User es el registro público del usuario; nunca lleva la contraseña.
type User struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewService prepara el par de credenciales. Si passwordHash está vacío se
// calcula a partir de password.
func NewService(email, password, passwordHash, jwtSecret string, jwtExpiration time.Duration) (*Service, error) {
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		var err error
		hash, err = HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}

	return &Service{
		email:         email,
		passwordHash:  hash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}, nil
}

// CheckCredentials acepta únicamente el par configurado, sin normalizar nada.
func (s *Service) CheckCredentials(email, password string) bool {
	if email != s.email || len(password) > maxPasswordBytes {
		return false
	}
	return CheckPassword(password, s.passwordHash)
}

func (s *Service) Authenticate(req *LoginRequest) (*User, error) {
	if !s.CheckCredentials(req.Email, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return &User{Email: req.Email}, nil
}

func (s *Service) GenerateToken(user *User) (*AuthResponse, error) {
	now := time.Now()
	expirationTime := now.Add(s.jwtExpiration)

	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expirationTime.Unix(),
	}, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Email != s.email {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func CheckPassword(password string, hash []byte) bool {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	return err == nil
}
