package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/estoquehub/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	EnsureUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
}

// TokenIssuer signs a bearer token for user and returns it with its
// expiry as a unix timestamp.
type TokenIssuer interface {
	GenerateToken(user *model.User) (string, int64, error)
}

type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
}

type AuthOption func(*AuthService)

// WithBcryptCost sets the bcrypt cost used for new hashes
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores a new user and signs them in. A taken email is reported
// by the store as model.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkPasswordBytes(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// Login returns model.ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkPasswordBytes(req.Password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.respond(user)
}

// Profile returns the user with userID
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Seed makes sure a user with email exists. An existing user keeps its
// password.
func (s *AuthService) Seed(ctx context.Context, name, email, password string) (*model.User, error) {
	req := &model.RegisterRequest{Name: strings.TrimSpace(name), Email: normalizeEmail(email), Password: password}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkPasswordBytes(password); err != nil {
		return nil, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	return s.users.EnsureUser(ctx, req.Name, req.Email, hash)
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *AuthService) respond(user *model.User) (*model.LoginResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// maxPasswordBytes is bcrypt's input limit. The validator's max counts runes.
const maxPasswordBytes = 72

func checkPasswordBytes(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, maxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
