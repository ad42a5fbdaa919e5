package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/repository"
	"github.com/SinaAfzali/elite-bite/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles register/login and token issuance.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterReq struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	// Role defaults to customer.
	Role string `json:"role"`
}

var errBadCredentials = &Error{Kind: KindUnauthorized, Msg: "invalid credentials"}

// Register creates a user; a taken email is a validation error.
func (s *AuthService) Register(ctx context.Context, req RegisterReq) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, invalid("email and password are required")
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = entity.RoleCustomer
	}
	if role != entity.RoleCustomer && role != entity.RoleManager {
		return nil, invalid("role must be customer or manager")
	}

	count, err := s.userRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, internal("check email", err)
	}
	if count > 0 {
		return nil, invalid("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("hash password failed", err)
	}

	user := &entity.User{
		Email:       email,
		Password:    string(hashed),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Role:        role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("email already registered")
		}
		return nil, internal("create user", err)
	}
	return user, nil
}

// Login checks the password and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, errBadCredentials
	}
	if err != nil {
		return "", nil, internal("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errBadCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, internal("cannot generate token", err)
	}
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, actor Actor) (*entity.User, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	u, err := s.userRepo.FindByID(ctx, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, internal("load user", err)
	}
	return u, nil
}
