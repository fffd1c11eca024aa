package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/config"
	"github.com/maksv/social-network-api/internal/domain"
	"github.com/maksv/social-network-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("Username is already taken!")
	ErrEmailTaken         = errors.New("Email is already taken!")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("invalid reset token")
)

const (
	issuerLogin = "social-network-api"
	issuerReset = "social-network-api/reset"
)

// Mailer delivers account emails. Failures are logged by callers, never
// surfaced to the client.
type Mailer interface {
	Send(to, subject, body string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type SigninInput struct {
	Login    string
	Password string
}

type SocialLoginInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if existing, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	user := &domain.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  true,
		Following: []uuid.UUID{},
		Followers: []uuid.UUID{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Signin(ctx context.Context, input SigninInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.issueToken(user.ID, ttl, issuerLogin)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: token}, nil
}

// SocialLogin upserts a user by email and issues a token. Tokens issued
// here carry no expiry, matching the provider-login flow's behavior.
func (s *AuthService) SocialLogin(ctx context.Context, input SocialLoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user = &domain.User{
			ID:        uuid.New(),
			Username:  input.Username,
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			IsActive:  true,
			Following: []uuid.UUID{},
			Followers: []uuid.UUID{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := user.SetPassword(uuid.New().String()); err != nil {
			return nil, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.issueToken(user.ID, 0, issuerLogin)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: token}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

// ForgotPassword issues a reset token, stores it verbatim on the user
// record and mails the reset link. A failed send is logged but does not
// fail the request.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ttl := time.Duration(s.cfg.ResetTokenExpirationHours) * time.Hour
	token, err := s.issueToken(user.ID, ttl, issuerReset)
	if err != nil {
		return err
	}

	user.ResetPasswordToken = token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/resetpassword/%s", s.cfg.PublicURL, token)
	body := fmt.Sprintf("Hi %s,\n\nFollow the link below to reset your password:\n\n%s\n\nThe link expires in %d hours.",
		user.FirstName, link, s.cfg.ResetTokenExpirationHours)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		log.Printf("ERROR [auth.ForgotPassword] unable to send email: %v", err)
	}

	return nil
}

// ResetPassword redeems an outstanding reset token by exact match against
// the stored value, overwrites the password and clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.ResetPasswordToken = ""
	return s.userRepo.Update(ctx, user)
}

// issueToken signs an HS256 token for userID. A zero ttl omits the exp
// claim entirely.
func (s *AuthService) issueToken(userID uuid.UUID, ttl time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"iss": issuer,
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks signature and expiry. Malformed, expired and
// badly signed tokens all come back as ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
