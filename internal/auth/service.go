package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/nafld-hub/internal/config"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	devUserID = "dev-user"
	devTTL    = 30 * 24 * time.Hour
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = storage.ErrEmailTaken
	ErrModeDisabled       = errors.New("sign-in method disabled")
)

var validate = validator.New()

type Service struct {
	config   *config.Config
	users    storage.UsersStorage
	profiles storage.Storage
	now      func() time.Time
}

func NewService(cfg *config.Config, users storage.UsersStorage, profiles storage.Storage) *Service {
	return &Service{
		config:   cfg,
		users:    users,
		profiles: profiles,
		now:      time.Now,
	}
}

// Register creates a password account with its owner profile.
func (s *Service) Register(ctx context.Context, req CredentialsRequest) (*TokenResponse, error) {
	if s.config.AuthMode != config.AuthModePassword {
		return nil, ErrModeDisabled
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &storage.User{Email: req.Email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, user.ID.String(), req.Email)
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, req CredentialsRequest) (*TokenResponse, error) {
	if s.config.AuthMode != config.AuthModePassword {
		return nil, ErrModeDisabled
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user.ID.String(), req.Email)
}

// SignInDev issues a 30-day token for a fixed development user.
func (s *Service) SignInDev(ctx context.Context) (*TokenResponse, error) {
	if s.config.AuthMode != config.AuthModeDev {
		return nil, ErrModeDisabled
	}

	token, err := s.generateJWTWithTTL(devUserID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("generate dev token: %w", err)
	}
	profile, err := s.findOrCreateOwnerProfile(ctx, devUserID, "")
	if err != nil {
		return nil, fmt.Errorf("owner profile: %w", err)
	}

	return &TokenResponse{
		AccessToken:    token,
		TokenType:      "Bearer",
		ExpiresIn:      int64(devTTL.Seconds()),
		UserID:         devUserID,
		OwnerProfileID: &profile.ID,
	}, nil
}

func (s *Service) issue(ctx context.Context, userID, email string) (*TokenResponse, error) {
	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	token, err := s.generateJWTWithTTL(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	profile, err := s.findOrCreateOwnerProfile(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("owner profile: %w", err)
	}

	return &TokenResponse{
		AccessToken:    token,
		TokenType:      "Bearer",
		ExpiresIn:      int64(ttl.Seconds()),
		UserID:         userID,
		OwnerProfileID: &profile.ID,
	}, nil
}

func (s *Service) findOrCreateOwnerProfile(ctx context.Context, userID, email string) (*storage.Profile, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.Type == "owner" && p.OwnerUserID == userID {
			return &p, nil
		}
	}

	name := "Me"
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		name = local
	}
	profile := &storage.Profile{
		OwnerUserID: userID,
		Type:        "owner",
		Name:        name,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT returns the subject of a valid HS256 token from this issuer.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(s.config.JWTIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
