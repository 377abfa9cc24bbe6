package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Name  *string `json:"name" validate:"omitnil,max=255"`
	Phone *string `json:"phone" validate:"omitnil,max=20"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type MeResult struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Profile *models.Profile `json:"profile"`
}

// AuthService owns credentials, bearer tokens and profiles.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	issuer *utils.TokenIssuer
	logger echo.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, issuer *utils.TokenIssuer, logger echo.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer, logger: logger, now: time.Now}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareWithoutUser burns the same bcrypt cost as a real comparison so an
// unknown email is not distinguishable by response time.
func compareWithoutUser(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	fe := FieldErrors{}
	validateStruct(in, fe)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ValidationError("email", "The email has already been taken.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Failed to check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal("Failed to process password", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashedPassword),
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	profile := &models.Profile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ValidationError("email", "The email has already been taken.")
		}
		return nil, Internal("Failed to create user", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("registered user %s", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)

	fe := FieldErrors{}
	validateStruct(in, fe)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			compareWithoutUser(in.Password)
			return nil, InvalidCredentials()
		}
		return nil, Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, InvalidCredentials()
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	issued, err := s.issuer.Issue(userID)
	if err != nil {
		return "", Internal("Failed to generate token", err)
	}
	record := &models.Token{
		ID:        issued.ID,
		UserID:    userID,
		CreatedAt: issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", Internal("Failed to store token", err)
	}
	return issued.Token, nil
}

// Logout revokes the token the caller authenticated with; other sessions stay valid.
func (s *AuthService) Logout(ctx context.Context, caller models.Identity) error {
	if err := s.tokens.Delete(ctx, caller.TokenID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return Internal("Failed to revoke token", err)
	}
	return nil
}

// Authenticate resolves a raw bearer token into the caller's identity.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.Identity, error) {
	if rawToken == "" {
		return nil, Unauthorized("User not authenticated")
	}

	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}

	token, err := s.tokens.Find(ctx, claims.Id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("Token has been revoked")
		}
		return nil, Internal("Failed to load token", err)
	}

	now := s.now().UTC()
	if token.UserID != claims.UserID || token.Expired(now) {
		return nil, Unauthorized("Invalid or expired token")
	}

	profile, err := s.users.FindProfile(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("User no longer exists")
		}
		return nil, Internal("Failed to load profile", err)
	}

	if err := s.tokens.Touch(ctx, token.ID, now); err != nil {
		s.logger.Warnf("failed to record token use %s: %v", token.ID, err)
	}

	return &models.Identity{
		UserID:  profile.ID,
		Email:   profile.Email,
		Name:    profile.Name,
		Phone:   profile.Phone,
		Role:    profile.Role,
		TokenID: token.ID,
	}, nil
}

// RequireRole fails with Forbidden unless caller holds role.
func RequireRole(caller models.Identity, role models.Role) error {
	switch role {
	case models.RoleAdmin:
		if caller.Role != models.RoleAdmin {
			return Forbidden("Only admins can perform this action")
		}
	case models.RoleCustomer:
		if caller.Role != models.RoleCustomer {
			return Forbidden("Only customers can perform this action")
		}
	default:
		return Forbidden("Unknown role requirement")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, caller models.Identity) (*MeResult, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("User not authenticated")
		}
		return nil, Internal("Failed to load user", err)
	}
	profile, err := s.GetProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &MeResult{ID: user.ID, Email: user.Email, Name: user.Name, Profile: profile}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, caller models.Identity) (*models.Profile, error) {
	profile, err := s.users.FindProfile(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Profile", "Profile does not exist for this user")
		}
		return nil, Internal("Failed to load profile", err)
	}
	return profile, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller models.Identity, in ProfileInput) (*models.Profile, error) {
	fe := FieldErrors{}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
		if trimmed == "" {
			fe.Add("name", "The name field is required.")
		}
	}
	if in.Phone != nil {
		trimmed := strings.TrimSpace(*in.Phone)
		in.Phone = &trimmed
	}
	validateStruct(in, fe)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	profile, err := s.users.UpdateProfile(ctx, caller.UserID, models.ProfileUpdate{Name: in.Name, Phone: in.Phone})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Profile", "Profile does not exist for this user")
		}
		return nil, Internal("Failed to update profile", err)
	}
	return profile, nil
}

// Promote changes a profile's role. It is reachable only from operator tooling,
// never from the HTTP API.
func (s *AuthService) Promote(ctx context.Context, email string, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, ValidationError("role", "The selected role is invalid.")
	}
	profile, err := s.users.SetRole(ctx, normalizeEmail(email), role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Profile", "No profile with that email")
		}
		return nil, Internal("Failed to update role", err)
	}
	s.logger.Infof("profile %s role set to %s", profile.ID, role)
	return profile, nil
}
