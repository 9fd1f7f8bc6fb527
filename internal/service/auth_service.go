package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/config"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
)

// AuthService owns accounts, session tokens and profile provisioning.
type AuthService struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	realtime *RealtimeService
	cfg      *config.Config
	log      *logger.Logger
}

func NewAuthService(
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	realtime *RealtimeService,
	cfg *config.Config,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		profiles: profiles,
		realtime: realtime,
		cfg:      cfg,
		log:      log,
	}
}

// SignUp registers an account and provisions its profile. Safe to retry: a
// repeat call with the same credentials completes any interrupted
// provisioning and returns the existing profile instead of erroring.
func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	nickname := strings.TrimSpace(req.Nickname)

	if err := s.validateCredentials(email, req.Password); err != nil {
		return nil, err
	}
	if nickname == "" {
		return nil, apperrors.NewValidationError("nickname is required", nil)
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to look up account", err)
	}

	if existing != nil {
		// Retry path: same credentials mean an interrupted sign-up, anything
		// else is a duplicate email.
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(req.Password)) != nil {
			return nil, apperrors.NewConflictError("email is already registered")
		}
		return s.finishSignIn(ctx, existing, nickname)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError("email is already registered")
		}
		return nil, apperrors.NewExternalError("failed to create account", err)
	}

	return s.finishSignIn(ctx, account, nickname)
}

// SignIn authenticates and, as a repair step, provisions a profile if an
// earlier sign-up never finished creating one.
func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to look up account", err)
	}
	if account == nil {
		return nil, apperrors.NewAuthenticationError("invalid email or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.NewAuthenticationError("invalid email or password")
	}

	return s.finishSignIn(ctx, account, "")
}

// finishSignIn provisions the profile when missing and issues a session token.
func (s *AuthService) finishSignIn(ctx context.Context, account *domain.Account, nickname string) (*domain.AuthResponse, error) {
	profile, err := s.provisionProfile(ctx, account, nickname)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(profile)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{Token: token, Profile: profile}, nil
}

// provisionProfile is idempotent: an existing profile is returned untouched.
func (s *AuthService) provisionProfile(ctx context.Context, account *domain.Account, nickname string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to look up profile", err)
	}
	if profile != nil {
		return profile, nil
	}

	if nickname == "" {
		// Interrupted sign-up repaired during sign-in: the chosen nickname is
		// gone, fall back to the email local part like the web client did.
		nickname = strings.SplitN(account.Email, "@", 2)[0]
	}

	profile = &domain.Profile{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Email:       account.Email,
		Nickname:    nickname,
		Affiliation: s.cfg.Community,
		IsAdmin:     account.Email == strings.ToLower(s.cfg.AdminEmail),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if isUniqueViolation(err) {
			// Either a concurrent provisioning won, or the nickname is taken.
			if winner, lookupErr := s.profiles.GetByAccountID(ctx, account.ID); lookupErr == nil && winner != nil {
				return winner, nil
			}
			return nil, apperrors.NewConflictError("nickname is already taken")
		}
		return nil, apperrors.NewExternalError("failed to create profile", err)
	}

	s.log.WithFields(map[string]interface{}{
		"profile_id":  profile.ID,
		"affiliation": profile.Affiliation,
	}).Info("Profile provisioned")
	s.realtime.Publish(ctx, TableProfiles)

	return profile, nil
}

func (s *AuthService) validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("a valid email is required", nil)
	}
	if len(password) < s.cfg.MinPasswordLen {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.cfg.MinPasswordLen), nil)
	}
	return nil
}

// IssueToken signs a session token for the given profile.
func (s *AuthService) IssueToken(profile *domain.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   profile.AccountID,
		"pid":   profile.ID,
		"email": profile.Email,
		"adm":   profile.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign session token", err)
	}

	return signed, nil
}

// ValidateToken parses a session token and returns the caller's identity.
func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.NewAuthenticationError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.NewAuthenticationError("invalid token claims")
	}

	identity := &domain.Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.AccountID = sub
	}
	if pid, ok := claims["pid"].(string); ok {
		identity.ProfileID = pid
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if adm, ok := claims["adm"].(bool); ok {
		identity.IsAdmin = adm
	}

	if identity.AccountID == "" || identity.ProfileID == "" {
		return nil, apperrors.NewAuthenticationError("invalid token claims")
	}

	return identity, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
