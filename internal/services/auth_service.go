package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/auth"
	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingCredentials = errors.New("email and password required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	minPasswordLength = 8
	welcomeTimeout    = 15 * time.Second
	pgUniqueViolation = "23505"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// WelcomeMailer sends the post-registration greeting.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, name, email string) error
}

type AuthService struct {
	db         *gorm.DB
	issuer     *auth.Issuer
	bcryptCost int
	mailer     WelcomeMailer

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService builds the account service. mailer may be nil, in which
// case no welcome email is sent.
func NewAuthService(db *gorm.DB, issuer *auth.Issuer, bcryptCost int, mailer WelcomeMailer) *AuthService {
	return &AuthService{
		db:         db,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		mailer:     mailer,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user := models.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		PasswordHash:  string(hash),
		Organization:  optional(req.Organization),
		JobTitle:      optional(req.JobTitle),
		EmailVerified: true,
	}

	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := s.authResponse(&user)
	if err != nil {
		return nil, err
	}

	s.sendWelcome(user.Name, user.Email)
	return resp, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same bcrypt work as a wrong password so timing does not reveal
			// whether the account exists.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := db.Model(&user).Update("updated_at", time.Now().UTC()).Error; err != nil {
		return nil, fmt.Errorf("failed to touch user: %w", err)
	}

	return s.authResponse(&user)
}

// Me returns the caller's profile with their assessment count.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var count int64
	if err := db.Model(&models.AssessmentResult{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}

	return &dto.MeResponse{
		User: dto.MeUser{
			UserResponse:    publicUser(&user),
			CreatedAt:       user.CreatedAt,
			AssessmentCount: count,
		},
	}, nil
}

// IsAdmin implements auth.AdminLookup. A missing user is not an admin.
func (s *AuthService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "is_admin").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// dummy returns a hash at the configured cost that matches no password.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.issuer.CreateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{User: publicUser(user), Token: token}, nil
}

// sendWelcome runs in the background; the account already exists, so a
// delivery failure is only logged.
func (s *AuthService) sendWelcome(name, email string) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, name, email); err != nil {
			slog.Warn("welcome email failed", "email", email, "error", err)
		}
	}()
}

func publicUser(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Organization: u.Organization,
		JobTitle:     u.JobTitle,
		IsAdmin:      u.IsAdmin,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
