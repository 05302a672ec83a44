package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/config"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/report"
	"github.com/rongwang/shiftlog-server/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, caller models.Identity) (*models.Identity, error)

	// Reference data
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	GetCategoryByCode(ctx context.Context, code string) (*models.Category, error)
	CreateCategory(ctx context.Context, caller models.Identity, req models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, caller models.Identity, id string, req models.UpdateCategoryRequest) (*models.Category, error)
	MoveCategory(ctx context.Context, caller models.Identity, id string, direction Direction) ([]models.Category, error)

	ListEquipment(ctx context.Context, activeOnly bool) ([]models.Equipment, error)
	CreateEquipment(ctx context.Context, caller models.Identity, req models.ReferenceRequest) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, caller models.Identity, id string, req models.UpdateReferenceRequest) (*models.Equipment, error)

	ListLocations(ctx context.Context, activeOnly bool) ([]models.Location, error)
	CreateLocation(ctx context.Context, caller models.Identity, req models.ReferenceRequest) (*models.Location, error)
	UpdateLocation(ctx context.Context, caller models.Identity, id string, req models.UpdateReferenceRequest) (*models.Location, error)

	// Journal entries
	ListEntries(ctx context.Context, f filter.EntryFilter) ([]models.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	CreateEntry(ctx context.Context, caller models.Identity, req models.CreateEntryRequest) (*models.JournalEntry, error)
	ActivateEntry(ctx context.Context, caller models.Identity, id string) (*models.JournalEntry, error)
	CancelEntry(ctx context.Context, caller models.Identity, id string, req models.CancelEntryRequest) (*models.JournalEntry, error)

	// Shift handovers
	ListHandovers(ctx context.Context, f filter.HandoverFilter) ([]models.ShiftHandover, error)
	GetHandover(ctx context.Context, id string) (*models.ShiftHandover, error)
	CreateHandover(ctx context.Context, caller models.Identity, req models.CreateHandoverRequest) (*models.ShiftHandover, error)
	AcceptHandover(ctx context.Context, caller models.Identity, id string, req models.AcceptHandoverRequest) (*models.ShiftHandover, error)
	CompleteHandover(ctx context.Context, caller models.Identity, id string) (*models.ShiftHandover, error)
	CancelHandover(ctx context.Context, caller models.Identity, id string) (*models.ShiftHandover, error)

	// Reports
	ExportEntries(ctx context.Context, caller models.Identity, f filter.EntryFilter, format report.Format, opts report.Options) (*report.Artifact, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	logger        *zap.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
	adminEmails   map[string]bool
	now           func() time.Time
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, auth config.AuthConfig, logger *zap.Logger) *DefaultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	admins := make(map[string]bool, len(auth.AdminEmails))
	for _, email := range auth.AdminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = true
		}
	}
	return &DefaultService{
		repo:          repo,
		logger:        logger.Named("service"),
		jwtSecret:     []byte(auth.JWTSecret),
		tokenDuration: ttl,
		adminEmails:   admins,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the clock used for transition timestamps.
func (s *DefaultService) SetClock(now func() time.Time) {
	s.now = now
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.storeErr(err, "error checking user existence")
	}

	if existingUser != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hashedPassword),
		IsAdmin:  s.isAdminEmail(req.Email),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, s.storeErr(err, "error creating user")
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.Bool("admin", user.IsAdmin))

	return &models.AuthResponse{
		Status:  "success",
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.storeErr(err, "error getting user")
	}

	if user == nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	user.IsAdmin = user.IsAdmin || s.isAdminEmail(user.Email)

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Me returns the stored identity of the caller.
func (s *DefaultService) Me(ctx context.Context, caller models.Identity) (*models.Identity, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, caller.ID)
	if err != nil {
		return nil, s.storeErr(err, "error getting user")
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", caller.ID)
	}
	return &models.Identity{
		ID:          user.ID,
		DisplayName: user.Name,
		IsAdmin:     user.IsAdmin || s.isAdminEmail(user.Email),
	}, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	now := s.now()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"adm":  user.IsAdmin,
		"exp":  now.Add(s.tokenDuration).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *DefaultService) isAdminEmail(email string) bool {
	return s.adminEmails[strings.ToLower(strings.TrimSpace(email))]
}

// storeErr passes classified repository errors through and wraps everything
// else as a transport failure.
func (s *DefaultService) storeErr(err error, op string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.Transport(err, op)
}

func requireCaller(caller models.Identity) error {
	if caller.ID == "" {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

func requireAdmin(caller models.Identity) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !caller.IsAdmin {
		return apperr.Authorization("reference data can only be changed by an administrator")
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
