package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy.
// Get methods return (nil, nil) when the row does not exist. Guarded updates
// return false when no row matched the guard.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Reference data
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id string, patch models.UpdateCategoryRequest) error
	SwapCategoryOrder(ctx context.Context, firstID, secondID string) error
	RenumberCategories(ctx context.Context, orderedIDs []string) error

	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *models.Equipment) error
	UpdateEquipment(ctx context.Context, id string, patch models.UpdateReferenceRequest) error

	ListLocations(ctx context.Context) ([]models.Location, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, id string, patch models.UpdateReferenceRequest) error

	// Journal entries
	ListEntries(ctx context.Context) ([]models.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
	ActivateEntry(ctx context.Context, id, authorID string) (bool, error)
	CancelEntry(ctx context.Context, id, authorID string, c Cancellation) (bool, error)

	// Shift handovers
	ListHandovers(ctx context.Context) ([]models.ShiftHandover, error)
	GetHandover(ctx context.Context, id string) (*models.ShiftHandover, error)
	CreateHandover(ctx context.Context, handover *models.ShiftHandover) error
	AcceptHandover(ctx context.Context, id string, incoming models.Identity, notes string, at time.Time) (bool, error)
	CompleteHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error)
	CancelHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error)
}

// Cancellation carries the audit fields written when an entry is cancelled
type Cancellation struct {
	Reason      string
	CancelledBy string
	At          time.Time
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// translate maps driver errors that carry domain meaning onto apperr kinds
// and passes everything else through.
func translate(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperr.Conflict("%s already exists", what)
	}
	return err
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.IsAdmin, user.CreatedAt, user.UpdatedAt)

	return translate(err, "user with this email")
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}
