package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	Approve(ctx context.Context, userID int64) error
	ListPending(ctx context.Context) ([]*models.User, error)
	CountAlumni(ctx context.Context, approved bool) (int64, error)
	SearchDirectory(ctx context.Context, query DirectoryQuery) ([]*models.User, int64, error)
	DistinctGraduationYears(ctx context.Context) ([]int, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

// DirectoryQuery filters the alumni directory. Zero values disable a filter.
type DirectoryQuery struct {
	Search     string
	Year       int
	Department string
	Offset     uint64
	Limit      uint64
}

var userColumns = []string{
	"id", "email", "password_hash", "role", "is_approved", "first_name", "last_name",
	"graduation_year", "degree", "department", "company", "position", "phone", "linkedin", "bio",
	"created_at", "updated_at", "last_login_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{
		db: database,
		sb: database.Builder(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		gradYear  sql.NullInt64
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Role, &u.IsApproved, &u.FirstName, &u.LastName,
		&gradYear, &u.Degree, &u.Department, &u.Company, &u.Position, &u.Phone, &u.LinkedIn, &u.Bio,
		&u.CreatedAt, &u.UpdatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	u.GraduationYear = helpers.IntPtr(gradYear)
	u.LastLoginAt = helpers.TimePtr(lastLogin)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

// Create inserts a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	now := db.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query, args, err := r.sb.Insert("users").
		Columns("email", "password_hash", "role", "is_approved", "first_name", "last_name",
			"graduation_year", "degree", "department", "company", "position", "phone", "linkedin", "bio",
			"created_at", "updated_at").
		Values(user.Email, user.Password, string(user.Role), user.IsApproved, user.FirstName, user.LastName,
			helpers.GetNullInt(user.GraduationYear), user.Degree, user.Department, user.Company,
			user.Position, user.Phone, user.LinkedIn, user.Bio, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err, "users.email") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	return id, nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile stores the editable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = db.Now()
	query, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"company":    user.Company,
			"position":   user.Position,
			"phone":      user.Phone,
			"linkedin":   user.LinkedIn,
			"bio":        user.Bio,
			"updated_at": user.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	return r.execAffectingOne(ctx, query, args, user.ID, "update profile")
}

// UpdateLastLogin records the time of a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	query, args, err := r.sb.Update("users").
		Set("last_login_at", at.UTC()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login")
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

// Approve marks a user as approved
func (r *UserRepository) Approve(ctx context.Context, userID int64) error {
	query, args, err := r.sb.Update("users").
		Set("is_approved", true).
		Set("updated_at", db.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build approve user query: %w", err)
	}
	return r.execAffectingOne(ctx, query, args, userID, "approve user")
}

func (r *UserRepository) execAffectingOne(ctx context.Context, query string, args []interface{}, userID int64, op string) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msgf("Error executing %s query", op)
		return fmt.Errorf("error executing %s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListPending returns alumni awaiting approval, newest first
func (r *UserRepository) ListPending(ctx context.Context) ([]*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleAlumni), "is_approved": false}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list pending users query: %w", err)
	}
	return r.queryUsers(ctx, query, args)
}

// CountAlumni counts alumni with the given approval state
func (r *UserRepository) CountAlumni(ctx context.Context, approved bool) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleAlumni), "is_approved": approved}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count alumni query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Bool("approved", approved).Msg("Error counting alumni")
		return 0, fmt.Errorf("error counting alumni: %w", err)
	}
	return count, nil
}

func directoryFilter(q DirectoryQuery) squirrel.And {
	where := squirrel.And{squirrel.Eq{"role": string(models.RoleAlumni), "is_approved": true}}
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		where = append(where, squirrel.Or{
			squirrel.Expr("LOWER(first_name) LIKE ?", pattern),
			squirrel.Expr("LOWER(last_name) LIKE ?", pattern),
			squirrel.Expr("LOWER(company) LIKE ?", pattern),
		})
	}
	if q.Year > 0 {
		where = append(where, squirrel.Eq{"graduation_year": q.Year})
	}
	if q.Department != "" {
		where = append(where, squirrel.Eq{"department": q.Department})
	}
	return where
}

// SearchDirectory returns one page of approved alumni matching the query and the total match count
func (r *UserRepository) SearchDirectory(ctx context.Context, q DirectoryQuery) ([]*models.User, int64, error) {
	where := directoryFilter(q)

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build directory count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting directory entries")
		return nil, 0, fmt.Errorf("error counting directory: %w", err)
	}

	builder := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("last_name ASC", "first_name ASC", "id ASC")
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit).Offset(q.Offset)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build directory query: %w", err)
	}

	users, err := r.queryUsers(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DistinctGraduationYears lists graduation years of approved alumni, newest first
func (r *UserRepository) DistinctGraduationYears(ctx context.Context) ([]int, error) {
	query, args, err := r.sb.Select("DISTINCT graduation_year").
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleAlumni), "is_approved": true}).
		Where(squirrel.NotEq{"graduation_year": nil}).
		OrderBy("graduation_year DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build graduation years query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying graduation years")
		return nil, fmt.Errorf("error querying graduation years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("error scanning graduation year: %w", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// DistinctDepartments lists non-empty departments of approved alumni alphabetically
func (r *UserRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	query, args, err := r.sb.Select("DISTINCT department").
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleAlumni), "is_approved": true}).
		Where(squirrel.NotEq{"department": ""}).
		OrderBy("department ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build departments query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying departments")
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []string{}
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args []interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing user list query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
