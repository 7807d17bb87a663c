package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It owns the "users", "profiles" and "user_audit_log" tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
	ids    *utils.UUIDGenerator
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
		ids:    utils.NewUUIDGenerator(),
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user    models.User
		profile models.Profile
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&profile.FirstName,
		&profile.LastName,
		&profile.PhoneNumber,
	)
	if err != nil {
		return models.User{}, err
	}

	profile.UserID = user.ID
	user.Profile = &profile
	return user, nil
}

// CreateUser inserts user together with its profile row and a "create"
// audit entry in one transaction. A missing ID is generated (UUIDv7).
//
// Error handling:
//   - unique violation on username / email → [ErrUsernameAlreadyExists] /
//     [ErrEmailAlreadyExists].
//   - any other failure → wrapped low-level error; nothing is persisted.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*userRepository.CreateUser").Logger()

	if user.ID == "" {
		user.ID = r.ids.Generate()
	}

	profile := models.ProfileInput{}
	if user.Profile != nil {
		profile = models.ProfileInput{
			FirstName:   user.Profile.FirstName,
			LastName:    user.Profile.LastName,
			PhoneNumber: user.Profile.PhoneNumber,
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildInsertUserQuery(user)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Msg("error inserting user")
		return models.User{}, mapWriteError(err)
	}

	query, args, err = buildInsertProfileQuery(user.ID, profile)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Msg("error inserting profile")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = r.writeAudit(ctx, tx, user.ID, models.AuditActionCreate, createdChanges(user, profile)); err != nil {
		log.Err(err).Msg("error writing audit entry")
		return models.User{}, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	user.Profile = &models.Profile{
		UserID:      user.ID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhoneNumber: profile.PhoneNumber,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	log.Debug().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

// FindUserByID returns the user with the given id and its profile, or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	query, args, err := buildFindUserByIDQuery(id)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.findOne(ctx, "*userRepository.FindUserByID", query, args)
}

// FindUserByUsername returns the user with exactly this username (case
// sensitive), or [ErrNoUserWasFound].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	query, args, err := buildFindUserByUsernameQuery(username)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.findOne(ctx, "*userRepository.FindUserByUsername", query, args)
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, args []any) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error querying user")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// ListUsers returns every user ordered by creation time.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUsersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Bool("retryable", r.db.retryable(err)).Msg("error querying users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error scanning user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error iterating user rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// UpdateUser applies the non-nil fields of update, upserts the profile when
// given and records an "update" audit entry, all in one transaction. The
// stored user is returned after commit.
func (r *userRepository) UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*userRepository.UpdateUser").Logger()

	if update.IsEmpty() {
		return models.User{}, ErrNothingToUpdate
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildUpdateUserQuery(update)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Msg("error updating user")
		return models.User{}, mapWriteError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.User{}, ErrNoUserWasFound
	}

	if update.Profile != nil {
		query, args, err = buildUpsertProfileQuery(update.ID, *update.Profile)
		if err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Bool("retryable", r.db.retryable(err)).Msg("error upserting profile")
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = r.writeAudit(ctx, tx, update.ID, models.AuditActionUpdate, update.Changes()); err != nil {
		log.Err(err).Msg("error writing audit entry")
		return models.User{}, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return r.FindUserByID(ctx, update.ID)
}

// DeleteUser removes the user (the profile goes with it through the foreign
// key cascade) and records a "delete" audit entry.
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).With().Str("func", "*userRepository.DeleteUser").Logger()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildDeleteUserQuery(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Msg("error deleting user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoUserWasFound
	}

	if err = r.writeAudit(ctx, tx, id, models.AuditActionDelete, map[string]any{}); err != nil {
		log.Err(err).Msg("error writing audit entry")
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *userRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildExistsQuery(column, value, excludeID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found bool
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		log.Err(err).Str("func", "*userRepository.exists").Str("column", column).Msg("error checking uniqueness")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// writeAudit inserts an audit entry inside tx. The actor is the caller
// carried by ctx; system actions (bootstrap) have none.
func (r *userRepository) writeAudit(ctx context.Context, tx *sql.Tx, userID string, action models.AuditAction, changes map[string]any) error {
	entry := models.UserAuditEntry{
		ID:      r.ids.Generate(),
		UserID:  userID,
		Action:  action,
		Changes: changes,
	}
	if caller, ok := utils.GetCallerFromContext(ctx); ok {
		entry.ActorID = &caller.UserID
	}

	payload, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingAuditChanges, err)
	}

	query, args, err := buildInsertAuditQuery(entry, string(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func createdChanges(user models.User, profile models.ProfileInput) map[string]any {
	return models.UserUpdate{
		Username: &user.Username,
		Email:    &user.Email,
		Role:     &user.Role,
		IsActive: &user.IsActive,
		Profile:  &profile,
	}.Changes()
}
