package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "0190b1c2-aaaa-7bbb-8ccc-000000000001"
	testActorID = "0190b1c2-aaaa-7bbb-8ccc-0000000000ad"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logger.Nop()
	repo := &userRepository{
		db:     newDB(db, l),
		logger: l,
		ids:    utils.NewUUIDGenerator(),
	}
	return repo, mock
}

func ptr[T any](v T) *T { return &v }

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role", "is_active",
		"created_at", "updated_at", "first_name", "last_name", "phone_number",
	})
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func callerCtx() context.Context {
	return utils.WithCaller(context.Background(), &models.Caller{UserID: testActorID, Role: models.RoleAdmin})
}

// ── CreateUser ───────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	// Arrange
	repo, mock := newTestUserRepo(t)
	now := time.Now()
	hash := "bcrypt-hash"
	user := models.User{
		ID:           testUserID,
		Username:     "newuser",
		Email:        "new@example.com",
		PasswordHash: &hash,
		Role:         models.RoleViewer,
		IsActive:     true,
		Profile:      &models.Profile{FirstName: ptr("New")},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(testUserID, "newuser", "new@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(testUserID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_audit_log").
		WithArgs(sqlmock.AnyArg(), testUserID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	created, err := repo.CreateUser(callerCtx(), user)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testUserID, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NotNil(t, created.Profile)
	assert.Equal(t, "New", *created.Profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_GeneratesID(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_audit_log").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), models.User{Username: "u", Email: "u@example.com", Role: models.RoleViewer})

	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username", constraintUsernameKey, ErrUsernameAlreadyExists},
		{"email", constraintEmailKey, ErrEmailAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO users").WillReturnError(uniqueViolation(tt.constraint))
			mock.ExpectRollback()

			_, err := repo.CreateUser(context.Background(), models.User{ID: testUserID, Username: "dup"})

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUser_AuditFailureRollsBack(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_audit_log").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), models.User{ID: testUserID})

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_BeginError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := repo.CreateUser(context.Background(), models.User{})

	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ── Find ─────────────────────────────────────────────────────────────────────

func TestFindUserByID_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN profiles p").
		WithArgs(testUserID).
		WillReturnRows(userRows().AddRow(testUserID, "alice", "alice@example.com", "hash", "editor", true, now, now, "Alice", nil, "123"))

	found, err := repo.FindUserByID(context.Background(), testUserID)

	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, models.RoleEditor, found.Role)
	require.NotNil(t, found.PasswordHash)
	assert.Equal(t, "hash", *found.PasswordHash)
	require.NotNil(t, found.Profile)
	assert.Equal(t, "Alice", *found.Profile.FirstName)
	assert.Nil(t, found.Profile.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByID_NullPassword(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT").
		WillReturnRows(userRows().AddRow(testUserID, "svc", "svc@example.com", nil, "viewer", true, now, now, nil, nil, nil))

	found, err := repo.FindUserByID(context.Background(), testUserID)

	require.NoError(t, err)
	assert.False(t, found.HasUsablePassword())
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), testUserID)

	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestFindUserByUsername_CaseSensitiveLookup(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`WHERE u.username = \$1`).
		WithArgs("Alice").
		WillReturnRows(userRows())

	_, err := repo.FindUserByUsername(context.Background(), "Alice")

	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByUsername_DBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("conn reset"))

	_, err := repo.FindUserByUsername(context.Background(), "alice")

	assert.ErrorIs(t, err, ErrScanningRow)
	assert.NotErrorIs(t, err, ErrNoUserWasFound)
}

// ── ListUsers ────────────────────────────────────────────────────────────────

func TestListUsers_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("ORDER BY u.created_at, u.id").
		WillReturnRows(userRows().
			AddRow("id-1", "a", "a@example.com", "h", "admin", true, now, now, nil, nil, nil).
			AddRow("id-2", "b", "b@example.com", "h", "viewer", false, now, now, nil, nil, nil))

	users, err := repo.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a", users[0].Username)
	assert.False(t, users[1].IsActive)
}

func TestListUsers_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT").WillReturnRows(userRows())

	users, err := repo.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_QueryError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

	_, err := repo.ListUsers(context.Background())

	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ── UpdateUser ───────────────────────────────────────────────────────────────

func TestUpdateUser_Success(t *testing.T) {
	// Arrange
	repo, mock := newTestUserRepo(t)
	now := time.Now()
	update := models.UserUpdate{
		ID:      testUserID,
		Email:   ptr("renamed@example.com"),
		Profile: &models.ProfileInput{LastName: ptr("Smith")},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET updated_at = NOW\\(\\), email = \\$1 WHERE id = \\$2").
		WithArgs("renamed@example.com", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO profiles (.+) ON CONFLICT").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_audit_log").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT").
		WithArgs(testUserID).
		WillReturnRows(userRows().AddRow(testUserID, "alice", "renamed@example.com", "h", "viewer", true, now, now, nil, "Smith", nil))

	// Act
	updated, err := repo.UpdateUser(callerCtx(), update)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", updated.Email)
	assert.Equal(t, "Smith", *updated.Profile.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateUser(context.Background(), models.UserUpdate{ID: testUserID, IsActive: ptr(false)})

	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_DuplicateUsername(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnError(uniqueViolation(constraintUsernameKey))
	mock.ExpectRollback()

	_, err := repo.UpdateUser(context.Background(), models.UserUpdate{ID: testUserID, Username: ptr("taken")})

	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestUpdateUser_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	_, err := repo.UpdateUser(context.Background(), models.UserUpdate{ID: testUserID})

	assert.ErrorIs(t, err, ErrNothingToUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── DeleteUser ───────────────────────────────────────────────────────────────

func TestDeleteUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
		WithArgs(testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_audit_log").
		WithArgs(sqlmock.AnyArg(), testUserID, ptr(testActorID), models.AuditActionDelete, "{}").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteUser(callerCtx(), testUserID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteUser(context.Background(), testUserID)

	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Exists ───────────────────────────────────────────────────────────────────

func TestExistsByUsername_ExcludesOwnID(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(1\) > 0 FROM users WHERE username = \$1 AND id <> \$2`).
		WithArgs("alice", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := repo.ExistsByUsername(context.Background(), "alice", testUserID)

	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByEmail_NoExclusion(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(1\) > 0 FROM users WHERE email = \$1$`).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.ExistsByEmail(context.Background(), "a@example.com", "")

	require.NoError(t, err)
	assert.True(t, found)
}

func TestExists_DBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

	_, err := repo.ExistsByEmail(context.Background(), "a@example.com", "")

	assert.ErrorIs(t, err, ErrExecutingQuery)
}
