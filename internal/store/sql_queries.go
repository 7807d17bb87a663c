package store

import (
	"github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-user-keeper/models"
)

const (
	usersTable    = "users"
	profilesTable = "profiles"
	auditTable    = "user_audit_log"
)

// psql builds queries with PostgreSQL ($1, $2, ...) placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// userColumns is the scan order expected by scanUser.
var userColumns = []string{
	"u.id",
	"u.username",
	"u.email",
	"u.password_hash",
	"u.role",
	"u.is_active",
	"u.created_at",
	"u.updated_at",
	"p.first_name",
	"p.last_name",
	"p.phone_number",
}

func selectUsers() squirrel.SelectBuilder {
	return psql.Select(userColumns...).
		From(usersTable + " u").
		LeftJoin(profilesTable + " p ON p.user_id = u.id")
}

func buildFindUserByIDQuery(id string) (string, []any, error) {
	return selectUsers().Where(squirrel.Eq{"u.id": id}).ToSql()
}

func buildFindUserByUsernameQuery(username string) (string, []any, error) {
	return selectUsers().Where(squirrel.Eq{"u.username": username}).ToSql()
}

func buildListUsersQuery() (string, []any, error) {
	return selectUsers().OrderBy("u.created_at", "u.id").ToSql()
}

func buildInsertUserQuery(user models.User) (string, []any, error) {
	return psql.Insert(usersTable).
		Columns("id", "username", "email", "password_hash", "role", "is_active").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
}

func buildInsertProfileQuery(userID string, profile models.ProfileInput) (string, []any, error) {
	return psql.Insert(profilesTable).
		Columns("user_id", "first_name", "last_name", "phone_number").
		Values(userID, profile.FirstName, profile.LastName, profile.PhoneNumber).
		ToSql()
}

// buildUpsertProfileQuery writes only the non-nil profile fields, creating
// the row if it is missing.
func buildUpsertProfileQuery(userID string, profile models.ProfileInput) (string, []any, error) {
	return psql.Insert(profilesTable).
		Columns("user_id", "first_name", "last_name", "phone_number").
		Values(userID, profile.FirstName, profile.LastName, profile.PhoneNumber).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			first_name = COALESCE(EXCLUDED.first_name, profiles.first_name),
			last_name = COALESCE(EXCLUDED.last_name, profiles.last_name),
			phone_number = COALESCE(EXCLUDED.phone_number, profiles.phone_number),
			updated_at = NOW()`).
		ToSql()
}

// buildUpdateUserQuery sets the non-nil fields of update and always bumps
// updated_at, so a profile-only update still touches the user row.
func buildUpdateUserQuery(update models.UserUpdate) (string, []any, error) {
	q := psql.Update(usersTable).Set("updated_at", squirrel.Expr("NOW()"))

	if update.Username != nil {
		q = q.Set("username", *update.Username)
	}
	if update.Email != nil {
		q = q.Set("email", *update.Email)
	}
	if update.Role != nil {
		q = q.Set("role", *update.Role)
	}
	if update.IsActive != nil {
		q = q.Set("is_active", *update.IsActive)
	}
	if update.PasswordHash != nil {
		q = q.Set("password_hash", *update.PasswordHash)
	}

	return q.Where(squirrel.Eq{"id": update.ID}).ToSql()
}

func buildDeleteUserQuery(id string) (string, []any, error) {
	return psql.Delete(usersTable).Where(squirrel.Eq{"id": id}).ToSql()
}

func buildInsertAuditQuery(entry models.UserAuditEntry, changes string) (string, []any, error) {
	return psql.Insert(auditTable).
		Columns("id", "user_id", "actor_id", "action", "changes").
		Values(entry.ID, entry.UserID, entry.ActorID, entry.Action, changes).
		ToSql()
}

// buildExistsQuery checks whether column = value for any user other than
// excludeID.
func buildExistsQuery(column, value, excludeID string) (string, []any, error) {
	q := psql.Select("COUNT(1) > 0").
		From(usersTable).
		Where(squirrel.Eq{column: value})

	if excludeID != "" {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}

	return q.ToSql()
}
