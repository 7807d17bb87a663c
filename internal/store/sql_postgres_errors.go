package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells whether a failed database call is transient.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations, syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks connection loss, serialization failures and deadlocks.
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// retryableCodes lists the PostgreSQL error codes considered transient.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
var retryableCodes = map[string]struct{}{
	// Class 08: connection exceptions
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	// Class 40: transaction rollback
	pgerrcode.TransactionRollback:  {},
	pgerrcode.SerializationFailure: {},
	pgerrcode.DeadlockDetected:     {},
	// Class 57: operator intervention
	pgerrcode.CannotConnectNow: {},
}

// PostgresErrorClassifier implements [ErrorClassificator] for errors
// surfaced by the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify returns Retryable only for a *pgconn.PgError whose code is in
// retryableCodes.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}

	if _, ok := retryableCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}

// Names of the unique constraints declared in the users migration.
const (
	constraintUsernameKey = "users_username_key"
	constraintEmailKey    = "users_email_key"
)

// mapWriteError translates a failed write on the users table into a domain
// error. Unique violations on a known constraint become the matching
// sentinel; everything else is wrapped with ErrExecutingStatement.
func mapWriteError(err error) error {
	if postgresError(err) == pgerrcode.UniqueViolation {
		switch postgresConstraint(err) {
		case constraintUsernameKey:
			return ErrUsernameAlreadyExists
		case constraintEmailKey:
			return ErrEmailAlreadyExists
		}
	}

	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}
