package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
)

// fetchQuery runs one storage operation and normalizes the outcome: nil on
// success, a *types.QueryError carrying the given user-facing message and a
// redacted detail on failure. The full engine error is only logged here.
func fetchQuery(message string, op func() *gorm.DB) error {
	tx := op()
	if tx.Error != nil {
		log.Printf("query failed: %v", tx.Error)
		return &types.QueryError{
			Status:  400,
			Message: message,
			Details: redactError(tx.Error),
		}
	}
	return nil
}

// fetchQueryFirst is the single-row variant: an empty result set becomes
// types.ErrNoRows rather than a failure, so callers can map it to a typed
// not-found outcome.
func fetchQueryFirst(message string, op func() *gorm.DB) error {
	tx := op()
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return types.ErrNoRows
		}
		log.Printf("query failed: %v", tx.Error)
		return &types.QueryError{
			Status:  400,
			Message: message,
			Details: redactError(tx.Error),
		}
	}
	return nil
}

// redactError reduces an engine error to a short technical summary safe to
// return to clients. Raw driver errors can echo SQL text and parameter
// values, so only the leading classification survives.
func redactError(err error) string {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return fmt.Sprintf("engine error %d (%s)", mysqlErr.Number, string(mysqlErr.SQLState[:]))
	}

	msg := err.Error()
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}
	// Cut echoed statement text if the driver included any.
	upper := strings.ToUpper(msg)
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE "} {
		if i := strings.Index(upper, kw); i > 0 {
			msg = strings.TrimRight(msg[:i], " :-")
			upper = upper[:i]
		}
	}
	if len(msg) > 120 {
		msg = msg[:120]
	}
	return msg
}

// duplicateKeyColumn reports which unique column a uniqueness violation hit
// ("username", "email" or "unique" when indeterminate), or "" if the error
// is not a uniqueness violation at all. Detection is per-driver: MySQL error
// 1062, the SQLite and Postgres constraint message texts, and GORM's own
// translated sentinel.
func duplicateKeyColumn(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	isDup := errors.Is(err, gorm.ErrDuplicatedKey)

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		isDup = isDup || mysqlErr.Number == 1062
		msg = mysqlErr.Message
	}
	if !isDup {
		isDup = strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "Duplicate entry") ||
			strings.Contains(msg, "duplicate key value")
	}
	if !isDup {
		return ""
	}

	switch {
	case strings.Contains(msg, "username"):
		return "username"
	case strings.Contains(msg, "email"):
		return "email"
	}
	return "unique"
}
