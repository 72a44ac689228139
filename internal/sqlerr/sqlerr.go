// Package sqlerr specifically handles database driver errors.
//
// It parses error codes from the PostgreSQL and SQLite drivers and
// converts them into user-friendly messages (e.g., converting
// a "foreign key violation" into a "Bad Request" error).
package sqlerr

import (
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Code is a driver independent classification of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ConnectionFailure   Code = "connection_failure"
	Busy                Code = "busy"
)

// Severity mirrors the PostgreSQL severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// pgCodes maps SQLSTATE codes onto Code.
var pgCodes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"08000": ConnectionFailure,
	"08003": ConnectionFailure,
	"08006": ConnectionFailure,
	"08001": ConnectionFailure,
	"08004": ConnectionFailure,
}

// MapCode maps a PostgreSQL SQLSTATE code.
func MapCode(code string) Code {
	if c, ok := pgCodes[code]; ok {
		return c
	}
	return Other
}

// MapSeverity maps a PostgreSQL severity string.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// MapSQLiteCode maps an extended SQLite result code.
func MapSQLiteCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return Busy
	case sqlite3.SQLITE_CANTOPEN:
		return ConnectionFailure
	default:
		return Other
	}
}

// ConvertSQLiteError converts a modernc SQLite error. SQLite does not report
// the table or column involved, so callers that know them should pass them.
func ConvertSQLiteError(src *sqlite.Error, tableName, columnName string) *Error {
	code := MapSQLiteCode(src.Code())
	if code == Other && src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		code = constraintFromMessage(src.Error())
	}

	return &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      src.Error(),
		TableName:    tableName,
		ColumnName:   columnName,
		driverErr:    src,
	}
}

// constraintFromMessage classifies a constraint failure reported with only
// the primary SQLITE_CONSTRAINT code.
func constraintFromMessage(msg string) Code {
	switch msg = strings.ToUpper(msg); {
	case strings.Contains(msg, "FOREIGN KEY"):
		return ForeignKeyViolation
	case strings.Contains(msg, "UNIQUE"):
		return UniqueViolation
	case strings.Contains(msg, "NOT NULL"):
		return NotNullViolation
	case strings.Contains(msg, "CHECK"):
		return CheckViolation
	default:
		return Other
	}
}
