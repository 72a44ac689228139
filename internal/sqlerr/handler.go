package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/jersey-rota/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
)

var (
	uniqueConstraintRe  = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	foreignConstraintRe = regexp.MustCompile(`_([a-z0-9]+_id)_fkey$`)
)

// ErrCode reports the Code of the first database error in err's chain,
// converting raw driver errors on the way, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error
	switch {
	case errors.As(err, &sqlErr):
		return sqlErr.Code
	case errors.As(err, &pgErr):
		return MapCode(pgErr.Code)
	case errors.As(err, &liteErr):
		return ConvertSQLiteError(liteErr, "", "").Code
	default:
		return Other
	}
}

// ConvertPgError converts a raw PostgreSQL error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Annotate attaches table and column context to a SQLite driver error so it
// maps as precisely as a PostgreSQL one. Other errors are returned as is.
func Annotate(err error, tableName, columnName string) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr, tableName, columnName)
	}
	return err
}

// generateErrorCode creates "<DOMAIN>_<ACTION>" codes such as
// PLAYER_NOT_FOUND or PLAYER_ALREADY_EXISTS.
//
// Foreign key violations are reported against the referenced entity.
func generateErrorCode(sqlErr *Error) string {
	domain := singular(sqlErr.TableName)
	if sqlErr.Code == ForeignKeyViolation && strings.HasSuffix(sqlErr.ColumnName, "_id") {
		domain = strings.TrimSuffix(sqlErr.ColumnName, "_id")
	}
	if domain == "" {
		domain = "record"
	}

	action := "ERROR"
	switch sqlErr.Code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", strings.ToUpper(domain), action)
}

// formatUserFriendlyMessage produces an end-user-facing message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// singular strips a plural suffix: players -> player, jersey_washes -> jersey_wash.
func singular(name string) string {
	lower := strings.ToLower(name)
	for _, suffix := range []string{"shes", "ches", "sses", "xes"} {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-2]
		}
	}
	if strings.HasSuffix(lower, "s") && len(name) > 1 {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from "unique_<table>_<column>"
// or "<table>_<column>_key" constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueConstraintRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// extractColumnForForeignKey infers the column from PostgreSQL's default
// "<table>_<column>_fkey" constraint names.
func extractColumnForForeignKey(constraintName string) string {
	if matches := foreignConstraintRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// HandleError converts a low-level database error into an application error.
//
//   - *errs.HTTPError: returned unchanged
//   - PostgreSQL or annotated SQLite constraint errors: 400 with a generated code
//   - ErrNoRows: 404
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var sqlErr *Error
	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error
	switch {
	case errors.As(err, &sqlErr):
	case errors.As(err, &pgErr):
		sqlErr = ConvertPgError(pgErr)
	case errors.As(err, &liteErr):
		sqlErr = ConvertSQLiteError(liteErr, "", "")
	}

	if sqlErr != nil {
		if sqlErr.Code == ForeignKeyViolation && sqlErr.ColumnName == "" {
			sqlErr.ColumnName = extractColumnForForeignKey(sqlErr.ConstraintName)
		}

		errorCode := generateErrorCode(sqlErr)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
