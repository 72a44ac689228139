package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/jersey-rota/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestHandleErrorPostgresConstraints(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name: "foreign key",
			pgErr: &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23503",
				TableName:      "jersey_washes",
				ConstraintName: "jersey_washes_player_id_fkey",
			},
			status:  http.StatusBadRequest,
			code:    "PLAYER_NOT_FOUND",
			message: "The referenced Player does not exist",
		},
		{
			name: "unique",
			pgErr: &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23505",
				TableName:      "players",
				ConstraintName: "players_nickname_key",
			},
			status:  http.StatusBadRequest,
			code:    "PLAYER_ALREADY_EXISTS",
			message: "A Player with this Nickname already exists",
		},
		{
			name: "not null",
			pgErr: &pgconn.PgError{
				Severity:   "ERROR",
				Code:       "23502",
				TableName:  "players",
				ColumnName: "name",
			},
			status:  http.StatusBadRequest,
			code:    "PLAYER_REQUIRED",
			message: "The Name is required",
		},
		{
			name:    "unmapped",
			pgErr:   &pgconn.PgError{Severity: "FATAL", Code: "57P01"},
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("insert: %w", tt.pgErr))

			var httpErr *errs.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *errs.HTTPError, got %T", err)
			}
			if httpErr.Status != tt.status {
				t.Errorf("status = %d, want %d", httpErr.Status, tt.status)
			}
			if httpErr.Code != tt.code {
				t.Errorf("code = %q, want %q", httpErr.Code, tt.code)
			}
			if httpErr.Message != tt.message {
				t.Errorf("message = %q, want %q", httpErr.Message, tt.message)
			}
		})
	}
}

func TestHandleErrorNoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("get player: %w", pgx.ErrNoRows))

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	orig := errs.NewNotFoundError("Player not found", true, nil)
	if got := HandleError(orig); got != orig {
		t.Fatalf("HTTPError was rewrapped: %v", got)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	var httpErr *errs.HTTPError
	if !errors.As(HandleError(errors.New("boom")), &httpErr) || httpErr.Status != http.StatusInternalServerError {
		t.Fatal("unknown errors must map to 500")
	}
}

func TestErrCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ConvertPgError(&pgconn.PgError{Code: "23503"}))
	if got := ErrCode(err); got != ForeignKeyViolation {
		t.Fatalf("ErrCode = %q, want %q", got, ForeignKeyViolation)
	}
	raw := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if got := ErrCode(raw); got != UniqueViolation {
		t.Fatalf("ErrCode(raw) = %q, want %q", got, UniqueViolation)
	}
	if got := ErrCode(errors.New("plain")); got != Other {
		t.Fatalf("ErrCode = %q, want %q", got, Other)
	}
}

func TestSingular(t *testing.T) {
	tests := map[string]string{
		"players":       "player",
		"jersey_washes": "jersey_wash",
		"boxes":         "box",
		"team":          "team",
	}
	for in, want := range tests {
		if got := singular(in); got != want {
			t.Errorf("singular(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapSeverity(t *testing.T) {
	if got := MapSeverity("fatal"); got != SeverityFatal {
		t.Fatalf("got %q", got)
	}
	if got := MapSeverity("weird"); got != SeverityError {
		t.Fatalf("got %q", got)
	}
}

func TestConstraintFromMessage(t *testing.T) {
	tests := map[string]Code{
		"constraint failed: FOREIGN KEY constraint failed (787)":  ForeignKeyViolation,
		"UNIQUE constraint failed: players.nickname":              UniqueViolation,
		"NOT NULL constraint failed: players.name":                NotNullViolation,
		"CHECK constraint failed: length(name) BETWEEN 1 AND 255": CheckViolation,
		"disk I/O error":                                          Other,
	}
	for msg, want := range tests {
		if got := constraintFromMessage(msg); got != want {
			t.Errorf("constraintFromMessage(%q) = %q, want %q", msg, got, want)
		}
	}
}
