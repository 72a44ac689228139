package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/jersey-rota/internal/errs"
	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/labstack/echo/v4"
)

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func assertUnprocessable(t *testing.T, err error, field string) {
	t.Helper()

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", httpErr.Status)
	}
	if field == "" {
		return
	}
	for _, fe := range httpErr.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Fatalf("no field error for %q in %+v", field, httpErr.Errors)
}

func TestBindAndValidateCreatePlayer(t *testing.T) {
	c := newContext(http.MethodPost, "/api/players", `{"name":"John Smith","nickname":"Smithy","usual_number":"10"}`)

	var payload model.CreatePlayerPayload
	if err := BindAndValidate(c, &payload); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if payload.Name != "John Smith" || *payload.Nickname != "Smithy" || *payload.UsualNumber != "10" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBindAndValidateMissingName(t *testing.T) {
	c := newContext(http.MethodPost, "/api/players", `{"nickname":"Ghost"}`)
	assertUnprocessable(t, BindAndValidate(c, &model.CreatePlayerPayload{}), "name")
}

func TestBindAndValidateEmptyBody(t *testing.T) {
	c := newContext(http.MethodPost, "/api/players", "")
	assertUnprocessable(t, BindAndValidate(c, &model.CreatePlayerPayload{}), "name")
}

func TestBindAndValidateWrongType(t *testing.T) {
	c := newContext(http.MethodPost, "/api/players", `{"name":123}`)
	assertUnprocessable(t, BindAndValidate(c, &model.CreatePlayerPayload{}), "name")
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, "/api/players", `{"name":`)
	assertUnprocessable(t, BindAndValidate(c, &model.CreatePlayerPayload{}), "")
}

func TestBindAndValidatePathID(t *testing.T) {
	c := newContext(http.MethodPut, "/api/players/5", `{"name":"New Name"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	var payload model.UpdatePlayerPayload
	if err := BindAndValidate(c, &payload); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if payload.ID != 5 || payload.Name == nil || *payload.Name != "New Name" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Nickname != nil || payload.UsualNumber != nil {
		t.Fatal("absent fields must stay nil")
	}
}

func TestBindAndValidateNonIntegerID(t *testing.T) {
	c := newContext(http.MethodDelete, "/api/players/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assertUnprocessable(t, BindAndValidate(c, &model.DeletePlayerPayload{}), "")
}

func TestExtractCustomValidationErrors(t *testing.T) {
	msg, fields := extractValidationError(CustomValidationErrors{{Field: "player_id", Message: "is unknown"}})
	if msg != "Validation failed" || len(fields) != 1 || fields[0].Field != "player_id" {
		t.Fatalf("got %q %+v", msg, fields)
	}
}
