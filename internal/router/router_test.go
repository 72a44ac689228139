package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/jersey-rota/internal/errs"
	"github.com/deppfellow/jersey-rota/internal/handler"
	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/repository"
	"github.com/deppfellow/jersey-rota/internal/service"
	"github.com/deppfellow/jersey-rota/internal/testutil"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

type testApp struct {
	router *echo.Echo
	clock  *clockwork.FakeClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	s, clock := testutil.NewTestServer(t)
	services, err := service.NewService(s, repository.NewRepositories(s))
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	return &testApp{
		router: NewRouter(s, handler.NewHandlers(s, services)),
		clock:  clock,
	}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errs.HTTPError {
	t.Helper()
	expectStatus(t, rec, status)

	body := decode[errs.HTTPError](t, rec)
	if body.Code != code || body.Status != status {
		t.Fatalf("error body = %+v, want code %s", body, code)
	}
	return body
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (a *testApp) listPlayers(t *testing.T) []model.Player {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/players", "")
	expectStatus(t, rec, http.StatusOK)
	return decode[[]model.Player](t, rec)
}

func TestPlayerLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/players", "")
	expectStatus(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty listing = %s, want []", got)
	}

	rec = app.do(t, http.MethodPost, "/api/players", `{"name":"John Smith","nickname":"Smithy","usual_number":"10"}`)
	expectStatus(t, rec, http.StatusCreated)
	john := decode[model.Player](t, rec)
	if john.ID == 0 || john.Name != "John Smith" || *john.Nickname != "Smithy" || *john.UsualNumber != "10" {
		t.Fatalf("created = %+v", john)
	}
	if !john.CreatedAt.Equal(testutil.Epoch) {
		t.Fatalf("created_at = %v, want %v", john.CreatedAt, testutil.Epoch)
	}

	app.clock.Advance(time.Hour)
	rec = app.do(t, http.MethodPut, "/api/players/"+itoa(john.ID), `{"name":"New Name"}`)
	expectStatus(t, rec, http.StatusOK)
	updated := decode[model.Player](t, rec)
	if updated.Name != "New Name" || *updated.UsualNumber != "10" || *updated.Nickname != "Smithy" {
		t.Fatalf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(john.CreatedAt) {
		t.Fatal("created_at must not change on update")
	}

	rec = app.do(t, http.MethodDelete, "/api/players/"+itoa(john.ID), "")
	expectStatus(t, rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Fatalf("204 must have no body, got %q", rec.Body.String())
	}

	if players := app.listPlayers(t); len(players) != 0 {
		t.Fatalf("deleted player still listed: %+v", players)
	}

	rec = app.do(t, http.MethodDelete, "/api/players/"+itoa(john.ID), "")
	expectError(t, rec, http.StatusNotFound, "PLAYER_NOT_FOUND")
}

func TestCreatePlayerMinimalSerializesNulls(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/players", `{"name":"Jane Doe"}`)
	expectStatus(t, rec, http.StatusCreated)

	body := decode[map[string]any](t, rec)
	for _, key := range []string{"nickname", "usual_number"} {
		v, ok := body[key]
		if !ok {
			t.Fatalf("%s missing from %v", key, body)
		}
		if v != nil {
			t.Fatalf("%s = %v, want null", key, v)
		}
	}
}

func TestCreatePlayerRejectsInvalidBodies(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing name", body: `{"nickname":"Ghost"}`, field: "name"},
		{name: "empty name", body: `{"name":""}`, field: "name"},
		{name: "name wrong type", body: `{"name":123}`, field: "name"},
		{name: "number too long", body: `{"name":"A","usual_number":"12345678901"}`, field: "usual_number"},
		{name: "malformed", body: `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/players", tt.body)
			body := expectError(t, rec, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")

			if tt.field != "" {
				found := false
				for _, fe := range body.Errors {
					found = found || fe.Field == tt.field
				}
				if !found {
					t.Fatalf("no field error for %s in %+v", tt.field, body.Errors)
				}
			}
		})
	}

	if players := app.listPlayers(t); len(players) != 0 {
		t.Fatalf("invalid creates reached storage: %+v", players)
	}
}

func TestListPlayersReturnsCreated(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{`{"name":"Alice","usual_number":"7"}`, `{"name":"Bob","usual_number":"9"}`} {
		expectStatus(t, app.do(t, http.MethodPost, "/api/players", body), http.StatusCreated)
	}

	players := app.listPlayers(t)
	if len(players) != 2 || players[0].Name != "Alice" || players[1].Name != "Bob" {
		t.Fatalf("players = %+v", players)
	}
	if players[0].ID == players[1].ID {
		t.Fatal("ids must be unique")
	}
}

func TestUpdatePlayerEdgeCases(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/players", `{"name":"Alice","nickname":"Al","usual_number":"7"}`)
	expectStatus(t, rec, http.StatusCreated)
	alice := decode[model.Player](t, rec)
	path := "/api/players/" + itoa(alice.ID)

	t.Run("unknown id", func(t *testing.T) {
		expectError(t, app.do(t, http.MethodPut, "/api/players/9999", `{"name":"Ghost"}`), http.StatusNotFound, "PLAYER_NOT_FOUND")
	})

	t.Run("non integer id", func(t *testing.T) {
		expectError(t, app.do(t, http.MethodPut, "/api/players/abc", `{"name":"Ghost"}`), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")
		expectError(t, app.do(t, http.MethodDelete, "/api/players/abc", ""), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")
	})

	t.Run("empty name", func(t *testing.T) {
		expectError(t, app.do(t, http.MethodPut, path, `{"name":""}`), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")
	})

	t.Run("nulls leave fields unchanged", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, path, `{"name":null,"nickname":null,"usual_number":"8"}`)
		expectStatus(t, rec, http.StatusOK)
		got := decode[model.Player](t, rec)
		if got.Name != "Alice" || *got.Nickname != "Al" || *got.UsualNumber != "8" {
			t.Fatalf("updated = %+v", got)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, path, `{}`)
		expectStatus(t, rec, http.StatusOK)
		if got := decode[model.Player](t, rec); got.Name != "Alice" {
			t.Fatalf("updated = %+v", got)
		}
	})
}

func TestWashes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/players", `{"name":"Alice"}`)
	expectStatus(t, rec, http.StatusCreated)
	alice := decode[model.Player](t, rec)

	rec = app.do(t, http.MethodPost, "/api/players", `{"name":"Bob"}`)
	expectStatus(t, rec, http.StatusCreated)
	bob := decode[model.Player](t, rec)

	app.clock.Advance(7 * 24 * time.Hour)
	rec = app.do(t, http.MethodPost, "/api/washes", `{"player_id":`+itoa(alice.ID)+`}`)
	expectStatus(t, rec, http.StatusCreated)
	wash := decode[model.JerseyWash](t, rec)
	if wash.PlayerID != alice.ID || !wash.TakenAt.Equal(app.clock.Now()) {
		t.Fatalf("wash = %+v", wash)
	}

	expectStatus(t, app.do(t, http.MethodPost, "/api/washes", `{"player_id":`+itoa(bob.ID)+`}`), http.StatusCreated)

	t.Run("unknown player", func(t *testing.T) {
		body := expectError(t, app.do(t, http.MethodPost, "/api/washes", `{"player_id":9999}`), http.StatusBadRequest, "PLAYER_NOT_FOUND")
		if body.Message != "The referenced Player does not exist" {
			t.Fatalf("message = %q", body.Message)
		}
	})

	t.Run("missing player id", func(t *testing.T) {
		expectError(t, app.do(t, http.MethodPost, "/api/washes", `{}`), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")
	})

	t.Run("filter", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/washes?player_id="+itoa(bob.ID), "")
		expectStatus(t, rec, http.StatusOK)
		washes := decode[[]model.JerseyWash](t, rec)
		if len(washes) != 1 || washes[0].PlayerID != bob.ID {
			t.Fatalf("washes = %+v", washes)
		}

		expectError(t, app.do(t, http.MethodGet, "/api/washes?player_id=abc", ""), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")
		expectError(t, app.do(t, http.MethodGet, "/api/washes?player_id=0", ""), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY")

		rec = app.do(t, http.MethodGet, "/api/washes", "")
		expectStatus(t, rec, http.StatusOK)
		if all := decode[[]model.JerseyWash](t, rec); len(all) != 2 {
			t.Fatalf("unfiltered washes = %+v", all)
		}
	})

	t.Run("cascade on player delete", func(t *testing.T) {
		expectStatus(t, app.do(t, http.MethodDelete, "/api/players/"+itoa(alice.ID), ""), http.StatusNoContent)

		rec := app.do(t, http.MethodGet, "/api/washes", "")
		expectStatus(t, rec, http.StatusOK)
		for _, w := range decode[[]model.JerseyWash](t, rec) {
			if w.PlayerID == alice.ID {
				t.Fatalf("orphan wash %+v", w)
			}
		}
	})
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/status", "")
	expectStatus(t, rec, http.StatusOK)
	if body := decode[map[string]any](t, rec); body["status"] != "healthy" {
		t.Fatalf("status body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	rec = app.do(t, http.MethodGet, "/docs", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "/static/openapi.json") {
		t.Fatal("docs page does not reference openapi.json")
	}

	rec = app.do(t, http.MethodGet, "/static/openapi.json", "")
	expectStatus(t, rec, http.StatusOK)
	if body := decode[map[string]any](t, rec); body["openapi"] == nil {
		t.Fatal("openapi.json is not an OpenAPI document")
	}

	expectError(t, app.do(t, http.MethodGet, "/api/nope", ""), http.StatusNotFound, "NOT_FOUND")
}
