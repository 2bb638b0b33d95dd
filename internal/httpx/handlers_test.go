package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiseo/cockpit/internal/auth"
	"github.com/amiseo/cockpit/internal/metrics"
	"github.com/amiseo/cockpit/internal/models"
	"github.com/amiseo/cockpit/internal/store"
)

type testEnv struct {
	router  http.Handler
	clients *store.ClientStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	clientsFixture := []models.ClientRecord{
		{
			ID: "c1", Name: "Acme", Industry: "Retail", Summary: "ok",
			KPIPeriods: []models.KPIPeriod{{
				ID: "p1", Label: "Janvier",
				KPIs: []models.KPI{{Label: "Trafic", Value: "100"}},
			}},
		},
		{
			ID: "c2", Name: "Boulangerie Martin", Industry: "Artisanat", Summary: "ok",
			KPIs:              []models.KPI{{Label: "Appels", Value: "85"}},
			MonthlyHighlights: []string{"Fiche optimisée"},
		},
	}
	raw, err := json.MarshalIndent(clientsFixture, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clients.json"), raw, 0o644))

	adminHash, err := auth.HashPassword("correct")
	require.NoError(t, err)
	usersFixture := []models.UserRecord{
		{ID: "u1", Username: "admin", Password: adminHash, Role: models.RoleAdmin, DisplayName: "Équipe Amiseo"},
		{ID: "u2", Username: "martin", Password: "secret", Role: models.RoleClient, DisplayName: "Boulangerie Martin", ClientID: "c2"},
	}
	raw, err = json.MarshalIndent(usersFixture, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), raw, 0o644))

	clients, err := store.OpenClients(filepath.Join(dir, "clients.json"))
	require.NoError(t, err)
	users, err := store.OpenUsers(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	h := NewHandlers(logger, clients, auth.NewVerifier(users), auth.NewSessions("test-secret"), m)
	return &testEnv{router: NewRouter(logger, h, m), clients: clients}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": username, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response has no session cookie")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Identifiants invalides.", body["message"])
}

func TestLoginRedirectsByRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "admin", "password": "correct",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "/admin", body["redirectTo"])
	assert.Equal(t, models.RoleAdmin, body["role"])

	rec = env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "martin", "password": "secret",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[map[string]string](t, rec)
	assert.Equal(t, "/dashboard", body["redirectTo"])
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	rec := env.do(t, http.MethodPost, "/api/logout", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/session", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := env.login(t, "martin", "secret")
	rec = env.do(t, http.MethodGet, "/api/session", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[auth.Principal](t, rec)
	assert.Equal(t, "martin", p.Username)
	assert.Equal(t, "c2", p.ClientID)
}

func TestListClientsRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/clients", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminListsAllClientsNormalized(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	rec := env.do(t, http.MethodGet, "/api/clients", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.ClientRecord](t, rec)
	require.Len(t, list, 2)
	// The legacy-shaped record comes out canonical.
	require.Len(t, list[1].KPIPeriods, 1)
	assert.Equal(t, "periode-c2", list[1].KPIPeriods[0].ID)
}

func TestClientSeesOnlyOwnRecord(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "martin", "secret")

	rec := env.do(t, http.MethodGet, "/api/clients", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.ClientRecord](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].ID)

	rec = env.do(t, http.MethodGet, "/api/clients/c1", nil, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/clients/c2", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetClientNotFound(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	rec := env.do(t, http.MethodGet, "/api/clients/ghost", nil, cookie)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Client introuvable.", body["message"])
}

func updateBody(id string) map[string]any {
	return map[string]any{
		"id": id, "name": "Acme", "industry": "Retail", "summary": "ok",
		"kpiPeriods": []map[string]any{{
			"id": "p1", "label": "Janvier",
			"kpis": []map[string]string{{"label": "Trafic", "value": "100"}},
		}},
		"initiatives": []map[string]string{},
	}
}

func TestUpdateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/clients/c1", updateBody("c1"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	cookie := env.login(t, "martin", "secret")
	rec = env.do(t, http.MethodPut, "/api/clients/c2", updateBody("c2"), cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Accès refusé.", body["message"])
}

func TestUpdateValidationReportsFieldPaths(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	body := updateBody("c1")
	body["name"] = ""

	rec := env.do(t, http.MethodPut, "/api/clients/c1", body, cookie)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Message string `json:"message"`
		Issues  []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Payload invalide", resp.Message)
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, "name", resp.Issues[0].Path)
}

func TestUpdatePathIDWinsOverPayloadID(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	rec := env.do(t, http.MethodPut, "/api/clients/c1", updateBody("evil"), cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	persisted := decodeBody[models.ClientRecord](t, rec)
	assert.Equal(t, "c1", persisted.ID)

	_, err := env.clients.Get("evil")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAppendsNewRecord(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	rec := env.do(t, http.MethodPut, "/api/clients/c9", updateBody("c9"), cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	got, err := env.clients.Get("c9")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}

func TestUpdateDisabledEcommerceIsOmitted(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	body := updateBody("c1")
	body["ecommerce"] = map[string]string{"revenue": "12k"}
	body["ecommerceEnabled"] = false

	rec := env.do(t, http.MethodPut, "/api/clients/c1", body, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"ecommerce"`)

	got, err := env.clients.Get("c1")
	require.NoError(t, err)
	assert.Nil(t, got.Ecommerce)
}

func TestUpdateEnabledFlagDefaultsToDataPresence(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	body := updateBody("c1")
	body["ecommerce"] = map[string]string{"revenue": "12k"}
	// no ecommerceEnabled key at all

	rec := env.do(t, http.MethodPut, "/api/clients/c1", body, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	got, err := env.clients.Get("c1")
	require.NoError(t, err)
	require.NotNil(t, got.Ecommerce)
	assert.Equal(t, "12k", got.Ecommerce.Revenue)
}

func TestUpdateMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin", "correct")

	req := httptest.NewRequest(http.MethodPut, "/api/clients/c1", bytes.NewReader([]byte("{not json")))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", nil, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/metrics", nil, nil).Code)
}
