package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loadsheet/internal/config"
	"Loadsheet/internal/repo"
)

func testServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	store := repo.NewMemory()
	cat, err := catalog(cfg, store)
	require.NoError(t, err)
	r := mux.NewRouter()
	HandleList(r, cfg, store, cat, slog.New(slog.DiscardHandler))
	srv := httptest.NewServer(CORS(r))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() config.Config {
	return config.Config{
		TokenKey: "test-key", BatchWorkers: 2, RateLimit: 1000, RateBurst: 1000, ProfileCacheSize: 8,
	}
}

func request(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func register(t *testing.T, srv *httptest.Server, login string) string {
	t.Helper()
	resp := request(t, http.MethodPost, srv.URL+"/api/register", "",
		`{"login":"`+login+`","email":"`+login+`@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out["token"]
}

func TestServerFlow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ra-67222.yaml"),
		[]byte("base: CRJ200\ndow: 14512\ndoi: 48.9\n"), 0o644))
	cfg := testConfig()
	cfg.ProfilesDir = dir
	srv := testServer(t, cfg)

	resp := request(t, http.MethodPost, srv.URL+"/api/user/tools/wb/calc", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := register(t, srv, "dispatch")

	resp = request(t, http.MethodGet, srv.URL+"/api/user/aircraft", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"CRJ200", "ra-67222"}, names)

	task := `{"takeoff_fuel":3786,"trip_fuel":1273,"adults":41,"children":2,
"cabin_baggage":91,"seating":[12,12,9,10],"cargo":181}`
	resp = request(t, http.MethodPost, srv.URL+"/api/user/tools/wb/calc", token,
		`{"aircraft":"CRJ200","task":`+task+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		ZFW       float64 `json:"zfw"`
		StabEICAS float64 `json:"stab_eicas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 17841.0, res.ZFW)

	resp = request(t, http.MethodPost, srv.URL+"/api/user/tools/wb/calc", token,
		`{"aircraft":"ra-67222","task":`+task+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, http.MethodPost, srv.URL+"/api/user/tools/wb/report/pdf", token,
		`{"aircraft":"CRJ200","task":`+task+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = request(t, http.MethodGet, srv.URL+"/api/user/calculations", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var calcs []repo.Calculation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&calcs))
	assert.Len(t, calcs, 3)
}

func TestProfileWritesNeedAdmin(t *testing.T) {
	cfg := testConfig()
	cfg.Admins = []string{"chief"}
	srv := testServer(t, cfg)
	user := register(t, srv, "dispatch")
	admin := register(t, srv, "chief")

	resp := request(t, http.MethodPut, srv.URL+"/api/user/aircraft/CRJ200", user, `{"dow":12000,"doi":60}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = request(t, http.MethodPut, srv.URL+"/api/user/aircraft/CRJ200", admin, `{"dow":12000,"doi":60}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = request(t, http.MethodPut, srv.URL+"/api/user/aircraft/RA-67222", admin, `{"base":"CRJ200","dow":14512}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	task := `{"takeoff_fuel":3786,"trip_fuel":1273,"adults":41,"children":2,
"cabin_baggage":91,"seating":[12,12,9,10],"cargo":181}`
	resp = request(t, http.MethodPost, srv.URL+"/api/user/tools/wb/calc", user,
		`{"aircraft":"CRJ200","task":`+task+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		ZFW float64 `json:"zfw"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 17841.0, res.ZFW)
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(t, testConfig())
	resp := request(t, http.MethodOptions, srv.URL+"/api/login", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCatalogRejectsBadProfilesDir(t *testing.T) {
	cfg := testConfig()
	cfg.ProfilesDir = filepath.Join(t.TempDir(), "missing")
	_, err := catalog(cfg, repo.NewMemory())
	assert.Error(t, err)
}
