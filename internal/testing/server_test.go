package testing_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applierctl/internal/api"
	fakeapplier "applierctl/internal/testing"
	"applierctl/pkg/logging"
)

func TestParseScenario(t *testing.T) {
	s, err := fakeapplier.ParseScenario([]byte(`
modules:
  - namespace: dev
    name: network
  - namespace: dev
    name: dns
    state: Running
    lockedBy: alice
jsonResponses: true
pickupAfter: 2
`))
	require.NoError(t, err)
	require.Len(t, s.Modules, 2)
	assert.Equal(t, api.StateReady, s.Modules[0].State)
	assert.Equal(t, "alice", s.Modules[1].LockedBy)
	assert.True(t, s.JSONResponses)
	assert.Equal(t, 2, s.PickupAfter)

	_, err = fakeapplier.ParseScenario([]byte("modules:\n  - namespace: dev\n"))
	assert.ErrorIs(t, err, api.ErrModuleRequired)

	_, err = fakeapplier.ParseScenario([]byte("modules: [unterminated"))
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules:\n  - {namespace: a, name: b}\n"), 0o600))

	s, err := fakeapplier.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "b", s.Modules[0].Name)

	_, err = fakeapplier.LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplierForceRun(t *testing.T) {
	fake := fakeapplier.NewApplier(fakeapplier.Scenario{Modules: []fakeapplier.ModuleConfig{
		{Namespace: "dev", Name: "network"},
		{Namespace: "dev", Name: "dns", LockedBy: "alice"},
		{Namespace: "dev", Name: "queued", Pending: true},
		{Namespace: "dev", Name: "busy", State: api.StateRunning},
	}})
	srv := fake.Start()
	defer srv.Close()

	post := func(body string) (int, string) {
		resp, err := http.Post(srv.URL+"/api/v1/forceRun", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, strings.TrimSpace(string(data))
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"missing module", `{"namespace":"dev","module":"nope","planOnly":"true"}`, http.StatusBadRequest, "cannot find module 'dev/nope'"},
		{"bad payload", `not json`, http.StatusBadRequest, "error parsing request"},
		{"locked", `{"namespace":"dev","module":"dns","planOnly":"true"}`, http.StatusConflict, "module is locked by alice"},
		{"pending", `{"namespace":"dev","module":"queued","planOnly":"true"}`, http.StatusConflict, "Unable to request run as another request is pending"},
		{"accepted", `{"namespace":"dev","module":"network","planOnly":"false"}`, http.StatusOK, "Run queued"},
		{"accepted run is pending", `{"namespace":"dev","module":"network","planOnly":"true"}`, http.StatusConflict, "Unable to request run as another request is pending"},
		{"already running", `{"namespace":"dev","module":"busy","planOnly":"true"}`, http.StatusBadRequest, "module is currently running"},
		{"lock id matches", `{"namespace":"dev","module":"dns","planOnly":"true","lockID":"alice"}`, http.StatusOK, "Run queued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBody, body)
		})
	}

	assert.True(t, fake.Queued("dev", "network"))
	assert.Equal(t, api.StateReady, fake.State("dev", "network"))
	assert.Len(t, fake.RequestsTo("/api/v1/forceRun"), len(tests))
}

func TestApplierPicksUpQueuedRun(t *testing.T) {
	fake := fakeapplier.NewApplier(fakeapplier.Scenario{
		Modules:     []fakeapplier.ModuleConfig{{Namespace: "dev", Name: "network"}},
		PickupAfter: 1,
	})
	srv := fake.Start()
	defer srv.Close()

	post := func(path, body string) int {
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		_, err = io.Copy(io.Discard, resp.Body)
		require.NoError(t, err)
		return resp.StatusCode
	}
	const module = `{"namespace":"dev","module":"network"}`

	require.Equal(t, http.StatusOK, post("/api/v1/forceRun", `{"namespace":"dev","module":"network","planOnly":"true"}`))
	assert.True(t, fake.Queued("dev", "network"))

	require.Equal(t, http.StatusOK, post("/module", module))
	assert.True(t, fake.Queued("dev", "network"))
	assert.Equal(t, api.StateReady, fake.State("dev", "network"))

	require.Equal(t, http.StatusOK, post("/module", module))
	assert.False(t, fake.Queued("dev", "network"))
	assert.Equal(t, api.StateRunning, fake.State("dev", "network"))
}

func TestApplierFailNext(t *testing.T) {
	fake := fakeapplier.NewApplier(fakeapplier.Scenario{Modules: []fakeapplier.ModuleConfig{
		{Namespace: "dev", Name: "network"},
	}})
	srv := fake.Start()
	defer srv.Close()

	fake.FailNext("/", http.StatusBadGateway, "upstream down")

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestApplierForceRun_LogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelInfo, io.Discard) })

	fake := fakeapplier.NewApplier(fakeapplier.Scenario{
		Modules:       []fakeapplier.ModuleConfig{{Namespace: "dev", Name: "network"}},
		JSONResponses: true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forceRun",
		strings.NewReader(`{"namespace":"dev","module":"network","planOnly":"true"}`))
	fake.ServeHTTP(brokenWriter{httptest.NewRecorder()}, req)

	assert.True(t, fake.Queued("dev", "network"))
	assert.Contains(t, buf.String(), "Unable to write force run response for dev/network")
	assert.Contains(t, buf.String(), "connection reset")
}
