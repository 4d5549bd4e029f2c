package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-studio/internal/credential"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/session"
	"prompt-studio/internal/storage"
	"prompt-studio/internal/view"
)

type stubGenerator struct {
	calls      int
	prompt     string
	credential string
	err        error
}

func (g *stubGenerator) GenerateImage(_ context.Context, p, cred string) (gemini.Image, error) {
	g.calls++
	g.prompt = p
	g.credential = cred
	if cred == "" {
		return gemini.Image{}, gemini.ErrMissingCredential
	}
	if g.err != nil {
		return gemini.Image{}, g.err
	}
	return gemini.Image{Data: []byte{1, 2, 3}, MimeType: "image/png"}, nil
}

type testEnv struct {
	srv     *httptest.Server
	client  *http.Client
	gen     *stubGenerator
	backend *storage.MemoryStore
}

func newTestEnv(t *testing.T, sharedKey string) *testEnv {
	t.Helper()

	backend := storage.NewMemoryStore()
	gen := &stubGenerator{}
	s, err := New(Options{
		Sessions:       session.NewStore(session.Options[*view.Controller]{TTL: time.Hour, New: view.New}),
		Backend:        backend,
		SharedKey:      sharedKey,
		Generator:      gen,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, client: newClient(t), gen: gen, backend: backend}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// as returns a view of the same server seen from another browser.
func (e *testEnv) as(client *http.Client) *testEnv {
	other := *e
	other.client = client
	return &other
}

func (e *testEnv) cookie(t *testing.T, name string) *http.Cookie {
	t.Helper()
	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *testEnv) settings(t *testing.T, method string, body any) settingsResponse {
	t.Helper()
	resp := e.do(t, method, "/api/settings", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out settingsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) state(t *testing.T, method, path string, body any, wantStatus int) stateResponse {
	t.Helper()
	resp := e.do(t, method, path, body)
	require.Equal(t, wantStatus, resp.StatusCode)
	var out stateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Zero(t, cookies[0].MaxAge)

	resp = env.do(t, http.MethodPost, "/api/reset", nil)
	assert.Empty(t, resp.Cookies())
}

func TestReadsDoNotCreateSessions(t *testing.T) {
	env := newTestEnv(t, "")

	for _, path := range []string{"/api/state", "/api/prompt", "/api/catalog"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Less(t, resp.StatusCode, 300, path)
		assert.Empty(t, resp.Cookies(), path)
	}

	env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)
	st := env.state(t, http.MethodGet, "/api/state", nil, http.StatusOK)
	assert.Equal(t, 5, st.Completed)
}

func TestClientCookieIsLongLived(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, clientCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(clientCookieAge/time.Second), cookies[0].MaxAge)

	resp = env.do(t, http.MethodGet, "/api/settings", nil)
	assert.Empty(t, resp.Cookies())
}

func TestOversizedBodyRejected(t *testing.T) {
	env := newTestEnv(t, "")
	big := strings.Repeat("x", maxBodyBytes)

	for _, tt := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/tab", map[string]string{"mode": big}},
		{http.MethodPost, "/api/select", map[string]string{"category": "style", "option": big}},
		{http.MethodPut, "/api/settings", map[string]string{"key": big}},
	} {
		resp := env.do(t, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, tt.path)
	}

	assert.Equal(t, settingsResponse{}, env.settings(t, http.MethodGet, nil))
}

func TestInitialState(t *testing.T) {
	env := newTestEnv(t, "")

	st := env.state(t, http.MethodGet, "/api/state", nil, http.StatusOK)
	assert.Equal(t, view.ModeCatalog, st.Mode)
	assert.Equal(t, 0, st.Completed)
	assert.Equal(t, 5, st.Total)
	assert.False(t, st.Ready)
	assert.Empty(t, st.DisplayPrompt)
	assert.NotEmpty(t, st.Placeholder)
	assert.Len(t, st.Selections, 5)
	for k, v := range st.Selections {
		assert.Nil(t, v, k)
	}
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cat catalogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cat))
	require.Len(t, cat.Categories, 5)
	assert.Equal(t, "style", cat.Categories[0].Key)
	assert.Equal(t, 1, cat.Categories[0].Number)
	assert.NotEmpty(t, cat.Categories[0].Options)
	require.NotEmpty(t, cat.Presets)
	assert.Equal(t, "ghibli", cat.Presets[0].ID)
	assert.Equal(t, "ghibli_style", cat.Presets[0].Selection["style"])
}

func TestPresetThenProceed(t *testing.T) {
	env := newTestEnv(t, "")

	st := env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)
	assert.Equal(t, view.ModeBuilder, st.Mode)
	assert.Equal(t, 5, st.Completed)
	assert.True(t, st.Ready)
	require.NotNil(t, st.Selections["style"])
	assert.Equal(t, "ghibli_style", st.Selections["style"].ID)
	assert.True(t, strings.HasSuffix(st.DisplayPrompt, " --ar 3:2 --v 6.0"))
	assert.NotContains(t, st.APIPrompt, "--ar")

	st = env.state(t, http.MethodPost, "/api/proceed", nil, http.StatusOK)
	assert.Equal(t, view.ModePreview, st.Mode)
}

func TestUnknownPreset(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/presets/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	st := env.state(t, http.MethodGet, "/api/state", nil, http.StatusOK)
	assert.Equal(t, view.ModeCatalog, st.Mode)
}

func TestSelectToggles(t *testing.T) {
	env := newTestEnv(t, "")
	body := map[string]string{"category": "color", "option": "ghibli_color"}

	st := env.state(t, http.MethodPost, "/api/select", body, http.StatusOK)
	assert.Equal(t, 1, st.Completed)
	require.NotNil(t, st.Selections["color"])
	assert.NotEmpty(t, st.Selections["color"].Swatch)

	st = env.state(t, http.MethodPost, "/api/select", body, http.StatusOK)
	assert.Equal(t, 0, st.Completed)
	assert.Nil(t, st.Selections["color"])
}

func TestSelectRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body any
	}{
		{"unknown category", map[string]string{"category": "mood", "option": "ghibli_color"}},
		{"option from another category", map[string]string{"category": "style", "option": "ghibli_color"}},
		{"unknown option", map[string]string{"category": "style", "option": "missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/select", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	st := env.state(t, http.MethodGet, "/api/state", nil, http.StatusOK)
	assert.Equal(t, 0, st.Completed)
}

func TestTab(t *testing.T) {
	env := newTestEnv(t, "")

	st := env.state(t, http.MethodPost, "/api/tab", map[string]string{"mode": "preview"}, http.StatusOK)
	assert.Equal(t, view.ModePreview, st.Mode)

	resp := env.do(t, http.MethodPost, "/api/tab", map[string]string{"mode": "gallery"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetKeepsMode(t *testing.T) {
	env := newTestEnv(t, "")
	env.state(t, http.MethodPost, "/api/presets/pixar", nil, http.StatusOK)

	st := env.state(t, http.MethodPost, "/api/reset", nil, http.StatusOK)
	assert.Equal(t, view.ModeBuilder, st.Mode)
	assert.Equal(t, 0, st.Completed)
	assert.Empty(t, st.DisplayPrompt)
}

func TestPrompt(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/prompt", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	st := env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/prompt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("content-type"), "text/plain")
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, st.DisplayPrompt, string(b))
}

func TestGenerateSuccess(t *testing.T) {
	env := newTestEnv(t, "")
	env.settings(t, http.MethodPut, map[string]string{"key": "user-key"})

	before := env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)
	env.state(t, http.MethodPost, "/api/proceed", nil, http.StatusOK)

	st := env.state(t, http.MethodPost, "/api/generate", nil, http.StatusOK)
	assert.Equal(t, 1, env.gen.calls)
	assert.Equal(t, before.APIPrompt, env.gen.prompt)
	assert.Equal(t, "user-key", env.gen.credential)
	assert.Equal(t, "data:image/png;base64,AQID", st.Image)
	assert.Empty(t, st.Error)
	assert.False(t, st.Generating)
}

func TestGenerateUsesFallbackKey(t *testing.T) {
	env := newTestEnv(t, "server-key")
	env.state(t, http.MethodPost, "/api/presets/anime", nil, http.StatusOK)

	env.state(t, http.MethodPost, "/api/generate", nil, http.StatusOK)
	assert.Equal(t, "server-key", env.gen.credential)
}

func TestCredentialsArePerBrowser(t *testing.T) {
	a := newTestEnv(t, "")
	b := a.as(newClient(t))

	a.settings(t, http.MethodPut, map[string]string{"key": "visitor-a-secret-key"})

	got := b.settings(t, http.MethodGet, nil)
	assert.False(t, got.Configured)
	assert.Empty(t, got.Masked)

	b.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)
	st := b.state(t, http.MethodPost, "/api/generate", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, "Set your Gemini API key in Settings first.", st.Error)
	assert.Empty(t, b.gen.credential)

	b.settings(t, http.MethodPut, map[string]string{"key": "visitor-b-key"})
	b.state(t, http.MethodPost, "/api/generate", nil, http.StatusOK)
	assert.Equal(t, "visitor-b-key", b.gen.credential)

	a.state(t, http.MethodPost, "/api/presets/pixar", nil, http.StatusOK)
	a.state(t, http.MethodPost, "/api/generate", nil, http.StatusOK)
	assert.Equal(t, "visitor-a-secret-key", a.gen.credential)

	ca, cb := a.cookie(t, clientCookie), b.cookie(t, clientCookie)
	require.NotNil(t, ca)
	require.NotNil(t, cb)
	assert.NotEqual(t, ca.Value, cb.Value)
	v, ok, err := a.backend.Get(context.Background(), credential.DefaultKey+":"+ca.Value)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "visitor-a-secret-key", v)
}

func TestGenerateMissingCredential(t *testing.T) {
	env := newTestEnv(t, "")
	env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)

	st := env.state(t, http.MethodPost, "/api/generate", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, "Set your Gemini API key in Settings first.", st.Error)
	assert.Empty(t, st.Image)
}

func TestGenerateServiceError(t *testing.T) {
	env := newTestEnv(t, "k")
	env.gen.err = &gemini.GenerationError{Message: "API key not valid"}
	env.state(t, http.MethodPost, "/api/presets/ghibli", nil, http.StatusOK)

	st := env.state(t, http.MethodPost, "/api/generate", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, "API key not valid", st.Error)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	assert.Equal(t, settingsResponse{}, env.settings(t, http.MethodGet, nil))

	got := env.settings(t, http.MethodPut, map[string]string{"key": "  AIzaSyExample1234  "})
	assert.True(t, got.Configured)
	assert.Equal(t, credential.Mask("AIzaSyExample1234"), got.Masked)
	assert.NotContains(t, got.Masked, "Example")

	slot := credential.DefaultKey + ":" + env.cookie(t, clientCookie).Value
	v, ok, err := env.backend.Get(ctx, slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AIzaSyExample1234", v)

	got = env.settings(t, http.MethodPut, map[string]string{"key": ""})
	assert.False(t, got.Configured)
	_, ok, err = env.backend.Get(ctx, slot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsReportsSharedKey(t *testing.T) {
	env := newTestEnv(t, "server-key")

	got := env.settings(t, http.MethodGet, nil)
	assert.False(t, got.Configured)
	assert.True(t, got.Fallback)
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, "")

	for path, ct := range map[string]string{
		"/":        "text/html",
		"/app.js":  "text/javascript",
		"/app.css": "text/css",
	} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), ct, path)
	}
}
