package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/skillswap/api"
	"github.com/garnizeh/skillswap/internal/config"
	"github.com/garnizeh/skillswap/internal/testutil"
)

const testSecret = "testsecret"

type testServer struct {
	t      *testing.T
	router *mux.Router
	svc    *api.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:      testSecret,
		TokenDuration:  time.Hour,
		BcryptCost:     bcrypt.MinCost,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}
	svc, err := api.NewServices(cfg, testutil.NewDB(t), nil)
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	return &testServer{t: t, router: api.SetupRoutes("test", "now", svc), svc: svc}
}

// do sends a JSON request; body may be nil, a string sent verbatim, or a value to marshal.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// register creates a user named after username and returns its session.
func (s *testServer) register(username string) session {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
		"name":     "User " + username,
		"location": "Lisbon",
	})
	if w.Code != http.StatusOK {
		s.t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var sess session
	decode(s.t, w, &sess)
	return sess
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
