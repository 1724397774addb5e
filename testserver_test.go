package rolekitclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// recordedRequest captures one request the fake API served, for header and
// path assertions.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakeAPI is an in-memory RoleKit API for tests: canned envelopes, a CSRF
// handshake with 419 simulation, and a request log.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	requests   []recordedRequest
	roles      map[string]Role
	access     map[string]UserAccess
	menus      []Menu
	rules      []URLRule
	logs       []CheckLog
	nextID     int
	handshakes int

	// requireCSRF rejects mutating requests with 419 unless they carry
	// the token issued by the latest handshake.
	requireCSRF bool
	csrfToken   string

	// failNext makes the next n requests answer 500.
	failNext int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:      t,
		roles:  make(map[string]Role),
		access: make(map[string]UserAccess),
	}
	f.srv = httptest.NewServer(f.handler())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) URL() string { return f.srv.URL }

func (f *fakeAPI) seedRole(r Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[r.ID] = r
}

func (f *fakeAPI) seedAccess(a UserAccess) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access[a.UserID] = a
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeAPI) lastRequest() recordedRequest {
	reqs := f.recorded()
	if len(reqs) == 0 {
		f.t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (f *fakeAPI) handshakeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handshakes
}

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any) {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Code: code, Message: message, Data: raw})
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/csrf-cookie", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.handshakes++
		f.csrfToken = fmt.Sprintf("csrf-%d", f.handshakes)
		token := f.csrfToken
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: token, Path: "/"})
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 0, "ok", HealthStatus{Status: "ok", Version: "test", Time: time.Now()})
	})

	mux.HandleFunc("GET /api/roles", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := make([]Role, 0, len(f.roles))
		for _, role := range f.roles {
			items = append(items, role)
		}
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, 0, "", Page[Role]{Items: items, Total: len(items), Page: 1, PerPage: 50})
	})

	mux.HandleFunc("POST /api/roles", func(w http.ResponseWriter, r *http.Request) {
		var in RoleInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeEnvelope(w, http.StatusBadRequest, 1, "bad payload", nil)
			return
		}
		if in.Slug == "" {
			writeEnvelope(w, http.StatusUnprocessableEntity, 422, "slug is required", nil)
			return
		}
		f.mu.Lock()
		f.nextID++
		role := Role{
			ID:          fmt.Sprintf("role_%d", f.nextID),
			Name:        in.Name,
			Slug:        in.Slug,
			Description: in.Description,
			Status:      StatusActive,
			Permissions: in.Permissions,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		f.roles[role.ID] = role
		f.mu.Unlock()
		writeEnvelope(w, http.StatusCreated, 0, "", role)
	})

	mux.HandleFunc("GET /api/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		role, ok := f.roles[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, 404, "role not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", role)
	})

	mux.HandleFunc("PUT /api/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in RoleInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		role, ok := f.roles[r.PathValue("id")]
		if ok {
			role.Name = in.Name
			role.Slug = in.Slug
			role.Description = in.Description
			role.UpdatedAt = time.Now()
			f.roles[role.ID] = role
		}
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, 404, "role not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", role)
	})

	mux.HandleFunc("DELETE /api/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		_, ok := f.roles[r.PathValue("id")]
		delete(f.roles, r.PathValue("id"))
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, 404, "role not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", nil)
	})

	mux.HandleFunc("PUT /api/roles/{id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Permissions []string `json:"permissions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		role, ok := f.roles[r.PathValue("id")]
		if ok {
			role.Permissions = in.Permissions
			role.UpdatedAt = time.Now()
			f.roles[role.ID] = role
		}
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, 404, "role not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", role)
	})

	mux.HandleFunc("GET /api/menus", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		menus := f.menus
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, 0, "", menus)
	})

	mux.HandleFunc("GET /api/rules", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		rules := f.rules
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, 0, "", Page[URLRule]{Items: rules, Total: len(rules), Page: 1, PerPage: 50})
	})

	mux.HandleFunc("GET /api/logs/checks", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		logs := make([]CheckLog, 0, len(f.logs))
		for _, l := range f.logs {
			if u := r.URL.Query().Get("user_id"); u != "" && l.UserID != u {
				continue
			}
			if a := r.URL.Query().Get("allowed"); a != "" && fmt.Sprint(l.Allowed) != a {
				continue
			}
			logs = append(logs, l)
		}
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, 0, "", Page[CheckLog]{Items: logs, Total: len(logs), Page: 1, PerPage: 100})
	})

	mux.HandleFunc("POST /api/checks/role", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		access := f.access[in.UserID]
		f.mu.Unlock()
		allowed := false
		for _, role := range access.Roles {
			if role.Slug == in.Role {
				allowed = true
				break
			}
		}
		writeEnvelope(w, http.StatusOK, 0, "", CheckResult{Allowed: allowed})
	})

	mux.HandleFunc("POST /api/checks/permission", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID     string `json:"user_id"`
			Permission string `json:"permission"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		access := f.access[in.UserID]
		f.mu.Unlock()
		res := CheckResult{}
		for _, pattern := range access.Permissions {
			if MatchPermission(pattern, in.Permission) {
				res = CheckResult{Allowed: true, Matched: pattern}
				break
			}
		}
		writeEnvelope(w, http.StatusOK, 0, "", res)
	})

	mux.HandleFunc("GET /api/users/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		access, ok := f.access[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, 404, "user not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", access)
	})

	mux.HandleFunc("POST /api/users/{id}/roles", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			RoleID string `json:"role_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeEnvelope(w, http.StatusCreated, 0, "", RoleAssignment{
			UserID:     r.PathValue("id"),
			RoleID:     in.RoleID,
			AssignedAt: time.Now(),
		})
	})

	mux.HandleFunc("DELETE /api/users/{id}/roles/{roleID}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 0, "", nil)
	})

	// Outermost: record the request, inject failures, enforce CSRF.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fail := f.failNext > 0
		if fail {
			f.failNext--
		}
		requireCSRF := f.requireCSRF
		token := f.csrfToken
		f.mu.Unlock()

		if fail {
			writeEnvelope(w, http.StatusInternalServerError, 500, "internal error", nil)
			return
		}

		if requireCSRF && mutating(r.Method) {
			if token == "" || r.Header.Get("X-XSRF-TOKEN") != token {
				writeEnvelope(w, StatusCSRFMismatch, 419, "csrf token mismatch", nil)
				return
			}
		}

		mux.ServeHTTP(w, r)
	})
}
