package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"clementus360/task-manager/handlers"
	"clementus360/task-manager/middleware"
	"clementus360/task-manager/supabase"
	"clementus360/task-manager/types"
)

const (
	taskA = "11111111-1111-4111-8111-111111111111"
	taskB = "22222222-2222-4222-8222-222222222222"
	catW  = "33333333-3333-4333-8333-333333333333"
)

// memStore is an in-memory handlers.Store for a single owner.
type memStore struct {
	mu         sync.Mutex
	tasks      map[string]types.Task
	categories map[string]types.Category
	lastFilter types.TaskFilter
	positions  map[string]int
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{
		tasks:      map[string]types.Task{},
		categories: map[string]types.Category{},
		positions:  map[string]int{},
	}
}

func (m *memStore) ListTasks(filter types.TaskFilter) ([]types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []types.Task{}
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) GetTask(id string) (types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return types.Task{}, supabase.ErrNotFound
	}
	return t, nil
}

func (m *memStore) CreateTask(d types.TaskDraft) (types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := types.Task{ID: taskB, Title: d.Title, Description: d.Description, Priority: d.Priority, CategoryID: d.CategoryID, Position: d.Position}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) UpdateTask(id string, fields map[string]any) (types.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return types.Task{}, supabase.ErrNotFound
	}
	if v, ok := fields["completed"].(bool); ok {
		t.Completed = v
	}
	if v, ok := fields["title"].(string); ok {
		t.Title = v
	}
	m.tasks[id] = t
	return t, nil
}

func (m *memStore) UpdateTaskPosition(id string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return supabase.ErrNotFound
	}
	m.positions[id] = position
	return nil
}

func (m *memStore) DeleteTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return supabase.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) ListCategories() ([]types.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) GetCategory(id string) (types.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return types.Category{}, supabase.ErrNotFound
	}
	return c, nil
}

func (m *memStore) CreateCategory(c types.Category) (types.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = catW
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) UpdateCategory(id string, u types.CategoryUpdate) (types.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return types.Category{}, supabase.ErrNotFound
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	m.categories[id] = c
	return c, nil
}

func (m *memStore) DeleteCategory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			return supabase.ErrCategoryInUse
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) SeedCategories() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.categories) == 0, nil
}

type stubIdentity struct {
	seeded []string
}

func (s *stubIdentity) SignUp(creds types.Credentials) (types.AuthResponse, error) {
	verified := true
	return types.AuthResponse{User: types.User{ID: "u-new", Email: creds.Email, Name: creds.Name}, Token: "tok", EmailVerified: &verified}, nil
}

func (s *stubIdentity) SignIn(email, password string) (types.AuthResponse, error) {
	if password != "secret" {
		return types.AuthResponse{}, supabase.ErrInvalidCredentials
	}
	return types.AuthResponse{User: types.User{ID: "u1", Email: email}, Token: "tok"}, nil
}

func (s *stubIdentity) SignOut(token string) error { return nil }

func (s *stubIdentity) SeedCategories(userID string) (bool, error) {
	s.seeded = append(s.seeded, userID)
	return true, nil
}

// fakeAuth authenticates "Bearer good" as u1.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := middleware.WithUser(r.Context(), types.User{ID: "u1", Email: "a@example.com"}, "good")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setup(t *testing.T) (*httptest.Server, *memStore, *stubIdentity) {
	t.Helper()
	store := newMemStore()
	identity := &stubIdentity{}
	h := &handlers.Handler{
		OpenStore: func(r *http.Request) (handlers.Store, error) { return store, nil },
		Identity:  identity,
	}
	mux := http.NewServeMux()
	RegisterAllRoutes(mux, h, fakeAuth)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store, identity
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, srv.URL+path, reader)
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func TestTaskRoutes(t *testing.T) {
	srv, store, _ := setup(t)
	store.tasks[taskA] = types.Task{ID: taskA, Title: "Report"}

	resp, body := call(t, srv, http.MethodGet, "/api/tasks?status=active&search=rep", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d: %s", resp.StatusCode, body)
	}
	var tasks []types.Task
	if err := json.Unmarshal(body, &tasks); err != nil || len(tasks) != 1 {
		t.Fatalf("list body = %s", body)
	}
	if store.lastFilter.Status != "active" || store.lastFilter.Search != "rep" {
		t.Errorf("filter = %+v", store.lastFilter)
	}

	resp, _ = call(t, srv, http.MethodGet, "/api/tasks?status=done", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad status filter = %d", resp.StatusCode)
	}

	resp, body = call(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "  Groceries ", "priority": "low", "position": 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created types.Task
	json.Unmarshal(body, &created)
	if created.Title != "Groceries" || created.Position != 2 {
		t.Errorf("created = %+v", created)
	}

	resp, _ = call(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank title status = %d", resp.StatusCode)
	}

	resp, body = call(t, srv, http.MethodPut, "/api/tasks/"+taskA, map[string]any{"completed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}
	if !store.tasks[taskA].Completed {
		t.Error("update not applied")
	}

	resp, _ = call(t, srv, http.MethodPut, "/api/tasks/"+taskA, map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty update status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodPut, "/api/tasks/"+taskA+"/position", map[string]any{"newPosition": 4})
	if resp.StatusCode != http.StatusOK || store.positions[taskA] != 4 {
		t.Errorf("position status = %d, stored = %d", resp.StatusCode, store.positions[taskA])
	}

	resp, _ = call(t, srv, http.MethodPut, "/api/tasks/"+taskA+"/position", map[string]any{"newPosition": -1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative position status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodGet, "/api/tasks/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodDelete, "/api/tasks/"+taskA, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodGet, "/api/tasks/"+taskA, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted status = %d", resp.StatusCode)
	}
}

func TestTaskListStoreFailure(t *testing.T) {
	srv, store, _ := setup(t)
	store.failWith = errors.New("(57014) canceling statement")

	resp, body := call(t, srv, http.MethodGet, "/api/tasks", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Database error fetching tasks") {
		t.Errorf("body = %s", body)
	}
}

func TestCategoryRoutes(t *testing.T) {
	srv, store, _ := setup(t)

	resp, body := call(t, srv, http.MethodPost, "/api/categories", map[string]any{"name": "Work"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}

	resp, _ = call(t, srv, http.MethodPost, "/api/categories", map[string]any{"color": "#fff"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("nameless create status = %d", resp.StatusCode)
	}

	id := catW
	store.tasks[taskA] = types.Task{ID: taskA, Title: "Report", CategoryID: &id}

	resp, body = call(t, srv, http.MethodDelete, "/api/categories/"+catW, nil)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), "tasks assigned") {
		t.Fatalf("delete in-use status = %d: %s", resp.StatusCode, body)
	}

	delete(store.tasks, taskA)
	resp, _ = call(t, srv, http.MethodDelete, "/api/categories/"+catW, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp, _ = call(t, srv, http.MethodPut, "/api/categories/"+catW, map[string]any{"name": "Job"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("update missing status = %d", resp.StatusCode)
	}
}

func TestAuthRoutes(t *testing.T) {
	srv, _, identity := setup(t)

	resp, body := call(t, srv, http.MethodPost, "/api/auth/signup", map[string]any{"email": "new@example.com", "password": "secret", "name": "New"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", resp.StatusCode, body)
	}
	if len(identity.seeded) != 1 || identity.seeded[0] != "u-new" {
		t.Errorf("seeded = %v", identity.seeded)
	}

	resp, _ = call(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@example.com", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", resp.StatusCode)
	}

	resp, body = call(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@example.com", "password": "secret"})
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"token":"tok"`) {
		t.Errorf("login status = %d: %s", resp.StatusCode, body)
	}

	resp, _ = call(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"email": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing credentials status = %d", resp.StatusCode)
	}

	resp, body = call(t, srv, http.MethodGet, "/api/auth/validate-token", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"id":"u1"`) {
		t.Errorf("validate status = %d: %s", resp.StatusCode, body)
	}

	resp, body = call(t, srv, http.MethodPost, "/api/auth/seed-categories", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "created successfully") {
		t.Errorf("seed status = %d: %s", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv, _, _ := setup(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
