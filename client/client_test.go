package client

import (
	"clementus360/task-manager/types"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// apiStub records the last request and answers with a canned response.
type apiStub struct {
	status int
	body   string

	method string
	path   string
	query  string
	auth   string
	sent   string
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.method = r.Method
	s.path = r.URL.Path
	s.query = r.URL.RawQuery
	s.auth = r.Header.Get("Authorization")
	raw, _ := io.ReadAll(r.Body)
	s.sent = string(raw)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	io.WriteString(w, s.body)
}

func newTestClient(t *testing.T, stub *apiStub, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	session := NewSession(&MemoryTokenStore{})
	if token != "" {
		if err := session.Set(token); err != nil {
			t.Fatal(err)
		}
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(srv.URL+"/api", session, WithLogger(log))
}

func TestTaskListSendsFiltersAndToken(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `[{"id":"a","title":"Report","position":1}]`}
	c := newTestClient(t, stub, "tok")

	tasks, err := c.Tasks().List(context.Background(), types.TaskFilter{Status: "active", Search: "rep"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Report" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if stub.path != "/api/tasks" || stub.query != "search=rep&status=active" {
		t.Errorf("request = %s?%s", stub.path, stub.query)
	}
	if stub.auth != "Bearer tok" {
		t.Errorf("Authorization = %q", stub.auth)
	}
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `{"id":"a","title":"Report","completed":true}`}
	c := newTestClient(t, stub, "tok")

	done := true
	if _, err := c.Tasks().Update(context.Background(), "a", types.TaskUpdate{Completed: &done}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(stub.sent), &sent); err != nil {
		t.Fatalf("body %q: %v", stub.sent, err)
	}
	if len(sent) != 1 || sent["completed"] != true {
		t.Errorf("body = %v, want only completed", sent)
	}
	if stub.method != http.MethodPut || stub.path != "/api/tasks/a" {
		t.Errorf("request = %s %s", stub.method, stub.path)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, `{"error":"Task not found"}`, IsNotFound},
		{"conflict", http.StatusConflict, `{"error":"taken"}`, IsConflict},
		{"server", http.StatusInternalServerError, `{"error":"boom"}`, func(err error) bool {
			se, ok := err.(*StoreError)
			return ok && se.Status == http.StatusInternalServerError && se.Message == "boom"
		}},
		{"non json", http.StatusBadGateway, `<html>`, func(err error) bool {
			se, ok := err.(*StoreError)
			return ok && strings.Contains(se.Message, "Bad Gateway")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &apiStub{status: tt.status, body: tt.body}
			c := newTestClient(t, stub, "tok")

			_, err := c.Tasks().Get(context.Background(), "a")
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %#v", err)
			}
		})
	}
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	stub := &apiStub{status: http.StatusUnauthorized, body: `{"error":"Invalid or expired token"}`}
	c := newTestClient(t, stub, "tok")

	err := c.Tasks().Delete(context.Background(), "a")
	if !IsAuth(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if c.Session().Authenticated() {
		t.Error("session still holds the rejected token")
	}
	if !c.Session().Expired() {
		t.Error("session not marked expired")
	}
}

func TestMissingTokenSkipsNetwork(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `[]`}
	c := newTestClient(t, stub, "")

	if _, err := c.Tasks().List(context.Background(), types.TaskFilter{}); !IsAuth(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if stub.method != "" {
		t.Errorf("request was sent: %s %s", stub.method, stub.path)
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	stub := &apiStub{status: http.StatusCreated, body: `{}`}
	c := newTestClient(t, stub, "tok")

	_, err := c.Tasks().Create(context.Background(), types.TaskDraft{Title: "   "})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if stub.method != "" {
		t.Error("request was sent")
	}
}

func TestUpdatePositionBody(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `{"message":"Task position updated successfully"}`}
	c := newTestClient(t, stub, "tok")

	if err := c.Tasks().UpdatePosition(context.Background(), "a", 3); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stub.sent) != `{"newPosition":3}` {
		t.Errorf("body = %s", stub.sent)
	}
}

func TestCategoryDeleteInUseIsConflict(t *testing.T) {
	stub := &apiStub{status: http.StatusBadRequest, body: `{"error":"Cannot delete category that has tasks assigned to it"}`}
	c := newTestClient(t, stub, "tok")

	err := c.Categories().Delete(context.Background(), "c1")
	if !IsConflict(err) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if err.Error() != "Cannot delete category that has tasks assigned to it" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCategoryDeleteBadIDStaysStoreError(t *testing.T) {
	stub := &apiStub{status: http.StatusBadRequest, body: `{"error":"Validation error","details":"Invalid category ID format"}`}
	c := newTestClient(t, stub, "tok")

	err := c.Categories().Delete(context.Background(), "not-a-uuid")
	if IsConflict(err) {
		t.Fatalf("err = %v, want StoreError", err)
	}
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %#v", err)
	}
	if !strings.Contains(storeErr.Message, "Invalid category ID format") {
		t.Errorf("message = %q", storeErr.Message)
	}
}

func TestListWithShowAll(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `[{"id":"w","name":"Work"}]`}
	c := newTestClient(t, stub, "tok")

	categories, err := c.Categories().ListWithShowAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0].ID != types.ShowAllID || categories[1].Name != "Work" {
		t.Errorf("categories = %+v", categories)
	}
}

func TestLoginStoresToken(t *testing.T) {
	stub := &apiStub{status: http.StatusOK, body: `{"user":{"id":"u1","email":"a@example.com"},"token":"fresh"}`}
	c := newTestClient(t, stub, "")

	resp, err := c.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if resp.User.ID != "u1" || c.Session().Token() != "fresh" {
		t.Errorf("resp = %+v, token = %q", resp, c.Session().Token())
	}
	if stub.auth != "" {
		t.Errorf("login sent Authorization %q", stub.auth)
	}
}

func TestBadLoginIsAuthError(t *testing.T) {
	stub := &apiStub{status: http.StatusUnauthorized, body: `{"error":"Invalid credentials"}`}
	c := newTestClient(t, stub, "")

	_, err := c.Login(context.Background(), "a@example.com", "wrong")
	if !IsAuth(err) || err.Error() != "Invalid credentials" {
		t.Fatalf("err = %v", err)
	}
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileTokenStore(path)

	token, err := store.Load()
	if err != nil || token != "" {
		t.Fatalf("Load on missing file = %q, %v", token, err)
	}

	if err := store.Save("abc"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "authToken: abc") {
		t.Errorf("file = %q", raw)
	}

	session := NewSession(store)
	if got, _ := session.Acquire(); got != "abc" {
		t.Errorf("Acquire = %q", got)
	}
	if err := session.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
}
