package handlers

import (
	"clementus360/task-manager/middleware"
	"clementus360/task-manager/supabase"
	"clementus360/task-manager/types"
	"net/http"
)

// Store is the owner-scoped persistence a request works against.
type Store interface {
	ListTasks(filter types.TaskFilter) ([]types.Task, error)
	GetTask(id string) (types.Task, error)
	CreateTask(draft types.TaskDraft) (types.Task, error)
	UpdateTask(id string, fields map[string]any) (types.Task, error)
	UpdateTaskPosition(id string, position int) error
	DeleteTask(id string) error

	ListCategories() ([]types.Category, error)
	GetCategory(id string) (types.Category, error)
	CreateCategory(category types.Category) (types.Category, error)
	UpdateCategory(id string, update types.CategoryUpdate) (types.Category, error)
	DeleteCategory(id string) error
	SeedCategories() (bool, error)
}

// Identity is the identity provider behind the auth routes.
type Identity interface {
	SignUp(creds types.Credentials) (types.AuthResponse, error)
	SignIn(email, password string) (types.AuthResponse, error)
	SignOut(token string) error
	SeedCategories(userID string) (bool, error)
}

// StoreOpener builds the store for an authenticated request.
type StoreOpener func(r *http.Request) (Store, error)

type Handler struct {
	OpenStore StoreOpener
	Identity  Identity
}

func New(identity Identity) *Handler {
	return &Handler{OpenStore: OpenSupabaseStore, Identity: identity}
}

// OpenSupabaseStore scopes a Supabase store to the caller that AuthMiddleware
// put on the request.
func OpenSupabaseStore(r *http.Request) (Store, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, supabase.ErrUnauthorized
	}
	return supabase.NewStore(middleware.TokenFromContext(r.Context()), user.ID)
}
