package supabase

import (
	"clementus360/task-manager/types"

	"github.com/supabase-community/supabase-go"
)

// Store binds a token-scoped client to the user it belongs to, so every query
// it issues carries the ownership predicate.
type Store struct {
	client *supabase.Client
	userID string
}

func NewStore(token, userID string) (*Store, error) {
	client, err := ClientWithToken(token)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, userID: userID}, nil
}

func (s *Store) ListTasks(filter types.TaskFilter) ([]types.Task, error) {
	return ListTasks(s.client, s.userID, filter)
}

func (s *Store) GetTask(id string) (types.Task, error) {
	return GetTask(s.client, s.userID, id)
}

func (s *Store) CreateTask(draft types.TaskDraft) (types.Task, error) {
	return InsertTask(s.client, s.userID, draft)
}

func (s *Store) UpdateTask(id string, fields map[string]any) (types.Task, error) {
	return UpdateTask(s.client, s.userID, id, fields)
}

func (s *Store) UpdateTaskPosition(id string, position int) error {
	return UpdateTaskPosition(s.client, s.userID, id, position)
}

func (s *Store) DeleteTask(id string) error {
	return DeleteTask(s.client, s.userID, id)
}

func (s *Store) ListCategories() ([]types.Category, error) {
	return ListCategories(s.client, s.userID)
}

func (s *Store) GetCategory(id string) (types.Category, error) {
	return GetCategory(s.client, s.userID, id)
}

func (s *Store) CreateCategory(category types.Category) (types.Category, error) {
	return InsertCategory(s.client, s.userID, category)
}

func (s *Store) UpdateCategory(id string, update types.CategoryUpdate) (types.Category, error) {
	return UpdateCategory(s.client, s.userID, id, update)
}

func (s *Store) DeleteCategory(id string) error {
	return DeleteCategory(s.client, s.userID, id)
}

func (s *Store) SeedCategories() (bool, error) {
	return SeedCategories(s.client, s.userID)
}
