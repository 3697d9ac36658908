// Package engine keeps an in-memory mirror of one user's tasks and
// categories consistent with the remote store. Mutations are applied
// optimistically and rolled back when the store refuses them.
package engine

import (
	"clementus360/task-manager/client"
	"clementus360/task-manager/types"
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// User-facing failure messages.
const (
	MsgLoadTasks      = "Failed to load tasks. Please try again."
	MsgLoadCategories = "Failed to load categories. Please try again."
	MsgAddTask        = "Failed to add task. Please try again."
	MsgUpdateTask     = "Failed to update task. Please try again."
	MsgDeleteTask     = "Failed to delete task. Please try again."
	MsgAddCategory    = "Failed to add category. Please try again."
	MsgUpdateCategory = "Failed to update category. Please try again."
	MsgDeleteCategory = "Failed to delete category. Please try again."
	MsgSessionExpired = "Your session has expired. Please log in again."
)

// TaskStore is the task repository surface the engine depends on.
type TaskStore interface {
	List(ctx context.Context, filter types.TaskFilter) ([]types.Task, error)
	Create(ctx context.Context, draft types.TaskDraft) (types.Task, error)
	Update(ctx context.Context, id string, u types.TaskUpdate) (types.Task, error)
	Delete(ctx context.Context, id string) error
	UpdatePosition(ctx context.Context, id string, position int) error
}

// CategoryStore is the category repository surface the engine depends on.
// ListWithShowAll must put the "All" pseudo-category first.
type CategoryStore interface {
	ListWithShowAll(ctx context.Context) ([]types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, id string, u types.CategoryUpdate) (types.Category, error)
	Delete(ctx context.Context, id string) error
}

// Engine owns the canonical task and category lists. Callers only read
// copies and mutate through its methods.
type Engine struct {
	taskStore     TaskStore
	categoryStore CategoryStore
	log           logrus.FieldLogger
	retry         RetryPolicy
	onAuthError   func(error)

	mu         sync.RWMutex
	tasks      []types.Task
	categories []types.Category
	loading    bool
	err        error
	message    string

	persists sync.WaitGroup
}

type Option func(*Engine)

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

func WithRetry(p RetryPolicy) Option {
	return func(e *Engine) { e.retry = p }
}

// WithAuthErrorHandler registers fn to run, outside the engine lock, after
// any operation fails with a *client.AuthError.
func WithAuthErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onAuthError = fn }
}

func New(tasks TaskStore, categories CategoryStore, opts ...Option) *Engine {
	e := &Engine{
		taskStore:     tasks,
		categoryStore: categories,
		log:           logrus.StandardLogger(),
		retry:         DefaultRetryPolicy,
		tasks:         []types.Task{},
		categories:    []types.Category{types.ShowAllCategory},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadAll replaces canonical state with a fresh fetch. Tasks and categories
// are requested concurrently. A task failure leaves an empty list and a
// category failure leaves only the "All" entry; either records an error.
func (e *Engine) LoadAll(ctx context.Context, filter types.TaskFilter) {
	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	var (
		wg                  sync.WaitGroup
		tasks               []types.Task
		categories          []types.Category
		taskErr, categoryErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tasks, taskErr = e.taskStore.List(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		categories, categoryErr = e.categoryStore.ListWithShowAll(ctx)
	}()
	wg.Wait()

	e.mu.Lock()
	e.loading = false
	if categoryErr != nil {
		e.categories = []types.Category{types.ShowAllCategory}
		e.recordFailure(categoryErr, MsgLoadCategories)
	} else {
		e.categories = slices.Clone(categories)
	}
	if taskErr != nil {
		e.tasks = []types.Task{}
		e.recordFailure(taskErr, MsgLoadTasks)
	} else {
		e.tasks = sortByPosition(tasks)
	}
	e.mu.Unlock()

	if taskErr != nil {
		e.notifyAuth(taskErr)
	} else if categoryErr != nil {
		e.notifyAuth(categoryErr)
	}
}

// AddTask creates a task at the end of the list. Creation is not
// optimistic: the task appears only once the store returns it. A blank
// title is ignored without touching the store or the error.
func (e *Engine) AddTask(ctx context.Context, draft types.TaskDraft) (types.Task, bool) {
	if draft.Blank() {
		return types.Task{}, false
	}
	return execute[types.Task](ctx, e, &addTaskCommand{e: e, draft: draft}, MsgAddTask)
}

// ToggleCompletion flips a task's completed flag locally, then persists
// just that field.
func (e *Engine) ToggleCompletion(ctx context.Context, id string) bool {
	_, ok := execute[types.Task](ctx, e, &toggleCommand{e: e, id: id}, MsgUpdateTask)
	return ok
}

// UpdateTask applies a partial edit optimistically.
func (e *Engine) UpdateTask(ctx context.Context, id string, u types.TaskUpdate) bool {
	if len(u.Fields()) == 0 {
		return false
	}
	_, ok := execute[types.Task](ctx, e, &updateCommand{e: e, id: id, update: u}, MsgUpdateTask)
	return ok
}

// DeleteTask removes a task locally, then deletes it remotely. On failure
// the task is put back at its old index unless it is already present.
func (e *Engine) DeleteTask(ctx context.Context, id string) bool {
	_, ok := execute[struct{}](ctx, e, &deleteCommand{e: e, id: id}, MsgDeleteTask)
	return ok
}

func (e *Engine) AddCategory(ctx context.Context, category types.Category) (types.Category, bool) {
	return execute[types.Category](ctx, e, &addCategoryCommand{e: e, category: category}, MsgAddCategory)
}

func (e *Engine) UpdateCategory(ctx context.Context, id string, u types.CategoryUpdate) (types.Category, bool) {
	if u.Empty() || id == types.ShowAllID {
		return types.Category{}, false
	}
	return execute[types.Category](ctx, e, &updateCategoryCommand{e: e, id: id, update: u}, MsgUpdateCategory)
}

// DeleteCategory removes a category optimistically. A conflict from the
// store, such as tasks still referencing it, is surfaced verbatim.
func (e *Engine) DeleteCategory(ctx context.Context, id string) bool {
	_, ok := execute[struct{}](ctx, e, &deleteCategoryCommand{e: e, id: id}, MsgDeleteCategory)
	return ok
}

// ReorderTasks replaces the canonical order with the order of list. Only
// ids are taken from list; field values stay canonical. It is local only
// and refuses anything that is not a permutation of the current tasks.
func (e *Engine) ReorderTasks(list []types.Task) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(list) != len(e.tasks) {
		return false
	}
	byID := make(map[string]types.Task, len(e.tasks))
	for _, t := range e.tasks {
		byID[t.ID] = t
	}

	reordered := make([]types.Task, 0, len(list))
	for _, t := range list {
		canonical, ok := byID[t.ID]
		if !ok {
			return false
		}
		delete(byID, t.ID)
		reordered = append(reordered, canonical)
	}
	e.tasks = reordered
	return true
}

// MoveTask moves the task at index from to index to, shifting the tasks in
// between. It is the local half of a drag; follow it with PersistPositions.
func (e *Engine) MoveTask(from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	moved := e.tasks[from]
	tasks := slices.Delete(slices.Clone(e.tasks), from, from+1)
	e.tasks = slices.Insert(tasks, to, moved)
	return true
}

// PersistPositions stores position = index for every task between from and
// to inclusive. Each update runs in the background with retries; the local
// order is never rolled back. Wait blocks until they finish.
func (e *Engine) PersistPositions(ctx context.Context, from, to int) {
	if from > to {
		from, to = to, from
	}

	e.mu.RLock()
	from = max(from, 0)
	to = min(to, len(e.tasks)-1)
	type pending struct {
		id       string
		position int
	}
	var batch []pending
	for i := from; i <= to; i++ {
		batch = append(batch, pending{id: e.tasks[i].ID, position: i})
	}
	e.mu.RUnlock()

	for _, p := range batch {
		e.persists.Add(1)
		go func() {
			defer e.persists.Done()
			e.persistPosition(ctx, p.id, p.position)
		}()
	}
}

func (e *Engine) persistPosition(ctx context.Context, id string, position int) {
	attempts, err := e.retry.retry(ctx, permanentFailure, func() error {
		return e.taskStore.UpdatePosition(ctx, id, position)
	})

	logger := e.log.WithFields(logrus.Fields{"task": id, "position": position, "attempts": attempts})
	if err != nil {
		logger.WithError(err).Warn("giving up on task position update")
		e.notifyAuth(err)
		return
	}

	e.mu.Lock()
	if i := e.indexOf(id); i >= 0 {
		e.tasks[i].Position = position
	}
	e.mu.Unlock()
	logger.Debug("task position saved")
}

// Wait blocks until every background position update has finished.
func (e *Engine) Wait() {
	e.persists.Wait()
}

func (e *Engine) ClearError() {
	e.mu.Lock()
	e.err = nil
	e.message = ""
	e.mu.Unlock()
}

// Tasks returns a copy of the canonical task list.
func (e *Engine) Tasks() []types.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Task, len(e.tasks))
	for i, t := range e.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (e *Engine) Task(id string) (types.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i := e.indexOf(id); i >= 0 {
		return cloneTask(e.tasks[i]), true
	}
	return types.Task{}, false
}

func (e *Engine) Categories() []types.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.categories)
}

func (e *Engine) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

// Err is the error behind ErrorMessage, or nil.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

// ErrorMessage is the single surfaced error. It stays until ClearError.
func (e *Engine) ErrorMessage() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.message
}

// View filters the canonical list. See DeriveView.
func (e *Engine) View(f Filter) []types.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return DeriveView(e.tasks, e.categories, f)
}

// recordFailure must be called with mu held.
func (e *Engine) recordFailure(err error, message string) {
	var conflict *client.ConflictError
	switch {
	case client.IsAuth(err):
		message = MsgSessionExpired
	case errors.As(err, &conflict):
		message = conflict.Message
	}
	e.err = err
	e.message = message
	e.log.WithError(err).Warn(message)
}

func (e *Engine) notifyAuth(err error) {
	if e.onAuthError != nil && client.IsAuth(err) {
		e.onAuthError(err)
	}
}

// indexOf must be called with mu held.
func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.tasks, func(t types.Task) bool { return t.ID == id })
}

func (e *Engine) categoryIndex(id string) int {
	return slices.IndexFunc(e.categories, func(c types.Category) bool { return c.ID == id })
}

// permanentFailure reports errors no retry can fix.
func permanentFailure(err error) bool {
	return client.IsAuth(err) || client.IsNotFound(err) || errors.Is(err, context.Canceled)
}

// sortByPosition returns tasks ordered by ascending position. Equal
// positions keep their relative order.
func sortByPosition(tasks []types.Task) []types.Task {
	sorted := slices.Clone(tasks)
	if sorted == nil {
		sorted = []types.Task{}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

func cloneTask(t types.Task) types.Task {
	if t.CategoryID != nil {
		id := *t.CategoryID
		t.CategoryID = &id
	}
	if t.Category != nil {
		c := *t.Category
		t.Category = &c
	}
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		t.UpdatedAt = &at
	}
	return t
}
