package engine

import (
	"clementus360/task-manager/types"
	"context"
	"slices"
)

type addTaskCommand struct {
	e     *Engine
	draft types.TaskDraft
}

func (c *addTaskCommand) apply() bool {
	highest := 0
	for _, t := range c.e.tasks {
		highest = max(highest, t.Position)
	}
	c.draft.Position = highest + 1
	return true
}

func (c *addTaskCommand) run(ctx context.Context) (types.Task, error) {
	return c.e.taskStore.Create(ctx, c.draft)
}

func (c *addTaskCommand) commit(task types.Task) {
	if c.e.indexOf(task.ID) < 0 {
		c.e.tasks = append(c.e.tasks, task)
	}
}

func (c *addTaskCommand) rollback() {}

type toggleCommand struct {
	e        *Engine
	id       string
	previous bool
}

func (c *toggleCommand) apply() bool {
	i := c.e.indexOf(c.id)
	if i < 0 {
		return false
	}
	c.previous = c.e.tasks[i].Completed
	c.e.tasks[i].Completed = !c.previous
	return true
}

func (c *toggleCommand) run(ctx context.Context) (types.Task, error) {
	next := !c.previous
	return c.e.taskStore.Update(ctx, c.id, types.TaskUpdate{Completed: &next})
}

func (c *toggleCommand) commit(server types.Task) {
	c.e.mergeTask(c.id, server)
}

func (c *toggleCommand) rollback() {
	if i := c.e.indexOf(c.id); i >= 0 {
		c.e.tasks[i].Completed = c.previous
	}
}

// updateCommand edits several fields at once. Rollback only reverts while
// the task still shows this command's edits, so a failed edit never undoes
// a later one that already landed.
type updateCommand struct {
	e        *Engine
	id       string
	update   types.TaskUpdate
	snapshot types.Task
	applied  types.Task
}

func (c *updateCommand) apply() bool {
	i := c.e.indexOf(c.id)
	if i < 0 {
		return false
	}
	c.snapshot = cloneTask(c.e.tasks[i])
	c.update.Apply(&c.e.tasks[i])
	c.applied = cloneTask(c.e.tasks[i])
	return true
}

func (c *updateCommand) run(ctx context.Context) (types.Task, error) {
	return c.e.taskStore.Update(ctx, c.id, c.update)
}

func (c *updateCommand) commit(server types.Task) {
	c.e.mergeTask(c.id, server)
}

func (c *updateCommand) rollback() {
	i := c.e.indexOf(c.id)
	if i < 0 || !sameEdits(c.e.tasks[i], c.applied) {
		return
	}
	t := &c.e.tasks[i]
	t.Title = c.snapshot.Title
	t.Description = c.snapshot.Description
	t.Priority = c.snapshot.Priority
	t.Completed = c.snapshot.Completed
	t.CategoryID = c.snapshot.CategoryID
}

type deleteCommand struct {
	e       *Engine
	id      string
	removed types.Task
	index   int
}

func (c *deleteCommand) apply() bool {
	i := c.e.indexOf(c.id)
	if i < 0 {
		return false
	}
	c.removed = c.e.tasks[i]
	c.index = i
	c.e.tasks = slices.Delete(slices.Clone(c.e.tasks), i, i+1)
	return true
}

func (c *deleteCommand) run(ctx context.Context) (struct{}, error) {
	return struct{}{}, c.e.taskStore.Delete(ctx, c.id)
}

func (c *deleteCommand) commit(struct{}) {}

func (c *deleteCommand) rollback() {
	if c.e.indexOf(c.id) >= 0 {
		return
	}
	at := min(c.index, len(c.e.tasks))
	c.e.tasks = slices.Insert(c.e.tasks, at, c.removed)
}

type addCategoryCommand struct {
	e        *Engine
	category types.Category
}

func (c *addCategoryCommand) apply() bool { return true }

func (c *addCategoryCommand) run(ctx context.Context) (types.Category, error) {
	return c.e.categoryStore.Create(ctx, c.category)
}

func (c *addCategoryCommand) commit(created types.Category) {
	if c.e.categoryIndex(created.ID) < 0 {
		c.e.categories = append(c.e.categories, created)
	}
}

func (c *addCategoryCommand) rollback() {}

type updateCategoryCommand struct {
	e      *Engine
	id     string
	update types.CategoryUpdate
}

func (c *updateCategoryCommand) apply() bool {
	return c.e.categoryIndex(c.id) >= 0
}

func (c *updateCategoryCommand) run(ctx context.Context) (types.Category, error) {
	return c.e.categoryStore.Update(ctx, c.id, c.update)
}

func (c *updateCategoryCommand) commit(updated types.Category) {
	if i := c.e.categoryIndex(c.id); i >= 0 {
		c.e.categories[i] = updated
	}
}

func (c *updateCategoryCommand) rollback() {}

type deleteCategoryCommand struct {
	e       *Engine
	id      string
	removed types.Category
	index   int
}

func (c *deleteCategoryCommand) apply() bool {
	if c.id == types.ShowAllID {
		return false
	}
	i := c.e.categoryIndex(c.id)
	if i < 0 {
		return false
	}
	c.removed = c.e.categories[i]
	c.index = i
	c.e.categories = slices.Delete(slices.Clone(c.e.categories), i, i+1)
	return true
}

func (c *deleteCategoryCommand) run(ctx context.Context) (struct{}, error) {
	return struct{}{}, c.e.categoryStore.Delete(ctx, c.id)
}

func (c *deleteCategoryCommand) commit(struct{}) {}

func (c *deleteCategoryCommand) rollback() {
	if c.e.categoryIndex(c.id) >= 0 {
		return
	}
	at := min(c.index, len(c.e.categories))
	c.e.categories = slices.Insert(c.e.categories, at, c.removed)
}

// mergeTask overlays the server's copy of a task onto the local one. The
// local position is kept, as is the embedded category when the server omits
// it and it still matches the server's category id. A task deleted meanwhile
// stays deleted.
func (e *Engine) mergeTask(id string, server types.Task) {
	i := e.indexOf(id)
	if i < 0 || server.ID == "" {
		return
	}
	local := e.tasks[i]
	server.Position = local.Position
	if server.Category == nil && local.Category != nil && server.CategoryID != nil && local.Category.ID == *server.CategoryID {
		server.Category = local.Category
	}
	e.tasks[i] = server
}

func sameEdits(a, b types.Task) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Priority == b.Priority &&
		a.Completed == b.Completed &&
		sameCategory(a.CategoryID, b.CategoryID)
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
