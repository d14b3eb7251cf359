package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
)

// Members returns the active roster sorted by name
func (r *Repository) Members() []models.TeamMember {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.TeamMember, len(r.members))
	copy(out, r.members)
	return out
}

// Categories returns all categories sorted by name
func (r *Repository) Categories() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// CategoryBySlug finds a category by the URL slug of its name
func (r *Repository) CategoryBySlug(s string) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if slug.Make(c.Name) == s {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("category %q: %w", s, ErrCategoryNotFound)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func (r *Repository) memberIndex(name string) int {
	for i, m := range r.members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func (r *Repository) categoryIndex(name string) int {
	for i, c := range r.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// AddMember adds a team member to the roster
func (r *Repository) AddMember(ctx context.Context, name string) (models.TeamMember, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.TeamMember{}, err
	}

	r.mu.Lock()
	if r.memberIndex(name) >= 0 {
		r.mu.Unlock()
		return models.TeamMember{}, fmt.Errorf("team member %q: %w", name, ErrDuplicateName)
	}
	member := models.TeamMember{Name: name, CreatedAt: r.now()}
	r.members = append(r.members, member)
	sortMembers(r.members)
	r.mu.Unlock()

	if err := r.store.Members.Insert(ctx, &member); err != nil {
		r.resync(ctx, "add team member", err)
		return models.TeamMember{}, err
	}

	r.mu.Lock()
	if i := r.memberIndex(name); i >= 0 {
		r.members[i] = member
	}
	r.mu.Unlock()
	return member, nil
}

// RenameMember renames a member and every task assigned to them.
// Each referencing task is a separate single-record update.
func (r *Repository) RenameMember(ctx context.Context, from, to string) (models.TeamMember, error) {
	to, err := cleanName(to)
	if err != nil {
		return models.TeamMember{}, err
	}

	r.mu.Lock()
	i := r.memberIndex(from)
	if i < 0 {
		r.mu.Unlock()
		return models.TeamMember{}, fmt.Errorf("team member %q: %w", from, ErrMemberNotFound)
	}
	if from == to {
		m := r.members[i]
		r.mu.Unlock()
		return m, nil
	}
	if r.memberIndex(to) >= 0 {
		r.mu.Unlock()
		return models.TeamMember{}, fmt.Errorf("team member %q: %w", to, ErrDuplicateName)
	}
	r.members[i].Name = to
	member := r.members[i]
	sortMembers(r.members)
	ids := r.retagTasks(func(t *models.Task) bool {
		if t.Assignee != from {
			return false
		}
		t.Assignee = to
		return true
	})
	r.mu.Unlock()

	if err := r.store.Members.UpdateByID(ctx, member.ID, map[string]any{"name": to}); err != nil {
		r.resync(ctx, "rename team member", err)
		return models.TeamMember{}, err
	}
	if err := r.writeTaskColumn(ctx, "rename team member", ids, "assignee", to); err != nil {
		return models.TeamMember{}, err
	}
	return member, nil
}

// RemoveMember archives every task assigned to the member, then removes
// the member. Tasks are never deleted.
func (r *Repository) RemoveMember(ctx context.Context, name string) error {
	r.mu.Lock()
	i := r.memberIndex(name)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("team member %q: %w", name, ErrMemberNotFound)
	}
	member := r.members[i]
	// Trashed tasks are archived too so none of the member's tasks stay
	// visible, even though lifecycle.Archive refuses Deleted tasks.
	ids := r.retagTasks(func(t *models.Task) bool {
		if t.Assignee != name || t.IsArchived {
			return false
		}
		t.IsArchived = true
		return true
	})
	r.members = append(r.members[:i:i], r.members[i+1:]...)
	r.mu.Unlock()

	if err := r.writeTaskColumn(ctx, "remove team member", ids, "is_archived", true); err != nil {
		return err
	}
	if err := r.store.Members.DeleteByID(ctx, member.ID); err != nil {
		r.resync(ctx, "remove team member", err)
		return err
	}
	r.log.Info("team member removed", "name", name, "archived_tasks", len(ids))
	return nil
}

// AddCategory creates a category
func (r *Repository) AddCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Category{}, err
	}

	r.mu.Lock()
	if r.categoryIndex(name) >= 0 {
		r.mu.Unlock()
		return models.Category{}, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}
	category := models.Category{Name: name, CreatedAt: r.now()}
	r.categories = append(r.categories, category)
	sortCategories(r.categories)
	r.mu.Unlock()

	if err := r.store.Categories.Insert(ctx, &category); err != nil {
		r.resync(ctx, "add category", err)
		return models.Category{}, err
	}

	r.mu.Lock()
	if i := r.categoryIndex(name); i >= 0 {
		r.categories[i] = category
	}
	r.mu.Unlock()
	return category, nil
}

// EnsureCategory returns the named category, creating it on demand
func (r *Repository) EnsureCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Category{}, err
	}
	r.mu.RLock()
	i := r.categoryIndex(name)
	var existing models.Category
	if i >= 0 {
		existing = r.categories[i]
	}
	r.mu.RUnlock()
	if i >= 0 {
		return existing, nil
	}
	return r.AddCategory(ctx, name)
}

// RenameCategory renames a category and every task filed under it
func (r *Repository) RenameCategory(ctx context.Context, from, to string) (models.Category, error) {
	to, err := cleanName(to)
	if err != nil {
		return models.Category{}, err
	}

	r.mu.Lock()
	i := r.categoryIndex(from)
	if i < 0 {
		r.mu.Unlock()
		return models.Category{}, fmt.Errorf("category %q: %w", from, ErrCategoryNotFound)
	}
	if from == to {
		c := r.categories[i]
		r.mu.Unlock()
		return c, nil
	}
	if r.categoryIndex(to) >= 0 {
		r.mu.Unlock()
		return models.Category{}, fmt.Errorf("category %q: %w", to, ErrDuplicateName)
	}
	r.categories[i].Name = to
	category := r.categories[i]
	sortCategories(r.categories)
	ids := r.retagTasks(func(t *models.Task) bool {
		if t.Category != from {
			return false
		}
		t.Category = to
		return true
	})
	r.mu.Unlock()

	if err := r.store.Categories.UpdateByID(ctx, category.ID, map[string]any{"name": to}); err != nil {
		r.resync(ctx, "rename category", err)
		return models.Category{}, err
	}
	if err := r.writeTaskColumn(ctx, "rename category", ids, "category", to); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// RemoveCategory deletes a category. Tasks keep the dangling name.
func (r *Repository) RemoveCategory(ctx context.Context, name string) error {
	r.mu.Lock()
	i := r.categoryIndex(name)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("category %q: %w", name, ErrCategoryNotFound)
	}
	category := r.categories[i]
	r.categories = append(r.categories[:i:i], r.categories[i+1:]...)
	r.mu.Unlock()

	if err := r.store.Categories.DeleteByID(ctx, category.ID); err != nil {
		r.resync(ctx, "remove category", err)
		return err
	}
	return nil
}

// retagTasks edits matching cached tasks in place and returns their ids.
// Must be called with r.mu held.
func (r *Repository) retagTasks(edit func(*models.Task) bool) []uint {
	var ids []uint
	for i := range r.tasks {
		if edit(&r.tasks[i]) {
			ids = append(ids, r.tasks[i].ID)
		}
	}
	return ids
}

// writeTaskColumn writes one column to each task, stopping at the first failure
func (r *Repository) writeTaskColumn(ctx context.Context, op string, ids []uint, column string, value any) error {
	for _, id := range ids {
		if err := r.store.Tasks.UpdateByID(ctx, id, lifecycle.Columns{column: value}); err != nil {
			r.resync(ctx, op, err)
			return err
		}
	}
	return nil
}
