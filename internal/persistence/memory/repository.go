// Package memory stores the lift log in process memory for local
// development and unit tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/liftlog/internal/domain"
)

// Repository is an in-memory implementation of domain.Repository. It
// mirrors the transactional semantics of the Postgres repository: each
// mutating method applies its row writes and counter updates under one
// lock acquisition.
type Repository struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	types     map[string]domain.ExerciseType
	classes   map[string]domain.ExerciseClass
	exercises map[string]domain.Exercise
	records   map[string]domain.PRRecord
	comments  map[string]domain.Comment
	audit     []domain.AuthEvent

	seq       int64            // insertion order for exercises and records
	insertion map[string]int64 // entity id -> seq
}

// NewRepository constructs a repository seeded with the shared rep-scheme
// classes.
func NewRepository() *Repository {
	repo := &Repository{
		users:     make(map[string]domain.User),
		types:     make(map[string]domain.ExerciseType),
		classes:   make(map[string]domain.ExerciseClass),
		exercises: make(map[string]domain.Exercise),
		records:   make(map[string]domain.PRRecord),
		comments:  make(map[string]domain.Comment),
		insertion: make(map[string]int64),
	}
	repo.seedClasses()
	return repo
}

func (r *Repository) seedClasses() {
	for _, reps := range []int{1, 3, 5, 8, 10, 12} {
		id := uuid.NewString()
		r.classes[id] = domain.ExerciseClass{ID: id, Label: fmt.Sprintf("%d reps", reps), Reps: reps}
	}
}

// AddClass registers an extra rep-scheme class; tests use it to exercise
// degenerate rep counts.
func (r *Repository) AddClass(label string, reps int) domain.ExerciseClass {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	c := domain.ExerciseClass{ID: id, Label: label, Reps: reps}
	r.classes[id] = c
	return c
}

// CreateUser implements domain.Repository.
func (r *Repository) CreateUser(ctx context.Context, user domain.User, seedTypes []domain.ExerciseType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
		}
	}
	r.users[user.ID] = user
	for _, et := range seedTypes {
		r.types[et.ID] = et
	}
	return nil
}

// GetUser implements domain.Repository.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// GetUserByUsername implements domain.Repository.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// LastExerciseDate implements domain.Repository.
func (r *Repository) LastExerciseDate(ctx context.Context, userID string) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *time.Time
	for _, ex := range r.exercises {
		if ex.UserID != userID {
			continue
		}
		d := ex.Date
		if last == nil || d.After(*last) {
			last = &d
		}
	}
	return last, nil
}

// ListTypes implements domain.Repository.
func (r *Repository) ListTypes(ctx context.Context, userID string) ([]domain.ExerciseType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var types []domain.ExerciseType
	for _, et := range r.types {
		if et.UserID == userID {
			types = append(types, et)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// GetType implements domain.Repository.
func (r *Repository) GetType(ctx context.Context, id string) (*domain.ExerciseType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if et, ok := r.types[id]; ok {
		return &et, nil
	}
	return nil, nil
}

// CreateType implements domain.Repository.
func (r *Repository) CreateType(ctx context.Context, t domain.ExerciseType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.ID] = t
	return nil
}

// DeleteTypeCascade implements domain.Repository.
func (r *Repository) DeleteTypeCascade(ctx context.Context, typeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	et, ok := r.types[typeID]
	if !ok {
		return 0, fmt.Errorf("%w: exercise type %s", domain.ErrNotFound, typeID)
	}

	removed := 0
	for id, ex := range r.exercises {
		if ex.TypeID != typeID {
			continue
		}
		r.deleteCommentsLocked(id)
		delete(r.exercises, id)
		removed++
	}
	for id, rec := range r.records {
		if rec.TypeID == typeID {
			delete(r.records, id)
		}
	}
	delete(r.types, typeID)

	owner := r.users[et.UserID]
	owner.ExerciseCount -= removed
	r.users[et.UserID] = owner
	return removed, nil
}

// deleteCommentsLocked removes an exercise's comments and settles the
// authors' counters. Callers hold the write lock.
func (r *Repository) deleteCommentsLocked(exerciseID string) {
	for id, c := range r.comments {
		if c.ExerciseID != exerciseID {
			continue
		}
		author := r.users[c.UserID]
		author.CommentCount--
		r.users[c.UserID] = author
		delete(r.comments, id)
	}
}

// GetClass implements domain.Repository.
func (r *Repository) GetClass(ctx context.Context, id string) (*domain.ExerciseClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.classes[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// ListClasses implements domain.Repository.
func (r *Repository) ListClasses(ctx context.Context) ([]domain.ExerciseClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	classes := make([]domain.ExerciseClass, 0, len(r.classes))
	for _, c := range r.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Reps < classes[j].Reps })
	return classes, nil
}

// CreateExercise implements domain.Repository.
func (r *Repository) CreateExercise(ctx context.Context, ex domain.Exercise, record domain.PRRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.exercises[ex.ID] = ex
	r.insertion[ex.ID] = r.seq
	r.records[record.ID] = record
	r.insertion[record.ID] = r.seq

	owner := r.users[ex.UserID]
	owner.ExerciseCount++
	r.users[ex.UserID] = owner
	return nil
}

// GetExercise implements domain.Repository.
func (r *Repository) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ex, ok := r.exercises[id]; ok {
		return &ex, nil
	}
	return nil, nil
}

// UpdateExercise implements domain.Repository.
func (r *Repository) UpdateExercise(ctx context.Context, ex domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.exercises[ex.ID]
	if !ok {
		return fmt.Errorf("%w: exercise %s", domain.ErrNotFound, ex.ID)
	}
	current.TypeID = ex.TypeID
	current.Weight = ex.Weight
	current.Date = ex.Date
	current.Note = ex.Note
	r.exercises[ex.ID] = current
	return nil
}

// DeleteExercise implements domain.Repository.
func (r *Repository) DeleteExercise(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ex, ok := r.exercises[id]
	if !ok {
		return fmt.Errorf("%w: exercise %s", domain.ErrNotFound, id)
	}
	r.deleteCommentsLocked(id)
	delete(r.exercises, id)

	owner := r.users[ex.UserID]
	owner.ExerciseCount--
	r.users[ex.UserID] = owner
	return nil
}

// ListByOwner implements domain.Repository.
func (r *Repository) ListByOwner(ctx context.Context, userID string, typeID *string) ([]domain.ExerciseEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []domain.ExerciseEntry
	for _, ex := range r.exercises {
		if ex.UserID != userID {
			continue
		}
		if typeID != nil && ex.TypeID != *typeID {
			continue
		}
		entries = append(entries, r.entryLocked(ex))
	}
	r.sortEntries(entries)
	return entries, nil
}

// ListPublic implements domain.Repository.
func (r *Repository) ListPublic(ctx context.Context) ([]domain.ExerciseEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []domain.ExerciseEntry
	for _, ex := range r.exercises {
		if ex.Public {
			entries = append(entries, r.entryLocked(ex))
		}
	}
	r.sortEntries(entries)
	return entries, nil
}

func (r *Repository) entryLocked(ex domain.Exercise) domain.ExerciseEntry {
	entry := domain.ExerciseEntry{Exercise: ex}
	entry.Username = r.users[ex.UserID].Username
	entry.TypeName = r.types[ex.TypeID].Name
	if ex.ClassID != nil {
		if c, ok := r.classes[*ex.ClassID]; ok {
			label := c.Label
			entry.ClassLabel = &label
		}
	}
	return entry
}

func (r *Repository) sortEntries(entries []domain.ExerciseEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return r.insertion[entries[i].ID] > r.insertion[entries[j].ID]
	})
}

// ListComments implements domain.Repository.
func (r *Repository) ListComments(ctx context.Context, exerciseID string) ([]domain.CommentEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []domain.CommentEntry
	for _, c := range r.comments {
		if c.ExerciseID != exerciseID {
			continue
		}
		entries = append(entries, domain.CommentEntry{Comment: c, Username: r.users[c.UserID].Username})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

// AddComment implements domain.Repository.
func (r *Repository) AddComment(ctx context.Context, c domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ex, ok := r.exercises[c.ExerciseID]
	if !ok {
		return fmt.Errorf("%w: exercise %s", domain.ErrNotFound, c.ExerciseID)
	}
	r.comments[c.ID] = c

	ex.CommentCount++
	r.exercises[ex.ID] = ex

	author := r.users[c.UserID]
	author.CommentCount++
	r.users[c.UserID] = author
	return nil
}

// GroupStats implements domain.Repository.
func (r *Repository) GroupStats(ctx context.Context, userID string) ([]domain.GroupStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		typeName string
		label    string
	}
	groups := make(map[key]*domain.GroupStat)
	for _, ex := range r.exercises {
		if ex.UserID != userID {
			continue
		}
		k := key{typeName: r.types[ex.TypeID].Name}
		var label *string
		if ex.ClassID != nil {
			if c, ok := r.classes[*ex.ClassID]; ok {
				l := c.Label
				label = &l
				k.label = l
			}
		}
		gs, ok := groups[k]
		if !ok {
			gs = &domain.GroupStat{TypeName: k.typeName, ClassLabel: label}
			groups[k] = gs
		}
		if ex.Weight > gs.MaxWeight {
			gs.MaxWeight = ex.Weight
		}
		gs.LiftCount++
		if ex.Date.After(gs.LastDate) {
			gs.LastDate = ex.Date
		}
	}

	stats := make([]domain.GroupStat, 0, len(groups))
	for _, gs := range groups {
		stats = append(stats, *gs)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TypeName != stats[j].TypeName {
			return stats[i].TypeName < stats[j].TypeName
		}
		li, lj := "", ""
		if stats[i].ClassLabel != nil {
			li = *stats[i].ClassLabel
		}
		if stats[j].ClassLabel != nil {
			lj = *stats[j].ClassLabel
		}
		return li < lj
	})
	return stats, nil
}

// LatestRecords implements domain.Repository.
func (r *Repository) LatestRecords(ctx context.Context, userID string) ([]domain.PRRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[string]domain.PRRecord)
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		current, ok := latest[rec.TypeID]
		if !ok {
			latest[rec.TypeID] = rec
			continue
		}
		if rec.Date.After(current.Date) ||
			(rec.Date.Equal(current.Date) && r.insertion[rec.ID] > r.insertion[current.ID]) {
			latest[rec.TypeID] = rec
		}
	}

	records := make([]domain.PRRecord, 0, len(latest))
	for _, rec := range latest {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return r.types[records[i].TypeID].Name < r.types[records[j].TypeID].Name
	})
	return records, nil
}

// ListRecords implements domain.Repository.
func (r *Repository) ListRecords(ctx context.Context, userID string) ([]domain.PRRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []domain.PRRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return r.insertion[records[i].ID] > r.insertion[records[j].ID]
	})
	return records, nil
}

// RecordAuthEvent implements domain.Repository.
func (r *Repository) RecordAuthEvent(ctx context.Context, ev domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = append(r.audit, ev)
	return nil
}

// AuthEvents returns the recorded audit trail; tests inspect it.
func (r *Repository) AuthEvents() []domain.AuthEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AuthEvent, len(r.audit))
	copy(out, r.audit)
	return out
}
