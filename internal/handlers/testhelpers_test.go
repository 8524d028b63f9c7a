package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/umutak/deskmate/internal/blob"
	"github.com/umutak/deskmate/internal/models"
)

var errFake = errors.New("store unavailable")

// fakeTodoRepo is an in-memory TodoRepositoryInterface with error injection.
type fakeTodoRepo struct {
	mu    sync.Mutex
	todos []*models.Todo
	err   error
}

func (f *fakeTodoRepo) List(ctx context.Context) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Todo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.todos {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("todo not found")
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *todo
	f.todos = append(f.todos, &cp)
	return nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, t := range f.todos {
		if t.ID == todo.ID {
			cp := *todo
			f.todos[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("todo not found")
}

func (f *fakeTodoRepo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, t := range f.todos {
		if t.ID == id {
			t.Completed = completed
			return nil
		}
	}
	return fmt.Errorf("todo not found")
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("todo not found")
}

func (f *fakeTodoRepo) completed(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.todos {
		if t.ID == id {
			return t.Completed
		}
	}
	return false
}

// fakeReminderRepo is an in-memory ReminderRepositoryInterface with error
// injection.
type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders []*models.Reminder
	err       error
}

func (f *fakeReminderRepo) List(ctx context.Context) ([]*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Reminder, len(f.reminders))
	copy(out, f.reminders)
	return out, nil
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, rem := range f.reminders {
		if rem.ID == id {
			cp := *rem
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("reminder not found")
}

func (f *fakeReminderRepo) Create(ctx context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *reminder
	f.reminders = append(f.reminders, &cp)
	return nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, rem := range f.reminders {
		if rem.ID == reminder.ID {
			cp := *reminder
			f.reminders[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("reminder not found")
}

func (f *fakeReminderRepo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, rem := range f.reminders {
		if rem.ID == id {
			rem.Completed = completed
			return nil
		}
	}
	return fmt.Errorf("reminder not found")
}

func (f *fakeReminderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, rem := range f.reminders {
		if rem.ID == id {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("reminder not found")
}

func (f *fakeReminderRepo) completed(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rem := range f.reminders {
		if rem.ID == id {
			return rem.Completed
		}
	}
	return false
}

// fakeNoteRepo is an in-memory NoteRepositoryInterface.
type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []*models.Note
	err   error
}

func (f *fakeNoteRepo) List(ctx context.Context) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Note, len(f.notes))
	copy(out, f.notes)
	return out, nil
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *note
	f.notes = append(f.notes, &cp)
	return nil
}

func (f *fakeNoteRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, n := range f.notes {
		if n.ID == id {
			n.Content = content
			return nil
		}
	}
	return fmt.Errorf("note not found")
}

func (f *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note not found")
}

// fakePlanRepo is an in-memory PlanRepositoryInterface.
type fakePlanRepo struct {
	mu    sync.Mutex
	plans []*models.Plan
	err   error
}

func (f *fakePlanRepo) List(ctx context.Context) ([]*models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Plan, len(f.plans))
	copy(out, f.plans)
	return out, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.plans {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("plan not found")
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *models.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *plan
	f.plans = append(f.plans, &cp)
	return nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *models.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, p := range f.plans {
		if p.ID == plan.ID {
			cp := *plan
			f.plans[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("plan not found")
}

func (f *fakePlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, p := range f.plans {
		if p.ID == id {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("plan not found")
}

// fakeAttachmentRepo is an in-memory AttachmentRepositoryInterface.
type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments []*models.Attachment
	err         error
}

func (f *fakeAttachmentRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Attachment
	for _, a := range f.attachments {
		if a.PlanID == planID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.attachments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("attachment not found")
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *a
	f.attachments = append(f.attachments, &cp)
	return nil
}

func (f *fakeAttachmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, a := range f.attachments {
		if a.ID == id {
			f.attachments = append(f.attachments[:i], f.attachments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("attachment not found")
}

// fakeBlobStore records puts and deletes in memory.
type fakeBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, filename string, r io.Reader) (*blob.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	url := blob.URLPrefix + uuid.New().String() + "-" + filename
	f.blobs[url] = data
	return &blob.Object{URL: url, Size: int64(len(data))}, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, url)
	f.deleted = append(f.deleted, url)
	return nil
}
