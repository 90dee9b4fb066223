package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"
	repo "tasksApp/internal/repository"
)

// TaskStorage keeps tasks in insertion order. Every read and write goes through copies,
// so callers may mutate returned tasks freely.
type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		nextID:  1,
		now:     time.Now,
	}
}

func (s *TaskStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.filter(ctx, func(*task.Task) bool { return true })
}

func (s *TaskStorage) FindByOpenStatus(ctx context.Context, open bool) ([]*task.Task, error) {
	return s.filter(ctx, func(t *task.Task) bool { return t.IsTaskOpen == open })
}

func (s *TaskStorage) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.NotFoundError(id)
	}
	return stored.Clone(), nil
}

// Save inserts when t.ID is zero and updates otherwise. The returned task carries the
// generated id and timestamps.
func (s *TaskStorage) Save(ctx context.Context, t *task.Task) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if owner, taken := s.descriptionOwner(t.Description); taken && owner != t.ID {
		return nil, fmt.Errorf("%w: description %q", repo.ErrDuplicate, t.Description)
	}

	now := s.now()
	if t.ID == 0 {
		saved := t.Clone()
		saved.ID = s.nextID
		saved.CreatedDate = now
		saved.LastModifiedDate = now
		s.nextID++

		s.storage[saved.ID] = saved
		s.ids = append(s.ids, saved.ID)
		logger.Debug("Repository: task inserted")
		return saved.Clone(), nil
	}

	existing, ok := s.storage[t.ID]
	if !ok {
		return nil, repo.NotFoundError(t.ID)
	}

	saved := t.Clone()
	saved.CreatedDate = existing.CreatedDate
	saved.LastModifiedDate = now
	s.storage[saved.ID] = saved
	return saved.Clone(), nil
}

func (s *TaskStorage) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.NotFoundError(id)
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStorage) filter(ctx context.Context, keep func(*task.Task) bool) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if keep(t) {
			res = append(res, t.Clone())
		}
	}
	return res, nil
}

// descriptionOwner must be called with the lock held.
func (s *TaskStorage) descriptionOwner(description string) (int64, bool) {
	for id, t := range s.storage {
		if t.Description == description {
			return id, true
		}
	}
	return 0, false
}
