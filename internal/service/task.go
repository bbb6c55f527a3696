package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/mutate"
	"github.com/BuzzLyutic/taskhub/internal/parser"
	"github.com/BuzzLyutic/taskhub/internal/query"
	"github.com/BuzzLyutic/taskhub/internal/repo"
	"github.com/BuzzLyutic/taskhub/internal/worker"
)

var (
	ErrValidation = errors.New("validation error")
	ErrStaleTask  = errors.New("no task at this location in the current snapshot")
)

type Option func(*TaskService)

// WithClock replaces time.Now; tests pin "today" with it.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// TaskService owns the task snapshot of the whole collection. The snapshot is
// replaced wholesale by every refresh.
type TaskService struct {
	repo   repo.DocumentStore
	pool   *worker.Pool
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	tasks     []model.Task
	scannedAt time.Time

	refreshMu  sync.Mutex
	refreshing bool
	pending    bool
}

func NewTaskService(repo repo.DocumentStore, logger *zap.Logger, workers int, opts ...Option) *TaskService {
	s := &TaskService{
		repo:   repo,
		pool:   worker.NewPool(repo, logger, workers),
		logger: logger,
		now:    time.Now,
		tasks:  []model.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanAll reads every document and extracts its tasks, in document-list order
// then line order. It does not touch the snapshot.
func (s *TaskService) ScanAll(ctx context.Context) ([]model.Task, error) {
	refs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	docs := s.pool.ReadAll(ctx, refs)
	tasks := make([]model.Task, 0)
	for _, doc := range docs {
		tasks = append(tasks, parser.Scan(doc)...)
	}

	s.logger.Debug("scan finished",
		zap.Int("documents", len(refs)),
		zap.Int("readable", len(docs)),
		zap.Int("tasks", len(tasks)),
	)
	return tasks, ctx.Err()
}

// Refresh rescans and swaps the snapshot. Scans never overlap: a call arriving
// while one is running returns false at once and the running scan repeats one
// more time before it finishes, so the change that triggered it is picked up.
// The repeat scan ignores cancellation of ctx, since it serves another caller.
func (s *TaskService) Refresh(ctx context.Context) (bool, error) {
	s.refreshMu.Lock()
	if s.refreshing {
		s.pending = true
		s.refreshMu.Unlock()
		return false, nil
	}
	s.refreshing = true
	s.refreshMu.Unlock()

	for {
		tasks, err := s.ScanAll(ctx)
		if err == nil {
			s.mu.Lock()
			s.tasks = tasks
			s.scannedAt = s.now()
			s.mu.Unlock()
		} else {
			s.logger.Error("refresh failed", zap.Error(err))
		}

		s.refreshMu.Lock()
		if !s.pending {
			s.refreshing = false
			s.refreshMu.Unlock()
			return true, err
		}
		s.pending = false
		s.refreshMu.Unlock()
		ctx = context.WithoutCancel(ctx)
	}
}

// Tasks returns a copy of the current snapshot.
func (s *TaskService) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskService) ScannedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scannedAt
}

// Query filters and sorts the snapshot.
func (s *TaskService) Query(params model.QueryParams) []model.Task {
	return query.Apply(s.Tasks(), params, s.now())
}

// Find looks a task up by its location in the current snapshot.
func (s *TaskService) Find(documentID string, line int) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.DocumentID == documentID && t.LineNumber == line {
			return t, true
		}
	}
	return model.Task{}, false
}

// ChangeTask applies a field change to a task the current snapshot knows
// about. Locations the snapshot does not hold fail with ErrStaleTask.
func (s *TaskService) ChangeTask(ctx context.Context, documentID string, line int, field model.Field, value string) (string, error) {
	task := model.Task{DocumentID: documentID, LineNumber: line}
	if err := s.validate(task, field); err != nil {
		return "", err
	}
	task, ok := s.Find(documentID, line)
	if !ok {
		return "", fmt.Errorf("%w: %s:%d", ErrStaleTask, documentID, line)
	}
	return s.ApplyFieldChange(ctx, task, field, value)
}

// ApplyFieldChange rewrites the task's line in its document and persists it.
// The snapshot is only replaced by the refresh that follows a successful write.
func (s *TaskService) ApplyFieldChange(ctx context.Context, task model.Task, field model.Field, value string) (string, error) {
	if err := s.validate(task, field); err != nil {
		return "", err
	}

	ref := model.DocumentRef{ID: task.DocumentID}
	content, err := s.repo.Read(ctx, ref)
	if err != nil {
		return "", err
	}

	updated, err := mutate.RewriteDocument(content, task.LineNumber, field, value, s.now())
	if err != nil {
		return "", fmt.Errorf("%s:%d: %w", task.DocumentID, task.LineNumber, err)
	}

	if err := s.repo.Write(ctx, ref, updated); err != nil {
		s.logger.Error("persisting field change failed",
			zap.String("document", task.DocumentID),
			zap.Int("line", task.LineNumber),
			zap.Error(err),
		)
		return "", err
	}

	line := parser.SplitLines(updated)[task.LineNumber-1]
	s.logger.Info("task updated",
		zap.String("document", task.DocumentID),
		zap.Int("line", task.LineNumber),
		zap.String("field", string(field)),
	)

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after update failed", zap.Error(err))
	}
	return line, nil
}

func (s *TaskService) validate(task model.Task, field model.Field) error {
	if strings.TrimSpace(task.DocumentID) == "" {
		return ErrValidation
	}
	if task.LineNumber < 1 {
		return ErrValidation
	}
	if strings.TrimSpace(string(field)) == "" {
		return ErrValidation
	}
	return nil
}
