package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/parser"
	"github.com/BuzzLyutic/taskhub/internal/repo"
)

// Pool reads documents with a fixed number of concurrent readers.
type Pool struct {
	store  repo.DocumentStore
	logger *zap.Logger
	count  int
}

func NewPool(store repo.DocumentStore, logger *zap.Logger, count int) *Pool {
	if count < 1 {
		count = 1
	}
	return &Pool{
		store:  store,
		logger: logger,
		count:  count,
	}
}

// ReadAll returns the readable documents among refs in the order of refs.
// Unreadable documents are logged and skipped.
func (p *Pool) ReadAll(ctx context.Context, refs []model.DocumentRef) []model.Document {
	results := make([]*model.Document, len(refs))
	jobs := make(chan int)

	workers := min(p.count, len(refs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.worker(ctx, i, refs, jobs, results, &wg)
	}

feed:
	for i := range refs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	docs := make([]model.Document, 0, len(refs))
	for _, d := range results {
		if d != nil {
			docs = append(docs, *d)
		}
	}
	return docs
}

func (p *Pool) worker(ctx context.Context, id int, refs []model.DocumentRef, jobs <-chan int, results []*model.Document, wg *sync.WaitGroup) {
	defer wg.Done()

	for idx := range jobs {
		ref := refs[idx]
		text, err := p.store.Read(ctx, ref)
		if err != nil {
			p.logger.Warn("skipping unreadable document",
				zap.Int("worker", id),
				zap.String("document", ref.ID),
				zap.Error(err),
			)
			continue
		}
		results[idx] = &model.Document{Ref: ref, Lines: parser.SplitLines(text)}
	}
}
