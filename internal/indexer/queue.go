package indexer

import (
	"context"
	"log"
	"sync"
	"time"

	"hrchat/internal/vectordb"
)

const (
	defaultQueueSize = 256
	taskTimeout      = 30 * time.Second
	maxAttempts      = 3
)

// Task is one index maintenance unit: refresh or remove the embedding for a
// single entity.
type Task struct {
	OrgID    string
	Type     vectordb.DocumentType
	EntityID string
	Delete   bool
}

// Queue decouples index maintenance from the entity write path. Writers
// enqueue and return immediately; a single worker drains the queue, retrying
// transient failures so index staleness stays bounded instead of silently
// dropped. When the buffer is full the task is dropped with a log line; the
// next full reindex repairs the gap.
type Queue struct {
	indexer *Indexer
	tasks   chan Task
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewQueue starts the worker and returns the queue. size <= 0 uses the
// default buffer.
func NewQueue(ix *Indexer, size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	q := &Queue{
		indexer: ix,
		tasks:   make(chan Task, size),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Enqueue hands off a task without blocking the caller.
func (q *Queue) Enqueue(task Task) {
	select {
	case q.tasks <- task:
	default:
		log.Printf("indexer: queue full, dropping %s %s (org %s)", task.Type, task.EntityID, task.OrgID)
	}
}

// ChangeFunc adapts Enqueue to the hr.Store mutation callback.
func (q *Queue) ChangeFunc() func(orgID string, t vectordb.DocumentType, entityID string, deleted bool) {
	return func(orgID string, t vectordb.DocumentType, entityID string, deleted bool) {
		q.Enqueue(Task{OrgID: orgID, Type: t, EntityID: entityID, Delete: deleted})
	}
}

// Close stops accepting tasks and waits for the worker to drain.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.process(task)
	}
}

func (q *Queue) process(task Task) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		if task.Delete {
			lastErr = q.indexer.store.DeleteByLogicalKey(ctx, task.OrgID, task.Type, task.EntityID)
		} else {
			lastErr = q.indexer.EmbedOne(ctx, task.OrgID, task.Type, task.EntityID)
		}
		cancel()

		if lastErr == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	log.Printf("indexer: giving up on %s %s after %d attempts: %v", task.Type, task.EntityID, maxAttempts, lastErr)
}
