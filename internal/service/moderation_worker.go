package service

import (
	"context"
	"log"
	"sync"
	"time"

	"statbot/internal/model"
	"statbot/internal/repository"
)

// ModerationWorker accepts moderation events for archiving.
type ModerationWorker interface {
	Enqueue(event model.ModerationEvent)
	Shutdown()
}

type batchModerationWorker struct {
	repo          repository.ModerationRepository
	eventQueue    chan model.ModerationEvent
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewBatchModerationWorker starts a worker that writes events to repo in
// batches of batchSize, or every interval if fewer are pending.
func NewBatchModerationWorker(repo repository.ModerationRepository, bufferSize int, batchSize int, interval time.Duration) *batchModerationWorker {
	worker := &batchModerationWorker{
		repo:          repo,
		eventQueue:    make(chan model.ModerationEvent, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue blocks when the buffer is full. Events arriving after Shutdown are
// dropped.
func (w *batchModerationWorker) Enqueue(event model.ModerationEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		log.Printf("[WARN] moderation worker stopped, dropping %s event", event.Action)
		return
	}
	w.eventQueue <- event
}

// Shutdown stops accepting events and waits for pending ones to be written.
func (w *batchModerationWorker) Shutdown() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	log.Println("[INFO] moderation worker shutting down, draining queue")
	w.closed = true
	close(w.eventQueue)
	w.mu.Unlock()

	w.wg.Wait()
	log.Println("[INFO] moderation worker stopped")
}

func (w *batchModerationWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.ModerationEvent
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.eventQueue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchModerationWorker) bulkInsert(events []model.ModerationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(events) == 1 {
		if err := w.repo.Create(ctx, events[0]); err != nil {
			log.Printf("[ERROR] moderation insert failed: %v", err)
		}
		return
	}

	if err := w.repo.CreateBatch(ctx, events); err != nil {
		log.Printf("[ERROR] moderation batch insert failed: %v", err)
		return
	}
	log.Printf("[INFO] %d moderation events flushed", len(events))
}

// discardWorker is used when no moderation store is configured.
type discardWorker struct{}

// NewDiscardWorker returns a worker that drops every event.
func NewDiscardWorker() ModerationWorker {
	return discardWorker{}
}

func (discardWorker) Enqueue(model.ModerationEvent) {}

func (discardWorker) Shutdown() {}
