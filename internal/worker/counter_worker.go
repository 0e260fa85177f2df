package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"lexportal/internal/event"
	"lexportal/internal/repository"
)

// CounterWorker consumes document counter events and applies them as atomic
// column increments, keeping the read/download paths free of writes.
type CounterWorker struct {
	conn      *amqp.Connection
	repo      *repository.DocumentRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCounterWorker(conn *amqp.Connection, repo *repository.DocumentRepository, queueName string) *CounterWorker {
	return &CounterWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *CounterWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var evt event.CounterEvent
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					log.Printf("worker decode counter event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.apply(evt); err != nil {
					log.Printf("worker apply counter event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *CounterWorker) apply(evt event.CounterEvent) error {
	var column string
	switch evt.Counter {
	case event.CounterView:
		column = "view_count"
	case event.CounterDownload:
		column = "download_count"
	case event.CounterFavorite:
		column = "favorite_count"
	default:
		return fmt.Errorf("unknown counter %q", evt.Counter)
	}
	return w.repo.IncrementCounter(evt.DocumentID, column)
}

func (w *CounterWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
