// Package submit delivers completed form responses. Intake is non-blocking:
// responses are queued and a background worker persists each one and
// forwards it to an optional webhook endpoint.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mkravets/formflow/internal/store"
	"github.com/mkravets/formflow/internal/telemetry"
)

const (
	// queueSize is the buffer size for the response queue
	queueSize = 1000

	deliveryTimeout = 10 * time.Second
)

// Dispatcher manages asynchronous delivery of completed responses.
type Dispatcher struct {
	store      store.Store
	webhookURL string
	client     *http.Client
	queue      chan store.Response
	done       chan struct{}
	closed     int32 // atomic flag gating intake and double-close
}

// NewDispatcher creates a dispatcher persisting into st and, when
// webhookURL is non-empty, forwarding each response there as JSON.
func NewDispatcher(st store.Store, webhookURL string) *Dispatcher {
	return &Dispatcher{
		store:      st,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: deliveryTimeout},
		queue:      make(chan store.Response, queueSize),
		done:       make(chan struct{}),
	}
}

// Start begins processing responses from the queue.
func (d *Dispatcher) Start() {
	go d.worker()
}

// Close gracefully shuts down the dispatcher: the queue is closed and all
// pending deliveries drain before Close returns. Safe to call multiple
// times.
func (d *Dispatcher) Close() error {
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return nil // Already closed
	}
	close(d.queue)
	<-d.done
	return nil
}

// Dispatch queues a response for delivery without blocking the caller. A
// full queue drops the response and logs; intake must never stall a form
// submission.
func (d *Dispatcher) Dispatch(response store.Response) {
	if atomic.LoadInt32(&d.closed) == 1 {
		telemetry.SubmissionsDropped.Inc()
		log.Printf("[submit] dispatcher closed, dropping response: id=%s form=%s env=%s",
			response.ID, response.FormKey, response.Env)
		return
	}
	select {
	case d.queue <- response:
		telemetry.SubmissionsQueued.Inc()
		log.Printf("[submit] response queued: id=%s form=%s env=%s queue_size=%d",
			response.ID, response.FormKey, response.Env, len(d.queue))
	default:
		telemetry.SubmissionsDropped.Inc()
		log.Printf("[submit] CRITICAL: queue full (size=%d), dropping response: id=%s form=%s env=%s",
			queueSize, response.ID, response.FormKey, response.Env)
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for response := range d.queue {
		d.deliver(response)
	}
}

func (d *Dispatcher) deliver(response store.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.store.SaveResponse(ctx, response); err != nil {
		log.Printf("[submit] failed to persist response id=%s form=%s: %v", response.ID, response.FormKey, err)
	}

	if d.webhookURL == "" {
		return
	}
	if err := d.forward(ctx, response); err != nil {
		log.Printf("[submit] webhook delivery failed id=%s url=%s: %v", response.ID, d.webhookURL, err)
	}
}

func (d *Dispatcher) forward(ctx context.Context, response store.Response) error {
	body, err := json.Marshal(response)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[submit] webhook responded %d for response id=%s", resp.StatusCode, response.ID)
	}
	return nil
}
