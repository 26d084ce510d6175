package logger

import (
	"errors"
	"io"
	"sync"
)

// request is either a log line or, when ack is set, a flush barrier.
type request struct {
	line []byte
	ack  chan error
}

// asyncWriter fans log lines out to its sinks from a single goroutine.
// Lines and flushes share one queue, so Flush returns only after every
// line written before it reached the sinks.
type asyncWriter struct {
	queue chan request
	done  chan struct{}
	sinks []io.Writer

	// closeMu orders Write against Close so nothing is sent on a closed queue.
	closeMu sync.RWMutex
	closed  bool

	mu  sync.Mutex
	err error
}

var errWriterClosed = errors.New("logger: writer closed")

func newAsyncWriter(writers []io.Writer, queueSize int) *asyncWriter {
	if queueSize <= 0 {
		queueSize = 256
	}
	sinks := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, w)
		}
	}
	aw := &asyncWriter{
		queue: make(chan request, queueSize),
		done:  make(chan struct{}),
		sinks: sinks,
	}
	go aw.loop()
	return aw
}

func (w *asyncWriter) loop() {
	defer close(w.done)
	for req := range w.queue {
		if req.ack != nil {
			req.ack <- w.Err()
			continue
		}
		w.setErr(w.writeAll(req.line))
	}
}

// Write copies p and queues it. It blocks while the queue is full rather than drop lines.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.Err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		return errWriterClosed
	}
	w.queue <- request{line: append([]byte(nil), p...)}
	return nil
}

// Flush waits until every previously written line reached the sinks.
func (w *asyncWriter) Flush() error {
	w.closeMu.RLock()
	if w.closed {
		w.closeMu.RUnlock()
		return w.Err()
	}
	ack := make(chan error, 1)
	w.queue <- request{ack: ack}
	w.closeMu.RUnlock()
	return <-ack
}

// Close drains the queue and reports the first write error.
func (w *asyncWriter) Close() error {
	w.closeMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.closeMu.Unlock()
	<-w.done
	return w.Err()
}

// writeAll keeps writing to the remaining sinks when one fails.
func (w *asyncWriter) writeAll(p []byte) error {
	var errs []error
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Err returns the first write error, if any.
func (w *asyncWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *asyncWriter) setErr(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
