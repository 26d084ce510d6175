package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Stats is a point-in-time view of dispatcher counters.
type Stats struct {
	Queued int    `json:"queued"`
	Sent   uint64 `json:"sent"`
	Failed uint64 `json:"failed"`
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
// Jobs of one chat always land on the same worker, so they run in enqueue order.
type Dispatcher struct {
	opts   Options
	queues []chan job
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	mu     sync.RWMutex
	sent   atomic.Uint64
	errs   atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts:   opts,
		queues: make([]chan job, opts.Workers),
		stop:   make(chan struct{}),
	}

	perWorker := opts.QueueSize / opts.Workers
	if perWorker < 1 {
		perWorker = 1
	}
	d.wg.Add(opts.Workers)
	for i := range d.queues {
		d.queues[i] = make(chan job, perWorker)
		go d.worker(d.queues[i])
	}

	return d
}

// Enqueue schedules the provided function for asynchronous execution.
// The chat id stored in ctx selects the worker. The run closure must be
// idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	j := job{
		ctx:      ctx,
		action:   action,
		endpoint: endpoint,
		run:      run,
	}

	select {
	case d.queues[d.shard(ctx)] <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) shard(ctx context.Context) int {
	if len(d.queues) == 1 || ctx == nil {
		return 0
	}
	id := logger.ChatIDFrom(ctx)
	if id < 0 {
		id = -id
	}
	return int(id % int64(len(d.queues)))
}

// Stats returns current queue depth and completion counters.
func (d *Dispatcher) Stats() Stats {
	queued := 0
	for _, q := range d.queues {
		queued += len(q)
	}
	return Stats{Queued: queued, Sent: d.sent.Load(), Failed: d.errs.Load()}
}

// Close stops workers and waits for them to finish processing queued jobs.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		close(d.stop)
		for _, q := range d.queues {
			close(q)
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker(jobs <-chan job) {
	defer d.wg.Done()
	for j := range jobs {
		d.handleJob(j)
	}
}

// handleJob runs j until it succeeds, fails permanently, exhausts its
// retries or outlives MaxDuration. Request metadata (rid, chat_id, ...) is
// picked up by the log handler from j.ctx.
func (d *Dispatcher) handleJob(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	deadline, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	logger.Debug(ctx, "tg.sender", "send.start", j.attrs()...)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = j.run(); err == nil {
			d.sent.Add(1)
			level := slog.LevelDebug
			if attempt > 1 {
				level = slog.LevelInfo
			}
			logger.Event(ctx, "tg.sender", level, "send.success",
				append(j.attrs(), slog.Int("attempt", attempt), slog.Duration("elapsed", time.Since(start)))...)
			return
		}
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}
		delay := d.backoff(attempt, err)
		if werr := sleep(deadline, delay); werr != nil {
			err = werr
			break
		}
		logger.Debug(ctx, "tg.sender", "send.retry",
			append(j.attrs(), slog.Int("attempt", attempt), slog.Duration("delay", delay))...)
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail",
		append(j.attrs(),
			slog.Any("error", err),
			slog.String("error_kind", classifyError(err)),
			slog.Int("attempts", attempts),
			slog.Duration("elapsed", time.Since(start)),
		)...)
}

// backoff grows linearly with the attempt number and never undercuts a
// retry_after reported by Telegram.
func (d *Dispatcher) backoff(attempt int, err error) time.Duration {
	delay := d.opts.RetryBackoff * time.Duration(attempt)
	if wait := netutil.RetryAfter(err); wait > delay {
		return wait
	}
	return delay
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (j job) attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return attrs
}

// classifyError buckets err into a short kind used for alerting on send failures.
func classifyError(err error) string {
	var (
		flood  tele.FloodError
		apiErr *tele.Error
		dnsErr *net.DNSError
		opErr  *net.OpError
		netErr net.Error
		alert  tls.AlertError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &flood):
		return "flood"
	case errors.As(err, &apiErr):
		if apiErr.Code >= http.StatusInternalServerError {
			return "http_5xx"
		}
		return "http_4xx"
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return "dial"
	case errors.As(err, &alert):
		return "tls"
	}
	return "unknown"
}
