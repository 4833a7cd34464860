package routesource

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/common/validation"
	"service-gateway/internal/routing"
)

// ReloadListener observes every completed reload attempt. table is nil when
// err is set.
type ReloadListener func(source string, table *routing.Table, err error)

// Status summarises the reload history
type Status struct {
	Source     string    `json:"source"`
	Generation uint64    `json:"generation"`
	Services   int       `json:"services"`
	Reloads    int64     `json:"reloads"`
	Failures   int64     `json:"failures"`
	LastReload time.Time `json:"last_reload,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Schedule   string    `json:"schedule,omitempty"`
}

// Subscriber opens a pub/sub subscription
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (*redis.PubSub, error)
}

// Reloader loads documents from a Source into a Store. Concurrent Reload
// calls share one load.
type Reloader struct {
	source  Source
	store   *routing.Store
	timeout time.Duration
	group   singleflight.Group
	logger  logging.Logger

	mu        sync.Mutex
	listeners []ReloadListener
	status    Status
	scheduler *cron.Cron
}

// NewReloader creates a reloader. timeout bounds a single load; zero means
// 30 seconds.
func NewReloader(source Source, store *routing.Store, timeout time.Duration) *Reloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Reloader{
		source:  source,
		store:   store,
		timeout: timeout,
		logger:  logging.GetGlobalLogger().WithFields(logging.String("component", "route_reloader")),
		status:  Status{Source: source.Name()},
	}
}

// Source returns the configured source
func (r *Reloader) Source() Source {
	return r.source
}

// OnReload registers fn for every completed reload attempt
func (r *Reloader) OnReload(fn ReloadListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload loads the source and publishes the result. A failed load leaves the
// current table in place. Callers arriving while a load is in flight receive
// its result.
func (r *Reloader) Reload(ctx context.Context) (*routing.Table, error) {
	v, err, shared := r.group.Do("reload", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.reload(loadCtx)
	})
	if shared {
		r.logger.WithContext(ctx).Debug("Joined in-flight route reload")
	}
	if err != nil {
		return nil, err
	}
	return v.(*routing.Table), nil
}

func (r *Reloader) reload(ctx context.Context) (*routing.Table, error) {
	start := time.Now()
	name := r.source.Name()

	doc, err := r.source.Load(ctx)
	var table *routing.Table
	if err == nil {
		table, err = r.store.Replace(doc)
		if err != nil {
			err = &errors.AppError{Type: errors.ErrTypeConfig, Message: "route document rejected", Cause: err}
		}
	}

	r.mu.Lock()
	r.status.Reloads++
	if err != nil {
		r.status.Failures++
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		r.status.LastReload = time.Now()
		r.status.Generation = table.Generation()
		r.status.Services = table.Len()
	}
	listeners := append([]ReloadListener(nil), r.listeners...)
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("Route reload failed", err,
			logging.String("source", name),
			logging.Duration("duration", time.Since(start)),
		)
	} else {
		r.logger.Info("Routes reloaded",
			logging.String("source", name),
			logging.Int64("generation", int64(table.Generation())),
			logging.Int("services", table.Len()),
			logging.Duration("duration", time.Since(start)),
		)
	}

	for _, fn := range listeners {
		fn(name, table, err)
	}
	return table, err
}

// Status returns a copy of the reload history
func (r *Reloader) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// StartSchedule reloads on the given cron expression until StopSchedule.
// Standard five-field expressions and descriptors such as "@every 5m" are
// accepted.
func (r *Reloader) StartSchedule(spec string) error {
	if err := validation.ValidateVar(spec, "required,cron_expression"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler != nil {
		return errors.ConfigError("route reload schedule already running")
	}

	c := cron.New(cron.WithParser(validation.CronParser))
	if _, err := c.AddFunc(spec, func() {
		_, _ = r.Reload(context.Background())
	}); err != nil {
		return errors.ConfigError("invalid reload schedule: " + err.Error())
	}
	c.Start()

	r.scheduler = c
	r.status.Schedule = spec
	r.logger.Info("Scheduled route reloads", logging.String("schedule", spec))
	return nil
}

// StopSchedule stops scheduled reloads and waits for a running one to finish
// or for ctx to end
func (r *Reloader) StopSchedule(ctx context.Context) {
	r.mu.Lock()
	c := r.scheduler
	r.scheduler = nil
	r.status.Schedule = ""
	r.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// Watch reloads whenever a message arrives on channel. It returns when ctx
// ends or the subscription closes.
func (r *Reloader) Watch(ctx context.Context, sub Subscriber, channel string) error {
	ps, err := sub.Subscribe(ctx, channel)
	if err != nil {
		return err
	}
	defer ps.Close()

	r.logger.Info("Watching for route reload notifications", logging.String("channel", channel))

	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.logger.Debug("Route reload notification received",
				logging.String("channel", msg.Channel),
				logging.String("payload", msg.Payload),
			)
			_, _ = r.Reload(ctx)
		}
	}
}
