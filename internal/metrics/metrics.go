// Package metrics provides Prometheus metrics for earshot.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"earshot/internal/domain"
	"earshot/internal/eventbus"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earshot_commands_total",
			Help: "Commands applied by the navigator",
		},
		[]string{"command", "result"},
	)

	probeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "earshot_probe_duration_seconds",
			Help:    "Time to list a directory",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	probeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earshot_probe_failures_total",
			Help: "Failed directory listings by reason",
		},
		[]string{"kind"},
	)

	directoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "earshot_directory_entries",
			Help: "Entries in the open directory",
		},
	)

	utterancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earshot_utterances_total",
			Help: "Utterances by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	speechFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "earshot_speech_failures_total",
			Help: "Utterances the speech backend failed to speak",
		},
	)

	layoutChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earshot_layout_changes_total",
			Help: "Keyboard layout switches by target layout",
		},
		[]string{"layout"},
	)

	directoryChangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "earshot_directory_changes_total",
			Help: "On-disk changes seen in the open directory",
		},
	)
)

var outcomes = map[domain.EventType]string{
	domain.EventUtteranceStarted:     "started",
	domain.EventUtteranceCompleted:   "completed",
	domain.EventUtteranceInterrupted: "interrupted",
	domain.EventUtteranceDropped:     "dropped",
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordProbe records one directory listing.
func RecordProbe(e domain.ProbeCompletedEvent) {
	probeDuration.Observe(e.Duration.Seconds())
}

// Subscribe feeds bus events into the collectors. The returned function
// removes every subscription.
func Subscribe(bus eventbus.EventBus) func() {
	var unsubs []func()
	on := func(t domain.EventType, h eventbus.EventHandler) {
		unsubs = append(unsubs, bus.Subscribe(t, h))
	}

	on(domain.EventCommandApplied, func(ev eventbus.DomainEvent) {
		e := ev.(domain.CommandAppliedEvent)
		commandsTotal.WithLabelValues(e.Command.Kind.String(), e.Result).Inc()
	})
	on(domain.EventProbeCompleted, func(ev eventbus.DomainEvent) {
		RecordProbe(ev.(domain.ProbeCompletedEvent))
	})
	on(domain.EventProbeFailed, func(ev eventbus.DomainEvent) {
		e := ev.(domain.ProbeFailedEvent)
		kind := domain.ProbeIO
		if e.Err != nil {
			kind = e.Err.Kind
		}
		probeFailuresTotal.WithLabelValues(kind.String()).Inc()
	})
	on(domain.EventDirectoryOpened, func(ev eventbus.DomainEvent) {
		directoryEntries.Set(float64(ev.(domain.DirectoryOpenedEvent).Entries))
	})
	for t := range outcomes {
		on(t, func(ev eventbus.DomainEvent) {
			e := ev.(domain.UtteranceEvent)
			utterancesTotal.WithLabelValues(e.Category, outcomes[e.Kind]).Inc()
		})
	}
	on(domain.EventSpeechFailed, func(eventbus.DomainEvent) {
		speechFailuresTotal.Inc()
	})
	on(domain.EventLayoutChanged, func(ev eventbus.DomainEvent) {
		layoutChangesTotal.WithLabelValues(ev.(domain.LayoutChangedEvent).Layout).Inc()
	})
	on(domain.EventDirectoryChanged, func(eventbus.DomainEvent) {
		directoryChangesTotal.Inc()
	})

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, ln, log)
}

func serve(ctx context.Context, ln net.Listener, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
