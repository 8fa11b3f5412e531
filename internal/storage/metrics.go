package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "website"

var sessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: metricsNamespace,
	Name:      "sessions",
	Help:      "Number of app sessions",
})

var poolGauges = [...]struct {
	name, help string
	value      func(*pgxpool.Stat) int64
}{
	{
		"acquire_count", "Cumulative count of successful acquires from the pool",
		(*pgxpool.Stat).AcquireCount,
	},
	{
		"canceled_acquire_count", "Cumulative count of acquires canceled by a context",
		(*pgxpool.Stat).CanceledAcquireCount,
	},
	{
		"acquired_conns", "Number of currently acquired connections",
		func(s *pgxpool.Stat) int64 { return int64(s.AcquiredConns()) },
	},
	{
		"idle_conns", "Number of currently idle connections",
		func(s *pgxpool.Stat) int64 { return int64(s.IdleConns()) },
	},
	{
		"total_conns", "Number of connections currently in the pool",
		func(s *pgxpool.Stat) int64 { return int64(s.TotalConns()) },
	},
	{
		"max_conns", "Maximum size of the pool",
		func(s *pgxpool.Stat) int64 { return int64(s.MaxConns()) },
	},
}

// RegisterMetrics registers the sessions gauge and pool gauges, which read
// pool stats at scrape time.
func (s *Storage) RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(sessionsGauge)
	for _, g := range poolGauges {
		r.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "pgx",
			Name:      g.name,
			Help:      g.help,
		}, func() float64 { return float64(g.value(s.db.Stat())) }))
	}
}

// Metrics counts sessions if fromDB. Pool gauges don't need it.
func (s *Storage) Metrics(ctx context.Context, fromDB bool) error {
	if !fromDB {
		return nil
	}
	n, err := s.CountSessions(ctx)
	if err != nil {
		return err
	}
	sessionsGauge.Set(float64(n))
	return nil
}
