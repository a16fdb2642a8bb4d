package database

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// PoolCollector exports pgxpool statistics as Prometheus gauges.
type PoolCollector struct {
	db *PostgresDB

	totalConns    *prometheus.Desc
	idleConns     *prometheus.Desc
	acquiredConns *prometheus.Desc
	maxConns      *prometheus.Desc
	acquireCount  *prometheus.Desc
	emptyAcquire  *prometheus.Desc
}

func NewPoolCollector(db *PostgresDB) *PoolCollector {
	return &PoolCollector{
		db:            db,
		totalConns:    prometheus.NewDesc("db_pool_total_conns", "Total connections in the pool", nil, nil),
		idleConns:     prometheus.NewDesc("db_pool_idle_conns", "Idle connections in the pool", nil, nil),
		acquiredConns: prometheus.NewDesc("db_pool_acquired_conns", "Connections currently acquired", nil, nil),
		maxConns:      prometheus.NewDesc("db_pool_max_conns", "Configured maximum pool size", nil, nil),
		acquireCount:  prometheus.NewDesc("db_pool_acquire_total", "Cumulative successful acquires", nil, nil),
		emptyAcquire:  prometheus.NewDesc("db_pool_empty_acquire_total", "Acquires that had to wait for a connection", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.acquiredConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.emptyAcquire
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.db.Pool == nil {
		return
	}
	s := c.db.Pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
}

// MonitorPoolHealth logs a warning when pool utilization stays high. Run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if db.Pool == nil {
				continue
			}
			s := db.Pool.Stat()
			if s.MaxConns() == 0 {
				continue
			}
			utilization := float64(s.AcquiredConns()) / float64(s.MaxConns()) * 100
			if utilization > 80 {
				log.Warn().
					Float64("utilization_pct", utilization).
					Int32("acquired", s.AcquiredConns()).
					Int32("max", s.MaxConns()).
					Msg("high database pool utilization")
			}
		case <-ctx.Done():
			return
		}
	}
}
