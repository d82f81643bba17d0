package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LachieKelly/casino/internal/games"
)

// Metrics tracks gameplay counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	roundsTotal  *prometheus.CounterVec
	wageredTotal *prometheus.CounterVec
	payoutTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		roundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino",
			Name:      "rounds_total",
			Help:      "Settled rounds by game and result.",
		}, []string{"game", "result"}),
		wageredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino",
			Name:      "wagered_total",
			Help:      "Total stake taken in, by game.",
		}, []string{"game"}),
		payoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino",
			Name:      "payout_total",
			Help:      "Total amount paid back out, by game.",
		}, []string{"game"}),
	}
	m.registry.MustRegister(
		m.roundsTotal, m.wageredTotal, m.payoutTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordWager counts stake intake at placement time. Decimal amounts are
// rounded to float only here, at the metrics boundary.
func (m *Metrics) RecordWager(game games.Kind, stake float64) {
	m.wageredTotal.WithLabelValues(string(game)).Add(stake)
}

// RecordRound counts one settled round and its payout.
func (m *Metrics) RecordRound(game games.Kind, res games.Resolution) {
	result := "loss"
	if res.Win {
		result = "win"
	}
	m.roundsTotal.WithLabelValues(string(game), result).Inc()
	payout, _ := res.Payout.Float64()
	m.payoutTotal.WithLabelValues(string(game)).Add(payout)
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
