package rdfset

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	transactions *prometheus.CounterVec
	actions      *prometheus.CounterVec
	scopes       *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdfset_transactions_total",
			Help: "Transactions ended by flush or discard",
		}, []string{"outcome"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdfset_persistence_actions_total",
			Help: "Graph-level actions recorded in transaction logs",
		}, []string{"kind"}),
		scopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdfset_scope_pushes_total",
			Help: "Active and default graph scopes pushed by sessions",
		}, []string{"scope"}),
	}

	if registerer == nil {
		return m, nil
	}

	for _, c := range []**prometheus.CounterVec{&m.transactions, &m.actions, &m.scopes} {
		if err := registerer.Register(*c); err != nil {
			// Datasets sharing a registry share their counters
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, errors.Wrap(err, "registering dataset metrics")
			}
			existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, errors.Wrap(err, "registering dataset metrics")
			}
			*c = existing
		}
	}
	return m, nil
}
