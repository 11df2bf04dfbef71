package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quotes_total", Help: "Quote requests issued against the orderbook service"},
		[]string{"result"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders posted to the orderbook service"},
		[]string{"direction", "result"},
	)
	SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swaps_total", Help: "Swap submissions driven through the form controller"},
		[]string{"result"},
	)
	TransactionsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "transactions_sent_total", Help: "Transactions sent to the chain"},
	)
	AirdropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "airdrops_total", Help: "Test-token airdrops requested"},
		[]string{"token"},
	)
)

func init() {
	prometheus.MustRegister(QuotesTotal, OrdersTotal, SwapsTotal, TransactionsSentTotal, AirdropsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
