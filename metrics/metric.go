package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/namada-hub/block-hub/logging"
)

var (
	BlockRequestDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "block_requests_duration_seconds",
		Help:    "Duration of block query requests by route.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"route"})

	TxDecodeFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tx_decode_failures_total",
		Help: "Transactions whose payload failed to decode and fell back to the generic label.",
	})

	TxRecordsMissingCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tx_records_missing_total",
		Help: "Tx index entries omitted because the full record was not persisted yet.",
	})

	EpochCacheHitsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "epoch_cache_hits_total",
		Help: "Epoch lookups answered from the local cache instead of the node.",
	})

	MetricsItems = []prometheus.Collector{
		BlockRequestDurationHistogram,
		TxDecodeFailuresCounter,
		TxRecordsMissingCounter,
		EpochCacheHitsCounter,
	}
)

const DefaultMetricsAddress = "0.0.0.0:9090"

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	if address == "" {
		address = DefaultMetricsAddress
	}
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) serve() {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: router,
	}
	if err := m.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}
