package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// inquiriesCreated counts inserted inquiries by entry point (form|consultation).
	inquiriesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_created_total",
			Help: "Total number of inquiries persisted.",
		},
		[]string{"source"},
	)

	// inquiriesDeleted counts delete requests by whether a row was removed.
	inquiriesDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_deleted_total",
			Help: "Total number of inquiry delete requests.",
		},
		[]string{"result"},
	)

	// storeBackend is 1 for the backend chosen at startup.
	storeBackend = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inquiry_store_backend",
			Help: "Storage backend serving inquiries (1 = active).",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(inquiriesCreated, inquiriesDeleted, storeBackend)
}
