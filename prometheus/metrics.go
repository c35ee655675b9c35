package prometheus

import (
	"strconv"
	"sync"
	"time"

	"github.com/Sathish-R02/Saa-CRM/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Status code category counter (2xx, 4xx, 5xx)
	HttpStatusCategoryTotal *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// CRUD operations on customers, products and suppliers
	RecordOperationsCounter *prometheus.CounterVec

	// Checkout metrics
	CheckoutsCounter   *prometheus.CounterVec
	SalesAmountCounter prometheus.Counter

	// Inventory metrics
	ProductInventoryGauge *prometheus.GaugeVec

	// Outbox relay metrics
	EventsPublishedCounter *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the service metrics with the default registry.
// Calling it more than once is a no-op.
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		prefix := cfg.Metrics.Prefix

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		HttpStatusCategoryTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category", "method", "path"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		RecordOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_record_operations_total",
				Help: "Total number of customer, product and supplier operations",
			},
			[]string{"entity", "operation"},
		)

		CheckoutsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkouts_total",
				Help: "Total number of checkout attempts by outcome",
			},
			[]string{"outcome"},
		)

		SalesAmountCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sales_amount_total",
				Help: "Sum of all committed sale totals",
			},
		)

		ProductInventoryGauge = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_inventory",
				Help: "Current inventory level for products",
			},
			[]string{"product_id"},
		)

		EventsPublishedCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_events_published_total",
				Help: "Total number of outbox events written to Kafka by outcome",
			},
			[]string{"outcome"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())

	if category := StatusCategory(status); category != "" {
		HttpStatusCategoryTotal.WithLabelValues(category, method, path).Inc()
	}
}

// StatusCategory maps a status code to "2xx", "4xx" or "5xx", or "" for anything else
func StatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// RecordOperation increments the counter for a CRUD operation on entity
func RecordOperation(entity, operation string) {
	if RecordOperationsCounter == nil {
		return
	}
	RecordOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordCheckout increments the checkout counter for outcome. amount is
// added to the sales total for successful checkouts.
func RecordCheckout(outcome string, amount float64) {
	if CheckoutsCounter == nil {
		return
	}
	CheckoutsCounter.WithLabelValues(outcome).Inc()
	if outcome == "success" && amount > 0 {
		SalesAmountCounter.Add(amount)
	}
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID uint, stock int) {
	if ProductInventoryGauge == nil {
		return
	}
	ProductInventoryGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10)).Set(float64(stock))
}

// RecordEventsPublished adds n events to the relay counter for outcome
func RecordEventsPublished(outcome string, n int) {
	if EventsPublishedCounter == nil {
		return
	}
	EventsPublishedCounter.WithLabelValues(outcome).Add(float64(n))
}
