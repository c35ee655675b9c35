package prometheus

import (
	"testing"
	"time"

	"github.com/Sathish-R02/Saa-CRM/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", StatusCategory(201))
	assert.Equal(t, "4xx", StatusCategory(404))
	assert.Equal(t, "5xx", StatusCategory(500))
	assert.Equal(t, "", StatusCategory(302))
}

func TestRecordCheckout(t *testing.T) {
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "pos_test"}})
	// second call must not panic on duplicate registration
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "pos_test"}})

	before := testutil.ToFloat64(CheckoutsCounter.WithLabelValues("success"))
	beforeAmount := testutil.ToFloat64(SalesAmountCounter)

	RecordCheckout("success", 200)
	RecordCheckout("insufficient_stock", 0)

	assert.Equal(t, before+1, testutil.ToFloat64(CheckoutsCounter.WithLabelValues("success")))
	assert.Equal(t, beforeAmount+200, testutil.ToFloat64(SalesAmountCounter))

	UpdateProductInventory(7, 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(ProductInventoryGauge.WithLabelValues("7")))

	RecordHTTPRequest("GET", "/sales", 200, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(HttpStatusCategoryTotal.WithLabelValues("2xx", "GET", "/sales")))

	beforeEvents := testutil.ToFloat64(EventsPublishedCounter.WithLabelValues("success"))
	RecordEventsPublished("success", 3)
	assert.Equal(t, beforeEvents+3, testutil.ToFloat64(EventsPublishedCounter.WithLabelValues("success")))
}
