package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sagarc03/camupload"
	"github.com/sagarc03/camupload/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RequestHandled(t *testing.T) {
	c := metrics.NewCollector()

	c.RequestHandled(camupload.MethodPost, http.StatusOK)
	c.RequestHandled(camupload.MethodPost, http.StatusOK)
	c.RequestHandled(camupload.MethodGet, http.StatusOK)

	count, err := testutil.GatherAndCount(c.Registry(), "camupload_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per method/code pair")
}

func TestCollector_UploadStored(t *testing.T) {
	c := metrics.NewCollector()

	c.UploadStored("site1", "cam7", 100)
	c.UploadStored("site1", "cam7", 50)
	c.UploadStored("site2", "cam1", 0)

	count, err := testutil.GatherAndCount(c.Registry(), "camupload_uploads_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `camupload_uploads_total{camera="cam7",site="site1"} 2`)
	assert.Contains(t, body, `camupload_stored_bytes_total 150`)
}

func TestCollector_UploadRejected(t *testing.T) {
	c := metrics.NewCollector()

	c.UploadRejected(metrics.ReasonAuth)
	c.UploadRejected(metrics.ReasonContentType)
	c.UploadRejected(metrics.ReasonContentType)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `camupload_uploads_rejected_total{reason="auth"} 1`)
	assert.Contains(t, body, `camupload_uploads_rejected_total{reason="content_type"} 2`)
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := metrics.NewCollector()
	b := metrics.NewCollector()

	a.UploadRejected(metrics.ReasonStorage)

	count, err := testutil.GatherAndCount(b.Registry(), "camupload_uploads_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
