package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/museums", "200"))

	RecordAPIRequest("POST", "/museums", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/museums", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordDBOperationCountsErrors(t *testing.T) {
	errs := DBOperationErrors.WithLabelValues("find", "museums")
	before := testutil.ToFloat64(errs)

	RecordDBOperation("find", "museums", time.Now(), nil)
	assert.Equal(t, before, testutil.ToFloat64(errs))

	RecordDBOperation("find", "museums", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}
