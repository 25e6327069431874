package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGatewayCountsOutcomes(t *testing.T) {
	before := testutil.ToFloat64(GatewayRequests.WithLabelValues("test_op", OutcomeFailure))

	ObserveGateway("test_op", errors.New("boom"), 10*time.Millisecond)
	ObserveGateway("test_op", nil, 10*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(GatewayRequests.WithLabelValues("test_op", OutcomeFailure)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(GatewayRequests.WithLabelValues("test_op", OutcomeSuccess)), 1.0)
}

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), false, "gtm-studio", "test", &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), true, "gtm-studio", "test", &buf)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "unit-span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "unit-span")
}
