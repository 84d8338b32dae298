package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func newTestMetrics(t *testing.T, detailed bool) *Metrics {
	t.Helper()
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	m, err := NewMetrics(provider.Meter("test"), detailed)
	require.NoError(t, err)
	return m
}

func TestNewMetrics(t *testing.T) {
	m := newTestMetrics(t, false)
	assert.NotNil(t, m.apiOperationsTotal)
	assert.NotNil(t, m.apiOperationDuration)
	assert.NotNil(t, m.oauthAuthTotal)
	assert.NotNil(t, m.oauthTokenRefreshTotal)
	assert.NotNil(t, m.attachmentBytesTotal)
}

func TestRecordAPIOperation(t *testing.T) {
	m := newTestMetrics(t, false)

	// Recording must not panic for any status value.
	ctx := context.Background()
	m.RecordAPIOperation(ctx, "messages.list", StatusSuccess, 120*time.Millisecond)
	m.RecordAPIOperation(ctx, "messages.send", StatusError, 0)
	m.RecordAPIOperationWithAccount(ctx, "messages.get", StatusSuccess, "work", time.Second)
}

func TestRecordOnZeroValueMetricsIsNoop(t *testing.T) {
	// A disabled provider hands out the zero value; recording must be safe.
	m := &Metrics{}
	ctx := context.Background()

	m.RecordAPIOperation(ctx, "messages.list", StatusSuccess, time.Second)
	m.RecordAPIOperationWithAccount(ctx, "messages.get", StatusSuccess, "work", time.Second)
	m.RecordOAuthAuth(ctx, "success")
	m.RecordOAuthTokenRefresh(ctx, "failure")
	m.RecordAttachmentBytes(ctx, 1024)
	m.Timed(ctx, "messages.list", time.Now(), nil)
}

func TestTimedDerivesStatus(t *testing.T) {
	m := newTestMetrics(t, false)
	ctx := context.Background()

	// Timed with and without error must both record without panicking.
	m.Timed(ctx, "messages.list", time.Now(), nil)
	m.Timed(ctx, "messages.list", time.Now(), errors.New("quota exceeded"))
}
