package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/interaction"
)

func TestObserverCounts(t *testing.T) {
	o := NewObserver("ph", "test-counts")

	o.ObserveRequest(interaction.Observation{Token: "read", Outcome: "ok", Device: 900 * time.Millisecond, Total: time.Second})
	o.ObserveRequest(interaction.Observation{Token: "read", Outcome: "sensor_trouble", Device: time.Millisecond, Total: 2 * time.Millisecond})
	o.ObserveRequest(interaction.Observation{Outcome: "command_parse", Total: time.Microsecond})

	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("ph", "test-counts", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("ph", "test-counts", "sensor_trouble")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("ph", "test-counts", "command_parse")))
}

func TestRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	Register(reg)

	NewObserver("ec", "test-register").ObserveRequest(interaction.Observation{Token: "read", Outcome: "ok", Device: time.Millisecond})

	n, err := testutil.GatherAndCount(reg, "probenet_responder_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `probenet_responder_device_duration_seconds_count{family="ec",sensor="test-register"} 1`))
}
