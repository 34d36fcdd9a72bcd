package observability_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/adapters/memory"
	"github.com/weftkit/weft/pkg/observability"
)

func declareCounter(t *testing.T) *weft.Component {
	t.Helper()
	engine := weft.New()

	state, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{
			"count": 0,
			"increment": func() {
				n, _ := tools.Read()["count"].(int)
				tools.Write(map[string]any{"count": n + 1})
			},
		}
	}, weft.WithName("counter"))
	require.NoError(t, err)

	component, err := engine.Component("counter", state)
	require.NoError(t, err)
	return component
}

func getJSON(t *testing.T, server *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	srv := observability.NewServer([]*weft.Component{declareCounter(t)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body map[string]string
	status := getJSON(t, ts, "/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_ListComponents(t *testing.T) {
	srv := observability.NewServer([]*weft.Component{declareCounter(t)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body struct {
		Components []string `json:"components"`
	}
	status := getJSON(t, ts, "/components", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"counter"}, body.Components)
}

func TestServer_Shape(t *testing.T) {
	srv := observability.NewServer([]*weft.Component{declareCounter(t)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var body struct {
		Component  string                       `json:"component"`
		Namespaces map[string]map[string]string `json:"namespaces"`
	}
	status := getJSON(t, ts, "/components/counter/shape", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "counter", body.Component)
	assert.Equal(t, "value", body.Namespaces["state"]["count"])
	assert.Equal(t, "method", body.Namespaces["state"]["increment"])
}

func TestServer_UnknownComponent(t *testing.T) {
	srv := observability.NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	status := getJSON(t, ts, "/components/ghost/shape", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInstrument_CountsAssembliesAndReads(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	component := observability.Instrument(declareCounter(t), metrics)

	instance, err := component.Assemble(memory.NewStore())
	require.NoError(t, err)

	_, err = instance.Get("state.count")
	require.NoError(t, err)
	_, err = instance.Get("state.count")
	require.NoError(t, err)

	srv := observability.NewServer(nil, observability.WithGatherer(registry))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	exposition, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(exposition), `weft_assembly_total{component="counter"} 1`)
	assert.Contains(t, string(exposition), `weft_instance_reads_total{component="counter"} 2`)
}

func TestInstrument_CountsFailures(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	component := observability.Instrument(declareCounter(t), metrics)

	_, err := component.Assemble(nil)
	require.Error(t, err)

	srv := observability.NewServer(nil, observability.WithGatherer(registry))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	exposition, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(exposition), `weft_assembly_failures_total{component="counter"} 1`)
}
