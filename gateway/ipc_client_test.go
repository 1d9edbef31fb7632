package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIPCServer speaks just enough of the openLCA JSON-RPC protocol
// for the client tests.
type fakeIPCServer struct {
	descriptors map[string][]map[string]string // @type -> rows
	entities    map[string]string              // @id -> name
	stateCalls  int
	disposed    []string
}

func (f *fakeIPCServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int64           `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var params map[string]any
		_ = json.Unmarshal(req.Params, &params)

		var result any
		switch req.Method {
		case "about":
			result = map[string]string{"name": "openLCA IPC"}
		case "data/get/descriptors":
			result = f.descriptors[params["@type"].(string)]
		case "data/get":
			result = map[string]string{"name": f.entities[params["@id"].(string)]}
		case "result/calculate":
			result = map[string]any{"@id": "result-1", "isReady": false}
		case "result/state":
			f.stateCalls++
			result = map[string]any{"@id": "result-1", "isReady": f.stateCalls >= 2}
		case "result/total-impacts":
			result = []map[string]any{
				{
					"impactCategory": map[string]string{"name": "Climate change", "refUnit": "kg CO2 eq"},
					"amount":         1.93,
				},
			}
		case "result/dispose":
			f.disposed = append(f.disposed, params["@id"].(string))
			result = map[string]string{}
		default:
			http.Error(w, "unknown method "+req.Method, http.StatusBadRequest)
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}
}

func newTestClient(t *testing.T, fake *fakeIPCServer) *IPCClient {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client := NewIPCClient(NewRegistry([]DatabaseConfig{
		{ID: "elcd", Name: "ELCD", Endpoint: server.URL},
	}))
	client.pollInterval = time.Millisecond
	return client
}

func TestSearchProcesses_SubstringFilter(t *testing.T) {
	fake := &fakeIPCServer{descriptors: map[string][]map[string]string{
		"Process": {
			{"@id": "p1", "name": "Glass fibre production", "category": "materials", "location": "EU"},
			{"@id": "p2", "name": "Steel, hot rolled", "category": "materials", "location": "EU"},
			{"@id": "p3", "name": "glass wool insulation", "category": "materials", "location": "DE"},
		},
	}}
	client := newTestClient(t, fake)

	refs, err := client.SearchProcesses(context.Background(), "elcd", "GLASS", 10)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "p1", refs[0].ID)
	assert.Equal(t, "p3", refs[1].ID)
}

func TestSearchProcesses_LimitApplied(t *testing.T) {
	fake := &fakeIPCServer{descriptors: map[string][]map[string]string{
		"Process": {
			{"@id": "p1", "name": "glass a"},
			{"@id": "p2", "name": "glass b"},
			{"@id": "p3", "name": "glass c"},
		},
	}}
	client := newTestClient(t, fake)

	refs, err := client.SearchProcesses(context.Background(), "elcd", "glass", 2)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestSearchProcesses_NoMatchesReturnsEmptyNotError(t *testing.T) {
	fake := &fakeIPCServer{descriptors: map[string][]map[string]string{
		"Process": {{"@id": "p1", "name": "Steel, hot rolled"}},
	}}
	client := newTestClient(t, fake)

	refs, err := client.SearchProcesses(context.Background(), "elcd", "unobtainium", 10)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSearch_UnknownDatabase(t *testing.T) {
	client := newTestClient(t, &fakeIPCServer{})

	_, err := client.SearchProcesses(context.Background(), "nope", "glass", 10)
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "nope", gwErr.DatabaseID)
}

func TestCalculate_PollsUntilReadyAndDisposes(t *testing.T) {
	fake := &fakeIPCServer{
		descriptors: map[string][]map[string]string{},
		entities: map[string]string{
			"ps-7":   "Glass fibre, at plant",
			"m-ilcd": "ILCD 2011 Midpoint+",
		},
	}
	client := newTestClient(t, fake)

	result, err := client.Calculate(context.Background(), "elcd", TargetProductSystem, "ps-7", 2.0, "m-ilcd")
	require.NoError(t, err)

	assert.Equal(t, "Glass fibre, at plant", result.TargetName)
	assert.Equal(t, TargetProductSystem, result.TargetKind)
	assert.Equal(t, "ILCD 2011 Midpoint+", result.ImpactMethod)
	assert.Equal(t, 2.0, result.Amount)
	require.Len(t, result.Impacts, 1)
	assert.Equal(t, "Climate change", result.Impacts[0].Category)
	assert.Equal(t, "kg CO2 eq", result.Impacts[0].Unit)

	assert.GreaterOrEqual(t, fake.stateCalls, 2)
	assert.Equal(t, []string{"result-1"}, fake.disposed)

	// goal and scope metadata is inferred alongside the numbers
	assert.NotEmpty(t, result.GoalScope.FunctionalUnit)
	assert.Equal(t, 2.0, result.GoalScope.Amount)
}

func TestIsAvailable(t *testing.T) {
	client := newTestClient(t, &fakeIPCServer{})

	assert.True(t, client.IsAvailable(context.Background(), "elcd"))
	assert.False(t, client.IsAvailable(context.Background(), "unregistered"))
}

func TestIsAvailable_OfflineServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewIPCClient(NewRegistry([]DatabaseConfig{
		{ID: "elcd", Name: "ELCD", Endpoint: server.URL},
	}))
	server.Close()

	assert.False(t, client.IsAvailable(context.Background(), "elcd"))
}
