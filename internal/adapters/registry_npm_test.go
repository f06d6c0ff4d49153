package adapters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lodashDocument = `{
  "name": "lodash",
  "dist-tags": {"latest": "4.17.21", "beta": null},
  "versions": {"4.17.20": {}, "4.17.21": {}, "5.0.0-rc.1": {}},
  "time": {
    "created": "2012-04-23T16:37:12.603Z",
    "4.17.21": "2021-02-20T15:42:16.891Z",
    "4.17.20": "2020-08-13T16:53:54.152Z",
    "modified": "2024-01-01T00:00:00.000Z"
  }
}`

func TestNpmRegistryAdapterFetch(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(lodashDocument))
	}))
	defer server.Close()

	adapter := NewNpmRegistryAdapter(server.URL+"/", "secret", time.Second, 1, time.Millisecond)
	catalog, err := adapter.Fetch(t.Context(), "lodash")
	require.NoError(t, err)

	assert.Equal(t, "/lodash", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "lodash", catalog.Name)
	assert.Equal(t, map[string]string{"latest": "4.17.21"}, catalog.DistTags)
	if diff := cmp.Diff([]string{"4.17.21", "4.17.20", "5.0.0-rc.1"}, catalog.Versions); diff != "" {
		t.Fatalf("unexpected version order (-want +got):\n%s", diff)
	}
	assert.Equal(t, time.Date(2021, 2, 20, 15, 42, 16, 891000000, time.UTC), catalog.ReleaseTimes["4.17.21"])
	_, known := catalog.ReleaseTimes["5.0.0-rc.1"]
	assert.False(t, known)
}

func TestNpmRegistryAdapterSkipsUnpublishedRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "dist-tags": {"latest": "1.0.0"},
  "versions": {"1.0.0": {}},
  "time": {
    "created": "2020-01-01T00:00:00.000Z",
    "1.0.0": "2020-01-02T00:00:00.000Z",
    "unpublished": {"time": "2021-01-01T00:00:00.000Z", "versions": ["1.1.0"]},
    "modified": "2021-01-01T00:00:00.000Z"
  }
}`))
	}))
	defer server.Close()

	adapter := NewNpmRegistryAdapter(server.URL, "", time.Second, 1, time.Millisecond)
	catalog, err := adapter.Fetch(t.Context(), "withdrawn")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"1.0.0"}, catalog.Versions); diff != "" {
		t.Fatalf("unexpected versions (-want +got):\n%s", diff)
	}
	assert.Len(t, catalog.ReleaseTimes, 1)
}

func TestNpmRegistryAdapterScopedPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"dist-tags":{"latest":"20.1.0"},"time":{"20.1.0":"2023-05-01T00:00:00Z"}}`))
	}))
	defer server.Close()

	adapter := NewNpmRegistryAdapter(server.URL, "", time.Second, 1, time.Millisecond)
	_, err := adapter.Fetch(t.Context(), "@types/node")
	require.NoError(t, err)
	assert.Equal(t, "/@types%2Fnode", gotPath)
}

func TestNpmRegistryAdapterMissingTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dist-tags":{"latest":"1.0.0"},"versions":{"1.0.0":{}}}`))
	}))
	defer server.Close()

	adapter := NewNpmRegistryAdapter(server.URL, "", time.Second, 1, time.Millisecond)
	catalog, err := adapter.Fetch(t.Context(), "no-time")
	require.NoError(t, err)
	assert.Nil(t, catalog.ReleaseTimes)
	assert.Equal(t, []string{"1.0.0"}, catalog.Versions)
}

func TestNpmRegistryAdapterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errbuilder.ErrCode
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"Not found"}`, code: errbuilder.CodeNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: "denied", code: errbuilder.CodeInternal},
		{name: "invalid json", status: http.StatusOK, body: "{", code: errbuilder.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			adapter := NewNpmRegistryAdapter(server.URL, "", time.Second, 1, time.Millisecond)
			_, err := adapter.Fetch(t.Context(), "pkg")
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

func TestNpmRegistryAdapterRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"dist-tags":{"latest":"1.0.0"},"time":{"1.0.0":"2020-01-01T00:00:00Z"}}`))
	}))
	defer server.Close()

	adapter := NewNpmRegistryAdapter(server.URL, "", time.Second, 3, time.Millisecond)
	catalog, err := adapter.Fetch(t.Context(), "flaky")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", catalog.Latest())
	assert.Equal(t, int32(3), calls.Load())
}

func TestNpmRegistryAdapterEmptyName(t *testing.T) {
	adapter := NewNpmRegistryAdapter("", "", 0, 0, 0)
	assert.Equal(t, DefaultRegistryURL, adapter.BaseURL)
	_, err := adapter.Fetch(t.Context(), "  ")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestOrderedObjectRejectsArrays(t *testing.T) {
	_, err := parseRegistryDocument(strings.NewReader(`{"time":[1,2]}`))
	require.Error(t, err)
}
