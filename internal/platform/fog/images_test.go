package fog

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveImageName(t *testing.T) {
	tests := []struct {
		name        string
		machineType string
		osType      string
		osVersion   string
		want        string
	}{
		{name: "lowercases os type", machineType: "smithi", osType: "CentOS", osVersion: "8.stream", want: "smithi_centos_8.stream"},
		{name: "ubuntu", machineType: "mira", osType: "Ubuntu", osVersion: "22.04", want: "mira_ubuntu_22.04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveImageName(tt.machineType, tt.osType, tt.osVersion))
		})
	}
}

// imageLookup serves /image responses keyed by requested name.
func imageLookup(t *testing.T, ts *testServer, responses map[string]string, requested *[]string) {
	t.Helper()
	ts.handleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		decodeBody(t, r, &req)
		*requested = append(*requested, req["name"])
		resp, ok := responses[req["name"]]
		if !ok {
			resp = `{"count":0,"images":[]}`
		}
		_, _ = w.Write([]byte(resp))
	})
}

func TestResolveImage_Direct(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var requested []string
	imageLookup(t, ts, map[string]string{
		"smithi_centos_8.stream": `{"count":1,"images":[{"id":"42","name":"smithi_centos_8.stream"}]}`,
	}, &requested)

	id, err := ts.client().ResolveImage(context.Background(), "smithi", "CentOS", "8.stream")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	// Version already carries the stream suffix; no fallback lookup.
	assert.Equal(t, []string{"smithi_centos_8.stream"}, requested)
}

func TestResolveImage_StreamFallback(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var requested []string
	imageLookup(t, ts, map[string]string{
		"smithi_centos_8.stream": `{"count":1,"images":[{"id":"42","name":"smithi_centos_8.stream"}]}`,
	}, &requested)

	id, err := ts.client().ResolveImage(context.Background(), "smithi", "CentOS", "8")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, []string{"smithi_centos_8", "smithi_centos_8.stream"}, requested)
}

func TestResolveImage_NoFallbackForOtherOS(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var requested []string
	imageLookup(t, ts, nil, &requested)
	ts.handleFunc("/image/search/smithi", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"name":"smithi_ubuntu_22.04"}]}`))
	})

	_, err := ts.client().ResolveImage(context.Background(), "smithi", "Ubuntu", "20.04")
	require.Error(t, err)
	assert.Equal(t, []string{"smithi_ubuntu_20.04"}, requested)
}

func TestResolveImage_NotFoundCarriesSuggestions(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var requested []string
	imageLookup(t, ts, nil, &requested)
	ts.handleFunc("/image/search/smithi", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"name":"smithi_centos_9.stream"},{"name":"smithi_ubuntu_22.04"}]}`))
	})

	_, err := ts.client().ResolveImage(context.Background(), "smithi", "CentOS", "8")
	require.Error(t, err)

	var notFound *ImageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "smithi_centos_8", notFound.Name)
	assert.Equal(t, []string{"smithi_centos_9.stream", "smithi_ubuntu_22.04"}, notFound.Suggestions)
	assert.True(t, IsNotFound(err))
	// Both naming conventions were tried before giving up.
	assert.Equal(t, []string{"smithi_centos_8", "smithi_centos_8.stream"}, requested)
}

func TestSuggestImageNames(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/image/search/smithi", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"id":"1","name":"smithi_centos_9.stream"},{"id":"2","name":"smithi_ubuntu_22.04"}]}`))
	})

	names, err := ts.client().SuggestImageNames(context.Background(), "smithi")
	require.NoError(t, err)
	assert.Equal(t, []string{"smithi_centos_9.stream", "smithi_ubuntu_22.04"}, names)
}
