package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInjectsHeaders(t *testing.T) {
	var gotTrace, gotSpan string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Header.Get(HeaderTraceID)
		gotSpan = r.Header.Get(HeaderSpanID)
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	sc := New()
	ctx, err := Install(context.Background(), sc)
	require.NoError(t, err)

	resp, err := NewClient().R().SetContext(ctx).Get(downstream.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	assert.Equal(t, string(sc.TraceID), gotTrace, "downstream must receive the caller's trace ID")
	assert.Equal(t, string(sc.SpanID), gotSpan, "caller's span becomes the downstream parent")
}

func TestClientNoContextNoHeaders(t *testing.T) {
	var gotTrace string
	var hadHeader bool
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Header.Get(HeaderTraceID)
		hadHeader = len(r.Header.Values(HeaderTraceID)) > 0
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	_, err := NewClient().R().SetContext(context.Background()).Get(downstream.URL)
	require.NoError(t, err)

	assert.False(t, hadHeader, "no propagation headers without an installed context")
	assert.Empty(t, gotTrace)
}

func TestTransportInjectsHeaders(t *testing.T) {
	var gotTrace, gotSpan string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Header.Get(HeaderTraceID)
		gotSpan = r.Header.Get(HeaderSpanID)
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	sc := New()
	ctx, err := Install(context.Background(), sc)
	require.NoError(t, err)

	client := &http.Client{Transport: &Transport{}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downstream.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, string(sc.TraceID), gotTrace)
	assert.Equal(t, string(sc.SpanID), gotSpan)
}

func TestTransportDoesNotMutateOriginalRequest(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	ctx, err := Install(context.Background(), New())
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downstream.URL, nil)
	require.NoError(t, err)

	resp, err := (&Transport{}).RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get(HeaderTraceID), "injection happens on a clone")
}

func TestRetryableClientInjectsHeaders(t *testing.T) {
	var gotTrace string
	attempts := 0
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		gotTrace = r.Header.Get(HeaderTraceID)
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	sc := New()
	ctx, err := Install(context.Background(), sc)
	require.NoError(t, err)

	client := NewRetryableClient()
	client.RetryMax = 2
	client.RetryWaitMin = 0
	client.RetryWaitMax = 0

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, downstream.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.GreaterOrEqual(t, attempts, 2, "first attempt should be retried")
	assert.Equal(t, string(sc.TraceID), gotTrace, "retries keep the same identifiers")
}
