package tracing

import (
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// Transport is an http.RoundTripper that injects the installed span
// context of each request's context into its propagation headers.
// Wrap any base transport with it; a nil Base uses the default.
type Transport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// header injection, per the RoundTripper contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if sc := Current(req.Context()); sc.Valid() {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderTraceID, string(sc.TraceID))
		req.Header.Set(HeaderSpanID, string(sc.SpanID))
	}

	return base.RoundTrip(req)
}

// NewClient creates a resty client that propagates the span context of
// each request's context to the downstream service.
func NewClient() *resty.Client {
	client := resty.New()
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		Inject(req.Context(), func(key, value string) {
			req.SetHeader(key, value)
		})
		return nil
	})
	return client
}

// NewRetryableClient creates a retrying HTTP client whose requests
// carry span context propagation headers. Retries of one logical call
// reuse the same identifiers: the unit of work does not change just
// because the transport retried.
func NewRetryableClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Transport = &Transport{Base: client.HTTPClient.Transport}
	return client
}
