package forwarder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"service-gateway/internal/common/errors"
	httpclient "service-gateway/internal/common/http"
	"service-gateway/internal/metrics"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Authorize(service, path string) bool {
	return m.Called(service, path).Bool(0)
}

func (m *mockResolver) Locate(service, path string) (string, bool) {
	args := m.Called(service, path)
	return args.String(0), args.Bool(1)
}

type mockBreaker struct {
	mock.Mock
}

func (m *mockBreaker) AllowRequest(service string) bool {
	return m.Called(service).Bool(0)
}

func (m *mockBreaker) RecordSuccess(service string) {
	m.Called(service)
}

func (m *mockBreaker) RecordFailure(service string) {
	m.Called(service)
}

type executorFunc func(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*httpclient.Response, error)

func (f executorFunc) Execute(ctx context.Context, method, url string, headers http.Header, body io.Reader) (*httpclient.Response, error) {
	return f(ctx, method, url, headers, body)
}

func refusingExecutor() executorFunc {
	return func(context.Context, string, string, http.Header, io.Reader) (*httpclient.Response, error) {
		return nil, errors.TransportError("upstream request failed", syscall.ECONNREFUSED, true)
	}
}

func unusedExecutor(t *testing.T) executorFunc {
	return func(context.Context, string, string, http.Header, io.Reader) (*httpclient.Response, error) {
		t.Error("executor must not be called")
		return nil, nil
	}
}

func allowingResolver(service, path, target string) *mockResolver {
	r := &mockResolver{}
	r.On("Authorize", service, path).Return(true)
	r.On("Locate", service, path).Return(target, true)
	return r
}

func TestForward_Denied(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Authorize", "user-service", "/admin").Return(false)
	breaker := &mockBreaker{}
	collector := metrics.NewCollector()

	f := New(resolver, breaker, unusedExecutor(t), collector)
	outcome := f.Forward(context.Background(), &Request{Service: "user-service", Path: "/admin", Method: http.MethodGet})

	assert.Equal(t, Denied, outcome.Decision)
	assert.Equal(t, http.StatusForbidden, outcome.StatusCode())
	assert.True(t, errors.IsType(outcome.Err, errors.ErrTypeRouteDenied))
	resolver.AssertNotCalled(t, "Locate", mock.Anything, mock.Anything)
	breaker.AssertNotCalled(t, "AllowRequest", mock.Anything)
	assert.Equal(t, int64(0), collector.Overall().TotalRequests)
}

func TestForward_NotConfigured(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Authorize", "ghost", "/x").Return(true)
	resolver.On("Locate", "ghost", "/x").Return("", false)
	breaker := &mockBreaker{}

	f := New(resolver, breaker, unusedExecutor(t), nil)
	outcome := f.Forward(context.Background(), &Request{Service: "ghost", Path: "/x", Method: http.MethodGet})

	assert.Equal(t, NotConfigured, outcome.Decision)
	assert.Equal(t, http.StatusBadRequest, outcome.StatusCode())
	breaker.AssertNotCalled(t, "AllowRequest", mock.Anything)
}

func TestForward_CircuitOpen(t *testing.T) {
	resolver := allowingResolver("billing", "/invoices", "http://billing/invoices")
	breaker := &mockBreaker{}
	breaker.On("AllowRequest", "billing").Return(false)

	f := New(resolver, breaker, unusedExecutor(t), nil)
	outcome := f.Forward(context.Background(), &Request{Service: "billing", Path: "/invoices", Method: http.MethodGet})

	assert.Equal(t, CircuitOpen, outcome.Decision)
	assert.Equal(t, http.StatusServiceUnavailable, outcome.StatusCode())
	assert.True(t, errors.IsType(outcome.Err, errors.ErrTypeCircuitOpen))
	breaker.AssertNotCalled(t, "RecordFailure", mock.Anything)
	breaker.AssertNotCalled(t, "RecordSuccess", mock.Anything)
}

func TestForward_PassesThroughUpstreamStatus(t *testing.T) {
	seen := make(chan *http.Request, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.Header().Set("X-Upstream", "yes")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such user"}`))
	}))
	defer upstream.Close()

	resolver := allowingResolver("user-service", "/users/42", upstream.URL+"/users/42")
	breaker := &mockBreaker{}
	breaker.On("AllowRequest", "user-service").Return(true)
	breaker.On("RecordSuccess", "user-service").Return()
	collector := metrics.NewCollector()

	f := New(resolver, breaker, httpclient.NewClient(), collector)
	outcome := f.Forward(context.Background(), &Request{
		Service: "user-service",
		Path:    "/users/42",
		Method:  http.MethodDelete,
		Query: []QueryParam{
			{Key: "b", Value: "2"},
			{Key: "empty", Value: ""},
			{Key: "blank", Value: "  "},
			{Key: "a", Value: "x y"},
		},
		Headers: http.Header{"X-Tenant": []string{"acme"}},
	})

	require.NoError(t, outcome.Err)
	assert.Equal(t, Forwarded, outcome.Decision)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, http.StatusNotFound, outcome.StatusCode())
	assert.Equal(t, `{"error":"no such user"}`, string(outcome.Body))
	assert.Equal(t, "yes", outcome.Headers.Get("X-Upstream"))
	got := <-seen
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "b=2&a=x+y", got.URL.RawQuery)
	assert.Equal(t, "acme", got.Header.Get("X-Tenant"))

	breaker.AssertCalled(t, "RecordSuccess", "user-service")
	breaker.AssertNotCalled(t, "RecordFailure", mock.Anything)

	stats, ok := collector.Service("user-service")
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Requests)
	assert.Equal(t, int64(len(outcome.Body)), stats.TotalBytes)
}

func TestForward_TransportFailure(t *testing.T) {
	t.Run("refused maps to 503", func(t *testing.T) {
		resolver := allowingResolver("billing", "/x", "http://billing/x")
		breaker := &mockBreaker{}
		breaker.On("AllowRequest", "billing").Return(true)
		breaker.On("RecordFailure", "billing").Return()
		collector := metrics.NewCollector()

		f := New(resolver, breaker, refusingExecutor(), collector)
		outcome := f.Forward(context.Background(), &Request{Service: "billing", Path: "/x", Method: http.MethodGet})

		assert.Equal(t, Forwarded, outcome.Decision)
		assert.False(t, outcome.Succeeded())
		assert.Equal(t, http.StatusServiceUnavailable, outcome.StatusCode())
		breaker.AssertNumberOfCalls(t, "RecordFailure", 1)
		breaker.AssertNotCalled(t, "RecordSuccess", mock.Anything)

		stats, ok := collector.Service("billing")
		require.True(t, ok)
		assert.Equal(t, int64(1), stats.Errors)
		assert.Equal(t, int64(0), stats.Requests)
	})

	t.Run("untyped error maps to 502", func(t *testing.T) {
		resolver := allowingResolver("billing", "/x", "http://billing/x")
		breaker := &mockBreaker{}
		breaker.On("AllowRequest", "billing").Return(true)
		breaker.On("RecordFailure", "billing").Return()

		exec := executorFunc(func(context.Context, string, string, http.Header, io.Reader) (*httpclient.Response, error) {
			return nil, io.ErrUnexpectedEOF
		})

		outcome := New(resolver, breaker, exec, nil).Forward(context.Background(), &Request{Service: "billing", Path: "/x", Method: http.MethodGet})

		assert.Equal(t, http.StatusBadGateway, outcome.StatusCode())
		assert.True(t, errors.IsType(outcome.Err, errors.ErrTypeTransport))
		assert.ErrorIs(t, outcome.Err, io.ErrUnexpectedEOF)
	})
}

func TestForward_CallerCancellation(t *testing.T) {
	t.Run("cancelled caller does not trip the breaker", func(t *testing.T) {
		arrived := make(chan struct{}, 1)
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			arrived <- struct{}{}
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		resolver := allowingResolver("billing", "/slow", server.URL+"/slow")
		breaker := &mockBreaker{}
		breaker.On("AllowRequest", "billing").Return(true)
		collector := metrics.NewCollector()
		f := New(resolver, breaker, httpclient.NewClient(), collector)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan *Outcome, 1)
		go func() {
			done <- f.Forward(ctx, &Request{Service: "billing", Path: "/slow", Method: http.MethodGet})
		}()

		<-arrived
		cancel()
		outcome := <-done

		assert.Equal(t, Canceled, outcome.Decision)
		assert.Equal(t, errors.StatusClientClosedRequest, outcome.StatusCode())
		assert.True(t, errors.IsType(outcome.Err, errors.ErrTypeCanceled))
		breaker.AssertNotCalled(t, "RecordFailure", mock.Anything)
		breaker.AssertNotCalled(t, "RecordSuccess", mock.Anything)

		_, recorded := collector.Service("billing")
		assert.False(t, recorded)
	})

	t.Run("deadline still counts as a timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		resolver := allowingResolver("billing", "/slow", server.URL+"/slow")
		breaker := &mockBreaker{}
		breaker.On("AllowRequest", "billing").Return(true)
		breaker.On("RecordFailure", "billing").Return()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		outcome := New(resolver, breaker, httpclient.NewClient(), nil).
			Forward(ctx, &Request{Service: "billing", Path: "/slow", Method: http.MethodGet})

		assert.Equal(t, Forwarded, outcome.Decision)
		assert.Equal(t, http.StatusServiceUnavailable, outcome.StatusCode())
		breaker.AssertNumberOfCalls(t, "RecordFailure", 1)
	})
}

func TestForward_SendsContentLength(t *testing.T) {
	type seen struct {
		length   int64
		encoding []string
		body     string
	}
	got := make(chan seen, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- seen{length: r.ContentLength, encoding: r.TransferEncoding, body: string(body)}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	resolver := allowingResolver("user-service", "/users", server.URL+"/users")
	breaker := &mockBreaker{}
	breaker.On("AllowRequest", "user-service").Return(true)
	breaker.On("RecordSuccess", "user-service").Return()

	// MultiReader hides the length from net/http, like an inbound request body
	payload := `{"name":"ada"}`
	outcome := New(resolver, breaker, httpclient.NewClient(), nil).Forward(context.Background(), &Request{
		Service:       "user-service",
		Path:          "/users",
		Method:        http.MethodPost,
		Body:          io.MultiReader(strings.NewReader(payload)),
		ContentLength: int64(len(payload)),
	})

	require.True(t, outcome.Succeeded())
	upstream := <-got
	assert.Equal(t, int64(len(payload)), upstream.length)
	assert.Empty(t, upstream.encoding)
	assert.Equal(t, payload, upstream.body)
}

type countingBreaker struct {
	successes atomic.Int64
	failures  atomic.Int64
}

func (c *countingBreaker) AllowRequest(string) bool { return true }
func (c *countingBreaker) RecordSuccess(string)     { c.successes.Add(1) }
func (c *countingBreaker) RecordFailure(string)     { c.failures.Add(1) }

func TestForward_ConcurrentFailuresCountedOnce(t *testing.T) {
	const calls = 200

	resolver := allowingResolver("billing", "/x", "http://billing/x")
	breaker := &countingBreaker{}
	collector := metrics.NewCollector()
	f := New(resolver, breaker, refusingExecutor(), collector)

	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			f.Forward(context.Background(), &Request{Service: "billing", Path: "/x", Method: http.MethodGet})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(calls), breaker.failures.Load())
	assert.Equal(t, int64(0), breaker.successes.Load())

	stats, ok := collector.Service("billing")
	require.True(t, ok)
	assert.Equal(t, int64(calls), stats.Errors)
}

func TestForwardStream(t *testing.T) {
	payload := strings.Repeat("chunk-", 4096)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, payload)
	}))
	defer upstream.Close()

	t.Run("copies body from a streaming executor", func(t *testing.T) {
		resolver := allowingResolver("files", "/blob", upstream.URL+"/blob")
		breaker := &countingBreaker{}
		collector := metrics.NewCollector()

		rec := httptest.NewRecorder()
		outcome := New(resolver, breaker, httpclient.NewClient(), collector).
			ForwardStream(context.Background(), &Request{Service: "files", Path: "/blob", Method: http.MethodGet}, rec)

		require.NoError(t, outcome.Err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, payload, rec.Body.String())
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, int64(len(payload)), outcome.BytesWritten)
		assert.Nil(t, outcome.Body)
		assert.Equal(t, int64(1), breaker.successes.Load())
	})

	t.Run("falls back to buffering", func(t *testing.T) {
		resolver := allowingResolver("files", "/blob", upstream.URL+"/blob")
		breaker := &countingBreaker{}
		client := httpclient.NewClient()
		exec := executorFunc(client.Execute)

		rec := httptest.NewRecorder()
		outcome := New(resolver, breaker, exec, nil).
			ForwardStream(context.Background(), &Request{Service: "files", Path: "/blob", Method: http.MethodGet}, rec)

		require.NoError(t, outcome.Err)
		assert.Equal(t, payload, rec.Body.String())
	})

	t.Run("writes nothing when denied", func(t *testing.T) {
		resolver := &mockResolver{}
		resolver.On("Authorize", "files", "/secret").Return(false)

		rec := httptest.NewRecorder()
		outcome := New(resolver, &countingBreaker{}, httpclient.NewClient(), nil).
			ForwardStream(context.Background(), &Request{Service: "files", Path: "/secret", Method: http.MethodGet}, rec)

		assert.Equal(t, Denied, outcome.Decision)
		assert.Equal(t, 0, rec.Body.Len())
	})
}

func TestOutcome_StatusCode(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    int
	}{
		{"denied", Outcome{Decision: Denied}, http.StatusForbidden},
		{"not configured", Outcome{Decision: NotConfigured}, http.StatusBadRequest},
		{"circuit open", Outcome{Decision: CircuitOpen}, http.StatusServiceUnavailable},
		{"expired", Outcome{Decision: Expired, Err: errors.TimeoutError("queued forward")}, http.StatusGatewayTimeout},
		{"canceled", Outcome{Decision: Canceled, Err: errors.CanceledError("forward", context.Canceled)}, errors.StatusClientClosedRequest},
		{"upstream 201", Outcome{Decision: Forwarded, UpstreamStatus: http.StatusCreated}, http.StatusCreated},
		{"upstream 500", Outcome{Decision: Forwarded, UpstreamStatus: http.StatusInternalServerError}, http.StatusInternalServerError},
		{"reset", Outcome{Decision: Forwarded, Err: errors.TransportError("reset", nil, false)}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.StatusCode())
		})
	}
}
