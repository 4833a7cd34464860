package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"service-gateway/internal/common/errors"
)

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 500, config.MaxIdleConns)
	assert.Equal(t, 100, config.MaxIdleConnsPerHost)
	assert.Equal(t, 100, config.MaxConnsPerHost)
	assert.False(t, config.FollowRedirects)
	assert.Nil(t, config.Transport)
}

func TestClientOptions(t *testing.T) {
	config := DefaultClientConfig()
	for _, opt := range []ClientOption{
		WithTimeout(5 * time.Second),
		WithMaxIdleConns(50),
		WithMaxConnsPerHost(7),
		WithIdleConnTimeout(time.Second),
		WithoutKeepAlives(),
		WithFollowRedirects(),
		WithInsecureSkipVerify(),
	} {
		opt(&config)
	}

	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 50, config.MaxIdleConns)
	assert.Equal(t, 7, config.MaxConnsPerHost)
	assert.Equal(t, 7, config.MaxIdleConnsPerHost)
	assert.Equal(t, time.Second, config.IdleConnTimeout)
	assert.True(t, config.DisableKeepAlives)
	assert.True(t, config.FollowRedirects)
	assert.True(t, config.InsecureSkipVerify)
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(WithTimeout(3 * time.Second))
	assert.Equal(t, 3*time.Second, client.Timeout)
	assert.NotNil(t, client.CheckRedirect)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 500, transport.MaxIdleConns)
	assert.Equal(t, 100, transport.MaxConnsPerHost)
}

func TestClient_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Method", r.Method)
		w.Header().Set("X-Echo-Trace", r.Header.Get("X-Trace"))
		w.Header().Set("X-Saw-Upgrade", r.Header.Get("Upgrade"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := NewClient()
	headers := http.Header{}
	headers.Set("X-Trace", "abc")
	headers.Set("Upgrade", "websocket")

	resp, err := client.Execute(context.Background(), http.MethodPost, server.URL+"/echo", headers, strings.NewReader("payload"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "payload", string(resp.Body))
	assert.Equal(t, "POST", resp.Headers.Get("X-Echo-Method"))
	assert.Equal(t, "abc", resp.Headers.Get("X-Echo-Trace"))
	assert.Empty(t, resp.Headers.Get("X-Saw-Upgrade"))
	assert.Greater(t, resp.Duration, time.Duration(0))
}

func TestClient_DoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer server.Close()

	resp, err := NewClient().Execute(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/elsewhere", resp.Headers.Get("Location"))
}

func TestClient_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("chunked-bytes"))
	}))
	defer server.Close()

	resp, err := NewClient().Stream(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "chunked-bytes", string(data))
}

func TestClient_TransportFailures(t *testing.T) {
	t.Run("connection refused is unavailable", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := listener.Addr().String()
		require.NoError(t, listener.Close())

		_, err = NewClient().Execute(context.Background(), http.MethodGet, "http://"+addr+"/", nil, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeTransport))
		assert.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatus(err))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		_, err := NewClient(WithTimeout(20*time.Millisecond)).Execute(context.Background(), http.MethodGet, server.URL, nil, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatus(err))
	})

	t.Run("context deadline is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewClient().Execute(ctx, http.MethodGet, server.URL, nil, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatus(err))
	})

	t.Run("other failures are bad gateway", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
		}))
		defer server.Close()

		_, err := NewClient().Execute(context.Background(), http.MethodGet, server.URL, nil, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, errors.HTTPStatus(err))
	})

	t.Run("malformed url is bad gateway", func(t *testing.T) {
		_, err := NewClient().Execute(context.Background(), http.MethodGet, "http://bad host/", nil, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, errors.HTTPStatus(err))
	})
}

func TestClient_SizedBody(t *testing.T) {
	type seen struct {
		length   int64
		encoding []string
	}
	got := make(chan seen, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		got <- seen{length: r.ContentLength, encoding: r.TransferEncoding}
	}))
	defer server.Close()

	t.Run("known size is sent as content length", func(t *testing.T) {
		body := SizedBody(io.MultiReader(strings.NewReader("hello")), 5)
		_, err := NewClient().Execute(context.Background(), http.MethodPut, server.URL, nil, body)
		require.NoError(t, err)

		upstream := <-got
		assert.Equal(t, int64(5), upstream.length)
		assert.Empty(t, upstream.encoding)
	})

	t.Run("unknown size is chunked", func(t *testing.T) {
		body := SizedBody(io.MultiReader(strings.NewReader("hello")), -1)
		_, err := NewClient().Execute(context.Background(), http.MethodPut, server.URL, nil, body)
		require.NoError(t, err)

		upstream := <-got
		assert.Equal(t, int64(-1), upstream.length)
		assert.Equal(t, []string{"chunked"}, upstream.encoding)
	})

	t.Run("nil body stays nil", func(t *testing.T) {
		assert.Nil(t, SizedBody(nil, 10))
	})
}

func TestCopyHeaders(t *testing.T) {
	src := http.Header{}
	src.Set("Content-Type", "application/json")
	src.Set("Connection", "keep-alive, X-Private")
	src.Set("X-Private", "secret")
	src.Set("Transfer-Encoding", "chunked")
	src.Add("Accept", "a")
	src.Add("Accept", "b")

	dst := http.Header{}
	CopyHeaders(dst, src)

	assert.Equal(t, "application/json", dst.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, dst.Values("Accept"))
	assert.Empty(t, dst.Get("Connection"))
	assert.Empty(t, dst.Get("X-Private"))
	assert.Empty(t, dst.Get("Transfer-Encoding"))

	CopyHeaders(dst, nil)
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.True(t, IsUnavailable(context.DeadlineExceeded))
	assert.False(t, IsUnavailable(io.ErrUnexpectedEOF))
}
