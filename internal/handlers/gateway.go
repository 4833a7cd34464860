package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"service-gateway/internal/common/errors"
	httpclient "service-gateway/internal/common/http"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/common/validation"
	"service-gateway/internal/forwarder"
)

// ExtractPath returns the part of requestPath after prefix/service. An empty
// remainder becomes "/".
func ExtractPath(requestPath, prefix, service string) string {
	rest := strings.TrimPrefix(requestPath, prefix+"/"+service)
	if rest == requestPath {
		return "/"
	}
	if rest == "" {
		return "/"
	}
	return rest
}

// gatewayRequest builds and validates a forward request from r. The
// returned context carries the service name for logging.
func gatewayRequest(r *http.Request, prefix string) (context.Context, *forwarder.Request, error) {
	service := mux.Vars(r)["service"]
	path := ExtractPath(r.URL.Path, prefix, service)
	query := forwarder.QueryFromURL(r.URL.RawQuery)

	pairs := make([][2]string, len(query))
	for i, p := range query {
		pairs[i] = [2]string{p.Key, p.Value}
	}
	if err := validation.ValidateRequest(validation.Inbound{
		Service: service,
		Path:    path,
		Method:  r.Method,
		Query:   pairs,
		Headers: r.Header,
	}); err != nil {
		return r.Context(), nil, err
	}

	ctx := logging.ContextWithService(r.Context(), service)
	return ctx, &forwarder.Request{
		Service:       service,
		Path:          path,
		Method:        r.Method,
		Query:         query,
		Headers:       r.Header.Clone(),
		Body:          r.Body,
		ContentLength: r.ContentLength,
	}, nil
}

// writeOutcome relays an upstream response verbatim or renders the
// gateway error
func writeOutcome(w http.ResponseWriter, r *http.Request, outcome *forwarder.Outcome) {
	if outcome.Err != nil {
		writeErrorStatus(w, r, outcome.StatusCode(), outcome.Err)
		return
	}
	httpclient.CopyHeaders(w.Header(), outcome.Headers)
	w.WriteHeader(outcome.UpstreamStatus)
	if len(outcome.Body) > 0 {
		_, _ = w.Write(outcome.Body)
	}
}

// Execute forwards a request to a whitelisted service
// @Summary Forward a request
// @Description Forwards the request to the named service when its path is whitelisted. The upstream status, headers and body are returned unchanged.
// @Tags gateway
// @Accept json
// @Produce json
// @Param service path string true "Target service name" example(user-service)
// @Param path path string true "Path within the service" example(users/1)
// @Success 200 {object} object "Upstream response"
// @Failure 400 {object} ErrorResponse "Invalid request or service not configured"
// @Failure 403 {object} ErrorResponse "Path not whitelisted"
// @Failure 502 {object} ErrorResponse "Upstream exchange failed"
// @Failure 503 {object} ErrorResponse "Circuit open or upstream unreachable"
// @Router /api/execution/{service}/{path} [get]
// @Router /api/execution/{service}/{path} [post]
// @Router /api/execution/{service}/{path} [put]
// @Router /api/execution/{service}/{path} [delete]
// @Router /api/execution/{service}/{path} [patch]
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	ctx, req, err := gatewayRequest(r, ExecutionPrefix)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOutcome(w, r, h.forwarder.Forward(ctx, req))
}

// Stream forwards a GET and streams the upstream body back
// @Summary Stream a large response
// @Description Forwards a GET to the named service and copies the response body as it arrives instead of buffering it.
// @Tags gateway
// @Produce octet-stream
// @Param service path string true "Target service name"
// @Param path path string true "Path within the service"
// @Success 200 {file} binary "Upstream response body"
// @Failure 400 {object} ErrorResponse "Invalid request or service not configured"
// @Failure 403 {object} ErrorResponse "Path not whitelisted"
// @Failure 502 {object} ErrorResponse "Upstream exchange failed"
// @Failure 503 {object} ErrorResponse "Circuit open or upstream unreachable"
// @Router /api/execution/stream/{service}/{path} [get]
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, req, err := gatewayRequest(r, StreamPrefix)
	if err != nil {
		writeError(w, r, err)
		return
	}

	outcome := h.forwarder.ForwardStream(ctx, req, w)
	if outcome.Err != nil && outcome.UpstreamStatus == 0 {
		writeErrorStatus(w, r, outcome.StatusCode(), outcome.Err)
	}
}

// Upload forwards a multipart form, re-attaching files under "file"
// @Summary Upload files
// @Description Rebuilds the multipart form and forwards it. Text fields are copied and files are sent under the "file" field. PUT stays PUT; other methods become POST.
// @Tags gateway
// @Accept multipart/form-data
// @Produce json
// @Param service path string true "Target service name"
// @Param path path string true "Path within the service"
// @Param file formData file false "File to upload"
// @Success 200 {object} object "Upstream response"
// @Failure 400 {object} ErrorResponse "Invalid form or request"
// @Failure 403 {object} ErrorResponse "Path not whitelisted"
// @Failure 502 {object} ErrorResponse "Upstream exchange failed"
// @Failure 503 {object} ErrorResponse "Circuit open or upstream unreachable"
// @Router /api/execution/upload/{service}/{path} [post]
// @Router /api/execution/upload/{service}/{path} [put]
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	ctx, req, err := gatewayRequest(r, UploadPrefix)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, errors.ValidationError("request must be multipart/form-data").WithContext("reason", err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	outcome, err := h.forwarder.ForwardMultipart(ctx, req, r.MultipartForm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// Async runs the forward on the gateway worker pool
// @Summary Forward on the worker pool
// @Description Same as the synchronous route but executed by the bounded worker pool. When the pool is saturated the request runs on the calling connection.
// @Tags gateway
// @Accept json
// @Produce json
// @Param service path string true "Target service name"
// @Param path path string true "Path within the service"
// @Success 200 {object} object "Upstream response"
// @Failure 400 {object} ErrorResponse "Invalid request or service not configured"
// @Failure 403 {object} ErrorResponse "Path not whitelisted"
// @Failure 503 {object} ErrorResponse "Circuit open, upstream unreachable or pool stopped"
// @Failure 504 {object} ErrorResponse "Request expired in the queue"
// @Router /api/execution/async/{service}/{path} [get]
// @Router /api/execution/async/{service}/{path} [post]
func (h *Handlers) Async(w http.ResponseWriter, r *http.Request) {
	if h.async == nil {
		writeErrorStatus(w, r, http.StatusServiceUnavailable, errors.InternalError("async forwarding is disabled", nil))
		return
	}

	ctx, req, err := gatewayRequest(r, AsyncPrefix)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// the worker may outlive this handler, so it gets its own copy of the body
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAsyncBody+1))
	if err != nil {
		writeError(w, r, errors.ValidationError("failed to read request body"))
		return
	}
	if len(body) > maxAsyncBody {
		writeErrorStatus(w, r, http.StatusRequestEntityTooLarge, errors.ValidationError("request body too large"))
		return
	}
	req.Body = bytes.NewReader(body)
	req.ContentLength = int64(len(body))

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.asyncTimeout)
	results, err := h.async.Submit(taskCtx, req)
	if err != nil {
		cancel()
		writeErrorStatus(w, r, http.StatusServiceUnavailable, errors.InternalError("async forwarder unavailable", err))
		return
	}

	select {
	case outcome := <-results:
		cancel()
		writeOutcome(w, r, outcome)
	case <-r.Context().Done():
		// the task keeps its own deadline; release it once the result lands
		go func() {
			<-results
			cancel()
		}()
	}
}

// ExecutionHealth reports that the gateway is up
// @Summary Gateway health check
// @Tags health
// @Produce plain
// @Success 200 {string} string "Service Gateway is running"
// @Router /api/execution/health [get]
func (h *Handlers) ExecutionHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Service Gateway is running"))
}
