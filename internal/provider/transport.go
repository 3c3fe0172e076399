package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Request is the transport-neutral description of one API call.
type Request struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      []byte            `json:"body,omitempty"`
	TimeoutMs int               `json:"timeoutMs"`
}

// Response mirrors the relay envelope: OK means the HTTP exchange happened
// and returned a 2xx status. Transport failures surface as errors, never as
// a Response.
type Response struct {
	OK      bool
	Status  int
	Data    []byte
	Headers map[string]string
}

// Transport executes one request. The direct HTTP client and the relayed
// proxy are drop-in substitutes with identical timeout and error semantics.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// HTTPTransport talks to the API directly.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{client: &http.Client{Timeout: 15 * time.Second}}
}

func (t *HTTPTransport) Do(ctx context.Context, req Request) (Response, error) {
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{}, &APIError{Kind: KindUnreachable, Message: "build request: " + err.Error(), Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, classifyTransportErr(err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return Response{
		OK:      resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		Data:    data,
		Headers: headers,
	}, nil
}

// relayResponse is the wire shape the message-passing proxy answers with.
type relayResponse struct {
	OK      bool              `json:"ok"`
	Status  int               `json:"status"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// RelayTransport forwards requests through an opaque request/response relay
// instead of the network. The relay accepts the Request envelope as JSON and
// answers {ok, status, data, headers} or {ok:false, status:0, error}.
type RelayTransport struct {
	client   *http.Client
	relayURL string
}

func NewRelayTransport(relayURL string) *RelayTransport {
	return &RelayTransport{
		client:   &http.Client{Timeout: 20 * time.Second},
		relayURL: relayURL,
	}
}

func (t *RelayTransport) Do(ctx context.Context, req Request) (Response, error) {
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		// Small grace on top of the inner timeout so the relay's own
		// timeout answer wins over ours when the upstream stalls.
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs+2000)*time.Millisecond)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, &APIError{Kind: KindMalformed, Message: "encode relay request: " + err.Error(), Err: err}
	}

	relayReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.relayURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, &APIError{Kind: KindUnreachable, Message: "build relay request: " + err.Error(), Err: err}
	}
	relayReq.Header.Set("Content-Type", "application/json")
	relayReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(relayReq)
	if err != nil {
		return Response{}, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	var relayed relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&relayed); err != nil {
		return Response{}, &APIError{Kind: KindMalformed, Message: "decode relay response: " + err.Error(), Err: err}
	}

	// status 0 means the relay itself could not complete the exchange;
	// classify its error text the same way a direct failure would be.
	if !relayed.OK && relayed.Status == 0 {
		kind := KindUnreachable
		if strings.Contains(strings.ToLower(relayed.Error), "timeout") {
			kind = KindTimeout
		}
		return Response{}, &APIError{Kind: kind, Message: fmt.Sprintf("relay: %s", relayed.Error)}
	}

	return Response{
		OK:      relayed.OK,
		Status:  relayed.Status,
		Data:    relayed.Data,
		Headers: relayed.Headers,
	}, nil
}
