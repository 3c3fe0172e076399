package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestHTTPTransportSuccess(t *testing.T) {
	tr := NewHTTPTransport()
	tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Install-Id") != "inst" {
			t.Fatalf("header not forwarded: %v", req.Header)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"value":50}`)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}

	resp, err := tr.Do(context.Background(), Request{
		URL:     "https://api.example.com/api/fng",
		Headers: map[string]string{"X-Install-Id": "inst"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK || resp.Status != 200 || string(resp.Data) != `{"value":50}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("headers not captured: %v", resp.Headers)
	}
}

func TestHTTPTransportNonOKStatusIsNotAnError(t *testing.T) {
	tr := NewHTTPTransport()
	tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusPaymentRequired,
			Body:       io.NopCloser(bytes.NewBufferString(`{"detail":"upgrade"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	resp, err := tr.Do(context.Background(), Request{URL: "https://api.example.com/api/fng"})
	if err != nil {
		t.Fatalf("status failures must surface via Response, got error %v", err)
	}
	if resp.OK || resp.Status != 402 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHTTPTransportTimeoutClassified(t *testing.T) {
	tr := NewHTTPTransport()
	tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})}

	start := time.Now()
	_, err := tr.Do(context.Background(), Request{URL: "https://api.example.com/slow", TimeoutMs: 30})
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected timeout kind, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout should trip quickly")
	}
}

func TestRelayTransportForwardsEnvelope(t *testing.T) {
	tr := NewRelayTransport("https://relay.example.com/proxy")
	tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.String() != "https://relay.example.com/proxy" {
			t.Fatalf("unexpected relay call: %s %s", req.Method, req.URL)
		}
		var forwarded Request
		if err := json.NewDecoder(req.Body).Decode(&forwarded); err != nil {
			t.Fatalf("relay body not a request envelope: %v", err)
		}
		if forwarded.URL != "https://api.example.com/api/fng" || forwarded.TimeoutMs != 9000 {
			t.Fatalf("unexpected envelope: %+v", forwarded)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":true,"status":200,"data":{"value":44,"label":"Fear"}}`)),
			Header:     make(http.Header),
		}, nil
	})}

	resp, err := tr.Do(context.Background(), Request{URL: "https://api.example.com/api/fng", TimeoutMs: 9000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK || resp.Status != 200 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	payload, err := unwrapPayload(resp.Data)
	if err != nil || *payload.Value != 44 {
		t.Fatalf("relayed data not usable: %v %+v", err, payload)
	}
}

func TestRelayTransportErrorEnvelope(t *testing.T) {
	cases := []struct {
		body string
		kind ErrorKind
	}{
		{`{"ok":false,"status":0,"error":"timeout after 9000ms"}`, KindTimeout},
		{`{"ok":false,"status":0,"error":"connection refused"}`, KindUnreachable},
	}
	for _, tc := range cases {
		tr := NewRelayTransport("https://relay.example.com/proxy")
		tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(tc.body)),
				Header:     make(http.Header),
			}, nil
		})}
		_, err := tr.Do(context.Background(), Request{URL: "https://api.example.com/api/fng"})
		if !IsKind(err, tc.kind) {
			t.Errorf("body %s: expected %s, got %v", tc.body, tc.kind, err)
		}
	}
}

func TestRelayTransportPassesStatusFailuresThrough(t *testing.T) {
	tr := NewRelayTransport("https://relay.example.com/proxy")
	tr.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"ok":false,"status":429,"data":{"error":"slow down"}}`)),
			Header:     make(http.Header),
		}, nil
	})}

	resp, err := tr.Do(context.Background(), Request{URL: "https://api.example.com/api/fng"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK || resp.Status != 429 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
