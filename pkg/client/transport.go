package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// NativeTimeout bounds every request sent through the native transport.
const NativeTimeout = 30 * time.Second

// Request is a transport level request with an absolute URL.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the normalized result of either transport.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Transport sends one request. Implementations do not retry.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFor returns the transport used on platform.
func TransportFor(platform Platform) Transport {
	if platform == PlatformNative {
		return NewNativeTransport(NativeTimeout)
	}
	return NewWebTransport(nil)
}

type webTransport struct {
	http *http.Client
}

// NewWebTransport dispatches through net/http. The only deadline is the one on
// the caller's context.
func NewWebTransport(httpClient *http.Client) Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &webTransport{http: httpClient}
}

func (t *webTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Headers: resp.Header.Clone(), Body: raw}, nil
}

type nativeTransport struct {
	timeout time.Duration
}

// NewNativeTransport dispatches through the fasthttp agent bundled with fiber.
func NewNativeTransport(timeout time.Duration) Transport {
	if timeout <= 0 {
		timeout = NativeTimeout
	}
	return &nativeTransport{timeout: timeout}
}

func (t *nativeTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agent := fiber.AcquireAgent()
	agentReq := agent.Request()
	agentReq.Header.SetMethod(req.Method)
	agentReq.SetRequestURI(req.URL)
	for key, values := range req.Header {
		for i, v := range values {
			if i == 0 {
				agentReq.Header.Set(key, v)
			} else {
				agentReq.Header.Add(key, v)
			}
		}
	}
	if req.Body != nil {
		agentReq.SetBody(req.Body)
	}
	agent.Timeout(t.timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)
	agent.SetResponse(resp)

	// Bytes releases the agent.
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, errs[0])
	}

	headers := make(http.Header)
	resp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})
	return &Response{Status: status, Headers: headers, Body: body}, nil
}
