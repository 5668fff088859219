package httputil

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// Client abstracts the one HTTP operation the planner performs against
// external services. http.Client satisfies it in production; MockClient in
// tests.
type Client interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// MockClient is a Client returning canned responses while recording every
// request it sees. Safe for concurrent use.
type MockClient struct {
	mu        sync.Mutex
	requests  []*http.Request
	responses []mockResponse
	next      int
}

type mockResponse struct {
	status int
	body   string
	err    error
}

// NewMockClient returns an empty MockClient. With no queued responses it
// answers 200 with an empty body.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// AddResponse queues a response to be returned by a subsequent request.
func (m *MockClient) AddResponse(status int, body string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{status: status, body: body})
	return m
}

// AddError queues a transport-level error.
func (m *MockClient) AddError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
	return m
}

// Do records the request and returns the next queued response.
func (m *MockClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.next < len(m.responses) {
		resp := m.responses[m.next]
		m.next++
		if resp.err != nil {
			return nil, resp.err
		}
		return &http.Response{
			StatusCode: resp.status,
			Body:       io.NopCloser(bytes.NewBufferString(resp.body)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// RequestCount returns the number of recorded requests.
func (m *MockClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Request returns the nth recorded request, or nil if out of range.
func (m *MockClient) Request(n int) *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 0 || n >= len(m.requests) {
		return nil
	}
	return m.requests[n]
}
