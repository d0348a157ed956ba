package providers

import "context"

// Mock is a test double that returns canned responses.
type Mock struct {
	Response string
	Err      error
	Calls    int
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Generate(_ context.Context, _ Request) (Response, error) {
	m.Calls++
	if m.Err != nil {
		return Response{}, m.Err
	}
	return Response{Content: m.Response}, nil
}
