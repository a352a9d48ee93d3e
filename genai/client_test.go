package genai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testClient(rt roundTripFunc, retries int) *Client {
	return NewClient(Config{
		Endpoint:       "http://genai.test/generate",
		APIKey:         "sk-test",
		Model:          "test-model",
		Retries:        retries,
		InitialBackoff: time.Millisecond,
		HTTPClient:     &http.Client{Transport: rt},
	})
}

func TestGenerateNotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.Generate(context.Background(), "cat", 10); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	c := testClient(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}, 0)
	if _, err := c.Generate(context.Background(), "  ", 10); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("err = %v, want ErrEmptyPrompt", err)
	}
}

func TestGenerateRequestShape(t *testing.T) {
	c := testClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Errorf("method = %s", req.Method)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if req.Header.Get("X-Request-Id") == "" {
			t.Error("missing request id")
		}
		var body struct {
			Model     string `json:"model"`
			Prompt    string `json:"prompt"`
			MaxPoints int    `json:"max_points"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Model != "test-model" || body.Prompt != "a tree" || body.MaxPoints != 3 {
			t.Errorf("body = %+v", body)
		}
		return response(http.StatusOK, `{"points":[[1,2,3],[4,5,6]]}`), nil
	}, 0)

	points, err := c.Generate(context.Background(), " a tree ", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(points) != 2 || points[1].Z != 6 {
		t.Errorf("points = %v", points)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := testClient(func(*http.Request) (*http.Response, error) {
		if calls.Add(1) < 3 {
			return response(http.StatusBadGateway, "upstream down"), nil
		}
		return response(http.StatusOK, `[[0,0,0]]`), nil
	}, 2)

	points, err := c.Generate(context.Background(), "cat", 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls.Load() != 3 || len(points) != 1 {
		t.Errorf("calls = %d points = %d", calls.Load(), len(points))
	}
}

func TestGenerateGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return response(http.StatusServiceUnavailable, "busy"), nil
	}, 2)

	_, err := c.Generate(context.Background(), "cat", 10)
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := testClient(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return response(http.StatusBadRequest, strings.Repeat("x", 10000)), nil
	}, 2)

	_, err := c.Generate(context.Background(), "cat", 10)
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("err = %v", err)
	}
	if len(err.Error()) > 4200 {
		t.Errorf("error body not bounded: %d bytes", len(err.Error()))
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGenerateDoesNotRetryMalformed(t *testing.T) {
	var calls atomic.Int32
	c := testClient(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return response(http.StatusOK, `{"answer":"no"}`), nil
	}, 2)

	_, err := c.Generate(context.Background(), "cat", 10)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{
		Endpoint:       srv.URL,
		Timeout:        50 * time.Millisecond,
		Retries:        1,
		InitialBackoff: time.Millisecond,
	})
	start := time.Now()
	if _, err := c.Generate(context.Background(), "cat", 10); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced: %v", elapsed)
	}
}

func TestExtractPointsFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"points field", `{"points":[[1,2,3],{"x":1,"y":2,"z":3}]}`, 2},
		{"root array", `[[1,2,3],[4,5,6],[7,8,9]]`, 3},
		{"gemini fenced", `{"candidates":[{"content":{"parts":[{"text":"` + "```json\\n[[1,2,3],[3,2,1]]\\n```" + `"}]}}]}`, 2},
		{"openai output text", `{"output_text":"{\"points\":[[0,0,1]]}"}`, 1},
		{"skips bad entries", `[[1,2],[1,2,3],"x",{"x":1,"y":2}]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := ExtractPoints([]byte(tt.body), 100)
			if err != nil {
				t.Fatalf("ExtractPoints: %v", err)
			}
			if len(points) != tt.want {
				t.Errorf("len = %d, want %d", len(points), tt.want)
			}
		})
	}
}

func TestExtractPointsBounded(t *testing.T) {
	points, err := ExtractPoints([]byte(`[[1,1,1],[2,2,2],[3,3,3],[4,4,4]]`), 2)
	if err != nil {
		t.Fatalf("ExtractPoints: %v", err)
	}
	if len(points) != 2 || points[1].X != 2 {
		t.Errorf("points = %v", points)
	}
}

func TestExtractPointsRejects(t *testing.T) {
	for _, body := range []string{`not json`, `{}`, `[]`, `{"output_text":"sorry"}`, `[["a","b","c"]]`} {
		if _, err := ExtractPoints([]byte(body), 10); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: err = %v", body, err)
		}
	}
}
