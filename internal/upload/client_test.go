package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

type scriptedTransport struct {
	attempts int
	script   func(attempt int) (string, error)
}

func (t *scriptedTransport) Insert(ctx context.Context, job ClipJob) (string, error) {
	t.attempts++
	return t.script(t.attempts)
}

func testClient(tr Transport) *Client {
	return &Client{
		Transport:   tr,
		MaxAttempts: MaxAttempts,
		Sleep:       func(time.Duration) {},
		Rand:        func() float64 { return 0.5 },
	}
}

func TestUpload_TransientFailuresThenSuccess(t *testing.T) {
	tr := &scriptedTransport{script: func(attempt int) (string, error) {
		if attempt <= 3 {
			return "", &googleapi.Error{Code: 503, Message: "backend unavailable"}
		}
		return "vid-123", nil
	}}

	id, err := testClient(tr).Upload(context.Background(), ClipJob{Title: "t"})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if id != "vid-123" {
		t.Fatalf("unexpected video id %q", id)
	}
	if tr.attempts != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", tr.attempts)
	}
}

func TestUpload_GivesUpAfterMaxAttempts(t *testing.T) {
	tr := &scriptedTransport{script: func(int) (string, error) {
		return "", &googleapi.Error{Code: 500, Message: "internal"}
	}}

	_, err := testClient(tr).Upload(context.Background(), ClipJob{})
	if err == nil {
		t.Fatalf("expected upload to fail")
	}
	if tr.attempts != 10 {
		t.Fatalf("expected exactly 10 attempts, got %d", tr.attempts)
	}
	var ce *ClassifiedError
	if !errors.As(err, &ce) || ce.Kind != KindFatal {
		t.Fatalf("expected fatal classified error, got %v", err)
	}
}

func TestUpload_FatalStatusStopsImmediately(t *testing.T) {
	tr := &scriptedTransport{script: func(int) (string, error) {
		return "", &googleapi.Error{Code: 403, Message: "quota"}
	}}

	_, err := testClient(tr).Upload(context.Background(), ClipJob{})
	if err == nil {
		t.Fatalf("expected upload to fail")
	}
	if tr.attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", tr.attempts)
	}
}

func TestUpload_EmptyVideoIDIsUnexpectedResponse(t *testing.T) {
	tr := &scriptedTransport{script: func(int) (string, error) {
		return "", nil
	}}

	_, err := testClient(tr).Upload(context.Background(), ClipJob{ClipPath: "/clips/x.mp4"})
	var ce *ClassifiedError
	if !errors.As(err, &ce) || ce.Kind != KindUnexpectedResponse {
		t.Fatalf("expected unexpected-response error, got %v", err)
	}
	if tr.attempts != 1 {
		t.Fatalf("protocol violation must not be retried, got %d attempts", tr.attempts)
	}
}

func TestUpload_BackoffGrowsWithAttempts(t *testing.T) {
	var slept []time.Duration
	tr := &scriptedTransport{script: func(attempt int) (string, error) {
		if attempt <= 3 {
			return "", &googleapi.Error{Code: 502}
		}
		return "vid", nil
	}}
	c := testClient(tr)
	c.Sleep = func(d time.Duration) { slept = append(slept, d) }

	if _, err := c.Upload(context.Background(), ClipJob{}); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	// rand fixed at 0.5 -> 0.5*2^1, 0.5*2^2, 0.5*2^3 seconds.
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(slept))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Fatalf("sleep %d: want %v, got %v", i, want[i], slept[i])
		}
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"500", &googleapi.Error{Code: 500}, KindTransient},
		{"502", &googleapi.Error{Code: 502}, KindTransient},
		{"503", &googleapi.Error{Code: 503}, KindTransient},
		{"504", &googleapi.Error{Code: 504}, KindTransient},
		{"400", &googleapi.Error{Code: 400}, KindFatal},
		{"401", &googleapi.Error{Code: 401}, KindFatal},
		{"connection reset", fmt.Errorf("write: %w", syscall.ECONNRESET), KindTransient},
		{"incomplete read", io.ErrUnexpectedEOF, KindTransient},
		{"net timeout", net.Error(timeoutErr{}), KindTransient},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"canceled", context.Canceled, KindFatal},
		{"plain error", errors.New("boom"), KindFatal},
		{"pre-classified", &ClassifiedError{Kind: KindUnexpectedResponse, Err: errors.New("no id")}, KindUnexpectedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
