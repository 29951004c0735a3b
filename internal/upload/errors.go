package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies an upload attempt outcome so the retry driver
// can pattern-match instead of sniffing exception types.
type ErrorKind int

const (
	// KindTransient covers network-layer hiccups and 5xx responses;
	// the attempt may be retried.
	KindTransient ErrorKind = iota
	// KindFatal covers everything that retrying cannot fix (4xx,
	// local file errors, cancellation).
	KindFatal
	// KindUnexpectedResponse means the service accepted the upload
	// but returned no video ID. That is a protocol violation, not
	// transience, so it is never retried.
	KindUnexpectedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	case KindUnexpectedResponse:
		return "unexpected-response"
	default:
		return "unknown"
	}
}

// ClassifiedError tags an underlying error with its kind.
type ClassifiedError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s upload error: %v", e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// retriableStatusCodes mirrors the server errors worth retrying.
var retriableStatusCodes = map[int]bool{500: true, 502: true, 503: true, 504: true}

// Classify decides how an attempt error should be handled.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindFatal
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if retriableStatusCodes[gerr.Code] {
			return KindTransient
		}
		return KindFatal
	}

	// Operator cancellation is final even though it arrives as a
	// timeout-shaped error.
	if errors.Is(err, context.Canceled) {
		return KindFatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return KindTransient
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return KindTransient
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTransient
	}
	var operr *net.OpError
	if errors.As(err, &operr) {
		return KindTransient
	}

	return KindFatal
}
