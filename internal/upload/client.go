// Package upload performs chunked resumable uploads to YouTube with
// bounded exponential-backoff retry on transient failures.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// MaxAttempts bounds the retry loop. The final attempt failing
// transiently aborts the upload for this run; the entry stays
// un-uploaded and will be offered again next run.
const MaxAttempts = 10

// Transport performs one full upload attempt and reports the video ID
// the service confirmed. It exists so tests can count attempts without
// a network.
type Transport interface {
	Insert(ctx context.Context, job ClipJob) (videoID string, err error)
}

// Client drives a Transport through the retry policy.
type Client struct {
	Transport   Transport
	Log         *slog.Logger
	MaxAttempts int

	// Sleep and Rand are swappable for tests.
	Sleep func(time.Duration)
	Rand  func() float64
}

// NewClient wires the real YouTube transport.
func NewClient(svc *youtube.Service, chunkSizeMiB int, log *slog.Logger) *Client {
	return &Client{
		Transport:   &youtubeTransport{svc: svc, chunkSize: chunkSizeMiB * 1024 * 1024},
		Log:         log,
		MaxAttempts: MaxAttempts,
		Sleep:       time.Sleep,
		Rand:        rand.Float64,
	}
}

// Upload runs the attempt/classify/backoff loop. Transient failures
// sleep rand()*2^n seconds with n starting at 1; anything else
// propagates immediately.
func (c *Client) Upload(ctx context.Context, job ClipJob) (string, error) {
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}

	for attempt := 1; ; attempt++ {
		id, err := c.Transport.Insert(ctx, job)
		if err == nil {
			if id == "" {
				return "", &ClassifiedError{
					Kind: KindUnexpectedResponse,
					Err:  fmt.Errorf("upload of %s finished without a video id", job.ClipPath),
				}
			}
			c.log().Info("upload complete", "video_id", id, "title", job.Title)
			return id, nil
		}

		switch Classify(err) {
		case KindTransient:
			if attempt >= maxAttempts {
				return "", &ClassifiedError{
					Kind: KindFatal,
					Err:  fmt.Errorf("giving up after %d attempts: %w", attempt, err),
				}
			}
			delay := time.Duration(c.rand() * math.Pow(2, float64(attempt)) * float64(time.Second))
			c.log().Warn("transient upload failure, retrying",
				"attempt", attempt, "sleep", delay.Round(time.Millisecond), "err", err)
			c.sleep(delay)
		default:
			return "", err
		}
	}
}

func (c *Client) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (c *Client) rand() float64 {
	if c.Rand != nil {
		return c.Rand()
	}
	return rand.Float64()
}

func (c *Client) log() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// youtubeTransport issues videos.insert with resumable chunked media.
// Chunk-level resume and transient chunk retries happen inside the
// google-api resumable uploader; one Insert call is one full transfer
// from the Client's point of view, and a transient error surfacing
// here has already outlived the library's own per-chunk backoff.
type youtubeTransport struct {
	svc       *youtube.Service
	chunkSize int
}

func (t *youtubeTransport) Insert(ctx context.Context, job ClipJob) (string, error) {
	f, err := os.Open(job.ClipPath)
	if err != nil {
		return "", &ClassifiedError{Kind: KindFatal, Err: fmt.Errorf("open clip %s: %w", job.ClipPath, err)}
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       job.Title,
			Description: job.Description,
			Tags:        job.Tags,
			CategoryId:  job.CategoryID,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: job.PrivacyStatus},
	}

	call := t.svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(f, googleapi.ChunkSize(t.chunkSize)).
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return "", err
	}
	return resp.Id, nil
}
