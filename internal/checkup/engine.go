// Package checkup drives the per-file interactive lifecycle: each
// tracked recording is walked through upload, archive, delete, ignore,
// or skip decisions, mutating its watchlist entry as it goes.
package checkup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"clipkeeper/internal/config"
	"clipkeeper/internal/model"
	"clipkeeper/internal/prompt"
	"clipkeeper/internal/upload"
)

// ClipSpec describes the clip the renderer should cut for upload.
type ClipSpec struct {
	SourcePath     string
	SecondsFromEnd int
	Threads        int
	BaseName       string
}

// Renderer probes recordings and cuts upload clips.
type Renderer interface {
	Duration(ctx context.Context, path string) (float64, error)
	Render(ctx context.Context, spec ClipSpec) (string, error)
}

// Previewer plays a recording for the operator.
type Previewer interface {
	Preview(ctx context.Context, path string) error
}

// Archiver writes the compressed archive copy of a recording.
type Archiver interface {
	Compress(ctx context.Context, src string) (string, error)
}

// Uploader pushes a rendered clip to the video service.
type Uploader interface {
	Upload(ctx context.Context, job upload.ClipJob) (string, error)
}

// Engine runs checkups. Collaborators are interfaces so the state
// machine can be exercised without a terminal, ffmpeg, or a network.
type Engine struct {
	Config  *config.Config
	Log     *slog.Logger
	Prompt  prompt.Prompter
	Render  Renderer
	Preview Previewer
	Archive Archiver
	Upload  Uploader
}

// Options tunes one run.
type Options struct {
	// IgnoreUploaded skips the archive/delete branch for entries that
	// are already uploaded (--ignore-uploaded).
	IgnoreUploaded bool
}

// Summary counts what one run did.
type Summary struct {
	Checked  int
	Uploaded int
	Archived int
	Deleted  int
	Ignored  int
	Skipped  int
}

// Menu keys, matching the single-letter answers the tool always used.
const (
	actionUpload  = "u"
	actionArchive = "a"
	actionPreview = "p"
	actionDelete  = "d"
	actionIgnore  = "i"
	actionSkip    = "s"
)

var privacyOptions = []prompt.Option{
	{Key: "u", Label: "unlisted"},
	{Key: "pr", Label: "private"},
	{Key: "pu", Label: "public"},
}

// Run checks every actionable entry in order. Entry N+1 is not
// considered until entry N's checkup finished or was skipped. An
// interrupted prompt stops the run early without error so the caller
// can still persist what already happened.
func (e *Engine) Run(ctx context.Context, list *model.Watchlist, opts Options) (Summary, error) {
	var sum Summary
	for _, entry := range list.Entries() {
		if !entry.Actionable() {
			continue
		}
		sum.Checked++
		if err := e.checkEntry(ctx, list, entry, opts, &sum); err != nil {
			if errors.Is(err, prompt.ErrInterrupted) {
				e.Log.Info("checkup interrupted, stopping", "path", entry.Path)
				return sum, nil
			}
			return sum, err
		}
	}
	return sum, nil
}

func (e *Engine) checkEntry(ctx context.Context, list *model.Watchlist, entry *model.WatchEntry, opts Options, sum *Summary) error {
	if !entry.Uploaded {
		proceed, err := e.uploadStage(ctx, list, entry, sum)
		if err != nil || !proceed {
			return err
		}
		// A fresh upload falls through to the archive decision in the
		// same run.
	}
	if opts.IgnoreUploaded {
		return nil
	}
	return e.archiveStage(ctx, list, entry, sum)
}

// uploadStage handles the not-yet-uploaded branch. It reports whether
// the checkup should continue into the archive stage.
func (e *Engine) uploadStage(ctx context.Context, list *model.Watchlist, entry *model.WatchEntry, sum *Summary) (bool, error) {
	menu := []prompt.Option{
		{Key: actionUpload, Label: "upload a clip to YouTube"},
		{Key: actionPreview, Label: "preview the recording"},
		{Key: actionDelete, Label: "delete the recording"},
		{Key: actionIgnore, Label: "ignore this file from now on"},
		{Key: actionSkip, Label: "skip for this run"},
	}
	for {
		choice, err := e.Prompt.SelectOne(fmt.Sprintf("Checkup: %s (not uploaded)", filepath.Base(entry.Path)), menu, actionSkip)
		if err != nil {
			return false, err
		}
		switch choice {
		case actionPreview:
			e.previewEntry(ctx, entry)
		case actionUpload:
			if err := e.uploadEntry(ctx, entry); err != nil {
				if errors.Is(err, prompt.ErrInterrupted) {
					return false, err
				}
				// Retry exhaustion or a fatal response ends this
				// entry's run; the entry stays un-uploaded and will be
				// offered again next time.
				e.Log.Error("upload failed, entry stays pending", "path", entry.Path, "err", err)
				return false, nil
			}
			sum.Uploaded++
			return true, nil
		case actionDelete:
			e.deleteEntry(list, entry, sum)
			return false, nil
		case actionIgnore:
			entry.MarkIgnored()
			sum.Ignored++
			return false, nil
		case actionSkip:
			sum.Skipped++
			return false, nil
		default:
			return false, fmt.Errorf("unexpected menu choice %q", choice)
		}
	}
}

// archiveStage handles the already-uploaded branch.
func (e *Engine) archiveStage(ctx context.Context, list *model.Watchlist, entry *model.WatchEntry, sum *Summary) error {
	var menu []prompt.Option
	if entry.Archived {
		menu = []prompt.Option{
			{Key: actionPreview, Label: "preview the recording"},
			{Key: actionDelete, Label: "delete the original (archive copy is kept)"},
			{Key: actionIgnore, Label: "ignore this file from now on"},
			{Key: actionSkip, Label: "skip for this run"},
		}
	} else {
		menu = []prompt.Option{
			{Key: actionArchive, Label: "write a compressed archive copy"},
			{Key: actionDelete, Label: "delete the recording"},
			{Key: actionPreview, Label: "preview the recording"},
			{Key: actionIgnore, Label: "ignore this file from now on"},
			{Key: actionSkip, Label: "skip for this run"},
		}
	}

	state := "uploaded"
	if entry.Archived {
		state = "uploaded+archived"
	}
	for {
		choice, err := e.Prompt.SelectOne(fmt.Sprintf("Checkup: %s (%s)", filepath.Base(entry.Path), state), menu, actionSkip)
		if err != nil {
			return err
		}
		switch choice {
		case actionPreview:
			e.previewEntry(ctx, entry)
		case actionArchive:
			dst, err := e.Archive.Compress(ctx, entry.Path)
			if err != nil {
				e.Log.Error("archive failed, entry unchanged", "path", entry.Path, "err", err)
				return nil
			}
			entry.MarkArchived()
			sum.Archived++
			e.Log.Info("archived", "path", entry.Path, "archive", dst)
			return nil
		case actionDelete:
			e.deleteEntry(list, entry, sum)
			return nil
		case actionIgnore:
			entry.MarkIgnored()
			sum.Ignored++
			return nil
		case actionSkip:
			sum.Skipped++
			return nil
		default:
			return fmt.Errorf("unexpected menu choice %q", choice)
		}
	}
}

// uploadEntry collects clip preferences, renders the clip, and pushes
// it through the upload client. The entry is marked uploaded only
// after the service confirmed an id.
func (e *Engine) uploadEntry(ctx context.Context, entry *model.WatchEntry) error {
	duration, err := e.Render.Duration(ctx, entry.Path)
	if err != nil {
		return err
	}
	maxSeconds := math.Floor(duration)

	title, err := e.Prompt.Text("Video title", e.Config.Clip.DefaultTitle)
	if err != nil {
		return err
	}
	description, err := e.Prompt.Text("Video description", e.Config.Clip.DefaultDescription)
	if err != nil {
		return err
	}
	seconds, err := e.Prompt.NumberInRange(
		fmt.Sprintf("Clip length in seconds from the end (0 = whole recording, max %d)", int(maxSeconds)),
		0, maxSeconds, 0, false, false)
	if err != nil {
		return err
	}
	threads, err := e.Prompt.NumberInRange(
		"Render threads",
		1, float64(e.Config.Clip.MaxThreads), float64(e.Config.Clip.DefaultThreads), true, false)
	if err != nil {
		return err
	}
	privacy, err := e.Prompt.SelectOne("Video privacy", privacyOptions, privacyKey(e.Config.Clip.DefaultPrivacy))
	if err != nil {
		return err
	}

	job := upload.NewClipJob(title, description, e.Config.Clip.DefaultTags, privacyLabel(privacy), entry.Path)
	e.Log.Info("clip preferences",
		"title", job.Title, "privacy", job.PrivacyStatus,
		"seconds_from_end", int(seconds), "threads", int(threads))

	clipPath, err := e.Render.Render(ctx, ClipSpec{
		SourcePath:     entry.Path,
		SecondsFromEnd: int(seconds),
		Threads:        int(threads),
		BaseName:       job.ID,
	})
	if err != nil {
		return err
	}
	job.ClipPath = clipPath

	videoID, err := e.Upload.Upload(ctx, job)
	if err != nil {
		return err
	}
	entry.MarkUploaded()
	e.Log.Info("uploaded", "path", entry.Path, "video_id", videoID)
	return nil
}

// deleteEntry removes the backing file and then the ledger entry. A
// failed file removal keeps the entry: the file is still there, so the
// ledger must keep saying so.
func (e *Engine) deleteEntry(list *model.Watchlist, entry *model.WatchEntry, sum *Summary) {
	if err := os.Remove(entry.Path); err != nil {
		e.Log.Error("delete failed, entry kept", "path", entry.Path, "err", err)
		return
	}
	list.Remove(entry.Path)
	sum.Deleted++
	e.Log.Info("deleted", "path", entry.Path)
}

func (e *Engine) previewEntry(ctx context.Context, entry *model.WatchEntry) {
	if err := e.Preview.Preview(ctx, entry.Path); err != nil {
		e.Log.Warn("preview failed", "path", entry.Path, "err", err)
	}
}

func privacyKey(status string) string {
	for _, o := range privacyOptions {
		if o.Label == status {
			return o.Key
		}
	}
	return "u"
}

func privacyLabel(key string) string {
	for _, o := range privacyOptions {
		if o.Key == key {
			return o.Label
		}
	}
	return "unlisted"
}
