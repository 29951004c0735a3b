package checkup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"clipkeeper/internal/config"
	"clipkeeper/internal/model"
	"clipkeeper/internal/prompt"
	"clipkeeper/internal/upload"
)

type scriptedPrompter struct {
	selections []string
	numbers    []float64
	texts      []string
	selectErr  error
}

func (p *scriptedPrompter) SelectOne(desc string, options []prompt.Option, defaultKey string) (string, error) {
	if p.selectErr != nil {
		return "", p.selectErr
	}
	if len(p.selections) == 0 {
		return "", errors.New("scripted prompter ran out of selections")
	}
	v := p.selections[0]
	p.selections = p.selections[1:]
	return v, nil
}

func (p *scriptedPrompter) NumberInRange(desc string, min, max, def float64, hasDefault, allowFloat bool) (float64, error) {
	if len(p.numbers) == 0 {
		return 0, errors.New("scripted prompter ran out of numbers")
	}
	v := p.numbers[0]
	p.numbers = p.numbers[1:]
	return v, nil
}

func (p *scriptedPrompter) Text(desc, def string) (string, error) {
	if len(p.texts) == 0 {
		return def, nil
	}
	v := p.texts[0]
	p.texts = p.texts[1:]
	return v, nil
}

type fakeRenderer struct {
	duration float64
	clipPath string
	renders  []ClipSpec
	err      error
}

func (r *fakeRenderer) Duration(ctx context.Context, path string) (float64, error) {
	return r.duration, nil
}

func (r *fakeRenderer) Render(ctx context.Context, spec ClipSpec) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.renders = append(r.renders, spec)
	return r.clipPath, nil
}

type fakePreviewer struct {
	previews int
	err      error
}

func (p *fakePreviewer) Preview(ctx context.Context, path string) error {
	p.previews++
	return p.err
}

type fakeArchiver struct {
	compressed []string
	err        error
}

func (a *fakeArchiver) Compress(ctx context.Context, src string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.compressed = append(a.compressed, src)
	return src + ".archived.mp4", nil
}

type fakeUploader struct {
	jobs []upload.ClipJob
	err  error
}

func (u *fakeUploader) Upload(ctx context.Context, job upload.ClipJob) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.jobs = append(u.jobs, job)
	return "vid-123", nil
}

func testEngine(p prompt.Prompter, r *fakeRenderer, pv *fakePreviewer, a *fakeArchiver, u *fakeUploader) *Engine {
	cfg := config.Default()
	return &Engine{
		Config:  &cfg,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Prompt:  p,
		Render:  r,
		Preview: pv,
		Archive: a,
		Upload:  u,
	}
}

func writeVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func listWith(t *testing.T, entries ...*model.WatchEntry) *model.Watchlist {
	t.Helper()
	list := model.NewWatchlist()
	for _, e := range entries {
		if err := list.Append(e); err != nil {
			t.Fatalf("append %s: %v", e.Path, err)
		}
	}
	return list
}

func TestRun_SkipLeavesEntryUntouched(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{selections: []string{"s"}}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Checked != 1 || sum.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	e, _ := list.Lookup(path)
	if e.Uploaded || e.Archived || e.Ignored {
		t.Fatalf("skip mutated entry: %+v", e)
	}
}

func TestRun_UploadFlowMarksUploadedAndContinuesToArchive(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	// upload, then archive in the same run.
	p := &scriptedPrompter{
		selections: []string{"u", "pr", "a"},
		numbers:    []float64{30, 2},
		texts:      []string{"Ranked finals", "Close game."},
	}
	r := &fakeRenderer{duration: 1800.7, clipPath: "/tmp/clip.mp4"}
	a := &fakeArchiver{}
	u := &fakeUploader{}
	eng := testEngine(p, r, &fakePreviewer{}, a, u)

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Uploaded != 1 || sum.Archived != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	e, _ := list.Lookup(path)
	if !e.Uploaded || !e.Archived {
		t.Fatalf("entry flags not set: %+v", e)
	}

	if len(r.renders) != 1 {
		t.Fatalf("expected 1 render, got %d", len(r.renders))
	}
	spec := r.renders[0]
	if spec.SecondsFromEnd != 30 || spec.Threads != 2 || spec.SourcePath != path {
		t.Fatalf("unexpected clip spec: %+v", spec)
	}

	if len(u.jobs) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(u.jobs))
	}
	job := u.jobs[0]
	if job.Title != "Ranked finals" || job.PrivacyStatus != "private" || job.ClipPath != "/tmp/clip.mp4" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if spec.BaseName != job.ID {
		t.Fatalf("clip base name %q does not match job id %q", spec.BaseName, job.ID)
	}

	if len(a.compressed) != 1 || a.compressed[0] != path {
		t.Fatalf("unexpected archive calls: %v", a.compressed)
	}
}

func TestRun_UploadFailureKeepsEntryPending(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{
		selections: []string{"u", "u"},
		numbers:    []float64{0, 4},
	}
	u := &fakeUploader{err: errors.New("giving up after 10 attempts")}
	eng := testEngine(p, &fakeRenderer{duration: 60, clipPath: "/tmp/clip.mp4"}, &fakePreviewer{}, &fakeArchiver{}, u)

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Uploaded != 0 {
		t.Fatalf("upload counted despite failure: %+v", sum)
	}
	e, _ := list.Lookup(path)
	if e.Uploaded {
		t.Fatalf("entry marked uploaded despite failure")
	}
}

func TestRun_DeleteRemovesFileAndEntry(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{selections: []string{"d"}}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Deleted != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists after delete")
	}
	if _, ok := list.Lookup(path); ok {
		t.Fatalf("entry still in watchlist after delete")
	}
}

func TestRun_DeleteFailureKeepsEntry(t *testing.T) {
	list := listWith(t, &model.WatchEntry{Path: filepath.Join(t.TempDir(), "already-gone.mp4")})

	p := &scriptedPrompter{selections: []string{"d"}}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Deleted != 0 {
		t.Fatalf("delete counted despite failure: %+v", sum)
	}
	if list.Len() != 1 {
		t.Fatalf("entry removed despite failed delete")
	}
}

func TestRun_IgnorePersistsAndExcludesNextRun(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{selections: []string{"i"}}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	if _, err := eng.Run(context.Background(), list, Options{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	e, _ := list.Lookup(path)
	if !e.Ignored {
		t.Fatalf("entry not ignored")
	}

	// Second run must not prompt at all; the scripted prompter would
	// error if asked again.
	p.selections = nil
	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if sum.Checked != 0 {
		t.Fatalf("ignored entry checked again: %+v", sum)
	}
}

func TestRun_MissingEntriesAreNotChecked(t *testing.T) {
	list := listWith(t, &model.WatchEntry{Path: "/nope/gone.mp4", Missing: true})

	p := &scriptedPrompter{}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Checked != 0 {
		t.Fatalf("missing entry checked: %+v", sum)
	}
}

func TestRun_IgnoreUploadedSkipsArchiveStage(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path, Uploaded: true})

	// No selections scripted: with IgnoreUploaded the engine must not
	// prompt for an already-uploaded entry.
	p := &scriptedPrompter{}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{IgnoreUploaded: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Checked != 1 || sum.Archived != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_ArchivedEntryOffersDeleteNotArchive(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path, Uploaded: true, Archived: true})

	p := &scriptedPrompter{selections: []string{"d"}}
	a := &fakeArchiver{}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, a, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Deleted != 1 || len(a.compressed) != 0 {
		t.Fatalf("unexpected outcome: %+v, archives %v", sum, a.compressed)
	}
}

func TestRun_PreviewLoopsBackToMenu(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{selections: []string{"p", "p", "s"}}
	pv := &fakePreviewer{}
	eng := testEngine(p, &fakeRenderer{}, pv, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if pv.previews != 2 {
		t.Fatalf("expected 2 previews, got %d", pv.previews)
	}
	if sum.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_InterruptStopsWithoutError(t *testing.T) {
	dir := t.TempDir()
	first := writeVideo(t, dir, "a.mp4")
	second := writeVideo(t, dir, "b.mp4")
	list := listWith(t,
		&model.WatchEntry{Path: first},
		&model.WatchEntry{Path: second},
	)

	p := &scriptedPrompter{selectErr: prompt.ErrInterrupted}
	eng := testEngine(p, &fakeRenderer{}, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	sum, err := eng.Run(context.Background(), list, Options{})
	if err != nil {
		t.Fatalf("interrupt should not surface as an error: %v", err)
	}
	if sum.Checked != 1 {
		t.Fatalf("expected run to stop at first entry, got %+v", sum)
	}
}

func TestRun_WholeVideoUploadUsesZeroSecondsFromEnd(t *testing.T) {
	path := writeVideo(t, t.TempDir(), "match.mp4")
	list := listWith(t, &model.WatchEntry{Path: path})

	p := &scriptedPrompter{
		selections: []string{"u", "u", "s"},
		numbers:    []float64{0, 4},
	}
	r := &fakeRenderer{duration: 120, clipPath: "/tmp/clip.mp4"}
	eng := testEngine(p, r, &fakePreviewer{}, &fakeArchiver{}, &fakeUploader{})

	if _, err := eng.Run(context.Background(), list, Options{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(r.renders) != 1 || r.renders[0].SecondsFromEnd != 0 {
		t.Fatalf("expected whole-video render, got %+v", r.renders)
	}
}
