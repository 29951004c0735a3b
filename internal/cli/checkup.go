package cli

import (
	"context"
	"fmt"
	"log/slog"

	"clipkeeper/internal/auth"
	"clipkeeper/internal/checkup"
	"clipkeeper/internal/config"
	"clipkeeper/internal/ledger"
	"clipkeeper/internal/logging"
	"clipkeeper/internal/media"
	"clipkeeper/internal/model"
	"clipkeeper/internal/prompt"
	"clipkeeper/internal/reconcile"
	"clipkeeper/internal/scan"
	"clipkeeper/internal/upload"
)

// run owns the whole invocation: everything between flag parsing and
// the final ledger save happens here, under the ledger lock.
func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.archiveDir != "" {
		cfg.Dirs.Archive = opts.archiveDir
	}
	log := logging.New(logging.Options{Quiet: opts.noInfo})

	lock, err := ledger.AcquireLock(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn("release ledger lock", "err", err)
		}
	}()

	store := ledger.NewStore(cfg.LedgerPath())

	if opts.reset {
		return resetLedger(store)
	}

	list, err := store.Load()
	if err != nil {
		return err
	}

	files, err := scan.Videos(cfg.Dirs.Videos, cfg.Dirs.Extensions)
	if err != nil {
		return err
	}
	res, err := reconcile.Merge(list, files)
	if err != nil {
		return err
	}
	if res.Added > 0 || res.Missing > 0 {
		log.Info("reconciled watchlist", "added", res.Added, "missing", res.Missing)
	}
	if opts.clean {
		// The clean is persisted on the spot: it must survive even
		// when a later stage cannot run (no TTY, missing ffmpeg).
		dropped := list.DropMissing()
		if err := store.Save(list); err != nil {
			return err
		}
		log.Info("cleaned missing entries", "dropped", dropped)
		fmt.Printf("Dropped %d missing entries.\n", dropped)
	}

	switch {
	case opts.status:
		printStatus(list)
	case opts.archiveUploaded, opts.archiveAll:
		if err := bulkArchive(context.Background(), cfg, log, list, opts.archiveAll); err != nil {
			return err
		}
	case opts.clean:
		// A bare --clean is a maintenance operation, already saved
		// above; it does not start a checkup.
		return nil
	default:
		if err := interactiveCheckup(context.Background(), cfg, log, list, opts); err != nil {
			return err
		}
	}

	if err := store.Save(list); err != nil {
		return err
	}
	return nil
}

func resetLedger(store *ledger.Store) error {
	ok, err := promptConfirm(fmt.Sprintf("Wipe the ledger at %s? [y/N] ", store.Path()))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}
	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Println("Ledger reset.")
	return nil
}

// bulkArchive compresses the selected entries without prompting per
// file. A failed compression skips that entry and moves on.
func bulkArchive(ctx context.Context, cfg *config.Config, log *slog.Logger, list *model.Watchlist, all bool) error {
	if err := media.CheckDependencies(); err != nil {
		return err
	}

	var pending []*model.WatchEntry
	for _, e := range list.Entries() {
		if !e.Actionable() || e.Archived {
			continue
		}
		if !all && !e.Uploaded {
			continue
		}
		pending = append(pending, e)
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to archive.")
		return nil
	}

	if all {
		// Includes recordings never uploaded anywhere.
		ok, err := promptTyped(fmt.Sprintf("Archive all %d recordings, including ones never uploaded? Type 'yes' to continue: ", len(pending)), "yes")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Archive cancelled.")
			return nil
		}
	} else {
		ok, err := promptConfirm(fmt.Sprintf("Archive %d uploaded recordings? [y/N] ", len(pending)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Archive cancelled.")
			return nil
		}
	}

	archived := 0
	for _, e := range pending {
		dst, err := media.Compress(ctx, e.Path, cfg.Dirs.Archive, cfg.Archive.MaxFPS, cfg.Archive.MaxHeight)
		if err != nil {
			log.Error("archive failed, skipping", "path", e.Path, "err", err)
			continue
		}
		e.MarkArchived()
		archived++
		log.Info("archived", "path", e.Path, "archive", dst)
	}
	fmt.Printf("Archived %d of %d recordings.\n", archived, len(pending))
	return nil
}

func interactiveCheckup(ctx context.Context, cfg *config.Config, log *slog.Logger, list *model.Watchlist, opts options) error {
	if err := media.CheckDependencies(); err != nil {
		return err
	}
	tui, err := prompt.NewTUI()
	if err != nil {
		return err
	}

	eng := &checkup.Engine{
		Config:  cfg,
		Log:     log,
		Prompt:  tui,
		Render:  mediaRenderer{clipsDir: cfg.Dirs.Clips},
		Preview: mediaPreviewer{command: cfg.Preview.Command},
		Archive: mediaArchiver{dstDir: cfg.Dirs.Archive, maxFPS: cfg.Archive.MaxFPS, maxHeight: cfg.Archive.MaxHeight},
		Upload:  &lazyUploader{cfg: cfg, log: log},
	}
	sum, err := eng.Run(ctx, list, checkup.Options{IgnoreUploaded: opts.ignoreUploaded})
	if err != nil {
		return err
	}
	fmt.Printf("Checked %d recordings: %d uploaded, %d archived, %d deleted, %d ignored, %d skipped.\n",
		sum.Checked, sum.Uploaded, sum.Archived, sum.Deleted, sum.Ignored, sum.Skipped)
	return nil
}

type mediaRenderer struct {
	clipsDir string
}

func (r mediaRenderer) Duration(ctx context.Context, path string) (float64, error) {
	info, err := media.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

func (r mediaRenderer) Render(ctx context.Context, spec checkup.ClipSpec) (string, error) {
	return media.RenderClip(ctx, media.ClipOptions{
		SourcePath:     spec.SourcePath,
		OutputDir:      r.clipsDir,
		SecondsFromEnd: spec.SecondsFromEnd,
		Threads:        spec.Threads,
		BaseName:       spec.BaseName,
	})
}

type mediaPreviewer struct {
	command string
}

func (p mediaPreviewer) Preview(ctx context.Context, path string) error {
	return media.Preview(ctx, path, p.command)
}

type mediaArchiver struct {
	dstDir    string
	maxFPS    float64
	maxHeight int
}

func (a mediaArchiver) Compress(ctx context.Context, src string) (string, error) {
	return media.Compress(ctx, src, a.dstDir, a.maxFPS, a.maxHeight)
}

// lazyUploader defers the OAuth flow until the operator actually picks
// an upload, so runs that only archive or delete never touch the
// network or ask for a browser authorization.
type lazyUploader struct {
	cfg    *config.Config
	log    *slog.Logger
	client *upload.Client
}

func (u *lazyUploader) Upload(ctx context.Context, job upload.ClipJob) (string, error) {
	if u.client == nil {
		svc, err := auth.Service(ctx, u.cfg.YouTube.ClientSecretsFile, u.cfg.YouTube.TokenFile)
		if err != nil {
			return "", fmt.Errorf("youtube session: %w", err)
		}
		u.client = upload.NewClient(svc, u.cfg.YouTube.ChunkSizeMiB, u.log)
	}
	return u.client.Upload(ctx, job)
}
