// Package trackedfiles is the demo host app's filesystem-backed
// collection: every file under a watched directory becomes a
// TrackedFile entry in a CellVec, added and removed as fsnotify events
// arrive, with a gobreaker+backoff guard around the (stubbed) header
// parse so a flaky or momentarily-locked file doesn't take down the
// whole watch loop.
//
// Grounded on the teacher's registry.Cell actor loop for the
// single-goroutine-owns-its-state shape, and on
// internal/handler/amqp/listeners.go for draining an external event
// source (there, AMQP deliveries; here, fsnotify.Watcher.Events) inside
// that same loop instead of a separate consumer.
package trackedfiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/relay"
	"github.com/novywave/reactivecore/internal/scheduler"
	"github.com/novywave/reactivecore/internal/signal"
	"github.com/novywave/reactivecore/internal/trace"
)

// summaryCacheCapacity bounds how many distinct paths' last-seen header
// summaries are remembered; a watched directory larger than this just
// loses the redundant-write suppression for its least-recently-touched
// files, it never errors.
const summaryCacheCapacity = 1024

// parseSnapshot is what gets summarized per path: fsnotify fires Write for
// touches that don't change content (many editors rewrite-in-place on
// every keystroke debounce), and re-emitting an UpdateAt for an unchanged
// header would push a redundant diff to every subscriber.
type parseSnapshot struct {
	header ParsedHeader
	errText string
}

func summarizeParse(s parseSnapshot) string {
	return fmt.Sprintf("%d|%s", s.header.SizeBytes, s.errText)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ParsedHeader stands in for a real waveform file's header metadata.
// Parsing actual wave file formats (VCD, FST, ...) is out of scope for
// this core; what matters here is the resilience shape around an
// operation that can fail transiently.
type ParsedHeader struct {
	SizeBytes int64
}

// TrackedFile is one entry in the tracked-files collection. ID is a stable
// identity assigned once when a path is first tracked and kept across
// subsequent UpdateAt diffs for the same path — obslog.Summary logs a
// TrackedFile by ID rather than its full (potentially long) Path, per
// spec.md §6's "identity-plus-summary, never a full dump" rule.
type TrackedFile struct {
	ID     string
	Path   string
	Header ParsedHeader
	Err    error
}

// String implements fmt.Stringer so obslog.Summary renders a TrackedFile by
// its ID and base name instead of reflecting over the full struct.
func (f TrackedFile) String() string {
	return fmt.Sprintf("TrackedFile(%s, %s)", f.ID, filepath.Base(f.Path))
}

// TrackedFiles is the filesystem-watching aggregate.
type TrackedFiles struct {
	Vec         *cell.CellVec[TrackedFile]
	FileDropped relay.Stream[string]
	FileRemoved relay.Stream[string]
}

// New starts watching dir and returns the aggregate. The watcher and its
// driver goroutine are both owned by the returned CellVec; cancel ctx to
// stop watching. hook, if non-nil, feeds the debug connection graph; pass
// nil when no graph is wired.
func New(ctx context.Context, sched scheduler.Scheduler, log *obslog.Logger, hook trace.Hook, dir string, retryMax time.Duration) (*TrackedFiles, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("trackedfiles: creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("trackedfiles: watching %q: %w", dir, err)
	}

	droppedSender, droppedStream := relay.New[string]("trackedfiles_file_dropped_relay", log, hook, "trackedfiles")
	removedSender, removedStream := relay.New[string]("trackedfiles_file_removed_relay", log, hook, "trackedfiles")

	cb := gobreaker.NewCircuitBreaker[ParsedHeader](gobreaker.Settings{
		Name:    "trackedfiles-header-parse",
		Timeout: 30 * time.Second,
	})

	initial, err := scanExisting(ctx, cb, retryMax, dir)
	if err != nil && log != nil {
		log.Error("trackedfiles: initial scan failed", "dir", dir, "err", err)
	}

	vec := cell.NewVec[TrackedFile](ctx, sched, "tracked_files", log, nil, func(ctx context.Context, w *cell.VecWriteHandle[TrackedFile]) {
		runDriver(ctx, w, watcher, cb, retryMax, initial, droppedSender, removedSender, log)
	})

	return &TrackedFiles{Vec: vec, FileDropped: droppedStream, FileRemoved: removedStream}, nil
}

// scanExisting parses every regular file already present in dir before the
// watch loop starts, one goroutine per file via errgroup so a directory
// full of files doesn't serialize behind each other's parse latency. The
// parsed batch is handed to the driver as its first write rather than
// pushed one at a time, so a late subscriber's initial Replace diff already
// reflects the pre-existing contents instead of an empty vec followed by a
// burst of Push diffs.
func scanExisting(ctx context.Context, cb *gobreaker.CircuitBreaker[ParsedHeader], retryMax time.Duration, dir string) ([]TrackedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("trackedfiles: reading %q: %w", dir, err)
	}

	files := make([]TrackedFile, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		i, entry := i, entry
		if entry.IsDir() {
			continue
		}
		g.Go(func() error {
			path := filepath.Join(dir, entry.Name())
			header, perr := parseHeaderWithRetry(gctx, cb, retryMax, path)
			files[i] = TrackedFile{ID: uuid.NewString(), Path: path, Header: header, Err: perr}
			return nil // a per-file parse error is carried on TrackedFile.Err, never fails the scan
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]TrackedFile, 0, len(files))
	for _, f := range files {
		if f.Path != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

func runDriver(
	ctx context.Context,
	w *cell.VecWriteHandle[TrackedFile],
	watcher *fsnotify.Watcher,
	cb *gobreaker.CircuitBreaker[ParsedHeader],
	retryMax time.Duration,
	initial []TrackedFile,
	dropped, removed relay.Sender[string],
	log *obslog.Logger,
) {
	defer watcher.Close()

	// order mirrors the CellVec's current contents in the same order —
	// this driver's own cache of "where is this path in the vec", the
	// kind of actor-local mirror internal/cachecurrent documents.
	var order []string
	idOf := make(map[string]string)
	// summaries is never explicitly pruned on removal: NewSummaryCache is
	// already an LRU, so a removed path's stale entry just ages out on its
	// own if the path is never seen again.
	summaries := signal.NewSummaryCache[string, parseSnapshot](summaryCacheCapacity, summarizeParse)
	indexOf := func(path string) (int, bool) {
		for i, p := range order {
			if p == path {
				return i, true
			}
		}
		return -1, false
	}

	if len(initial) > 0 {
		w.Replace(initial)
		for _, f := range initial {
			order = append(order, f.Path)
			idOf[f.Path] = f.ID
			_, sum := summaries.Changed(f.Path, parseSnapshot{header: f.Header, errText: errText(f.Err)})
			summaries.Store(f.Path, sum)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				header, perr := parseHeaderWithRetry(ctx, cb, retryMax, ev.Name)
				changed, sum := summaries.Changed(ev.Name, parseSnapshot{header: header, errText: errText(perr)})
				if idx, exists := indexOf(ev.Name); exists {
					if changed {
						tf := TrackedFile{ID: idOf[ev.Name], Path: ev.Name, Header: header, Err: perr}
						w.UpdateAt(idx, tf)
						summaries.Store(ev.Name, sum)
					}
				} else {
					id := uuid.NewString()
					tf := TrackedFile{ID: id, Path: ev.Name, Header: header, Err: perr}
					w.Push(tf)
					order = append(order, ev.Name)
					idOf[ev.Name] = id
					summaries.Store(ev.Name, sum)
				}
				dropped.EmitFrom("trackedfiles.watchLoop", ev.Name)

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if idx, exists := indexOf(ev.Name); exists {
					w.RemoveAt(idx)
					order = append(order[:idx], order[idx+1:]...)
					delete(idOf, ev.Name)
				}
				removed.EmitFrom("trackedfiles.watchLoop", ev.Name)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if log != nil {
				log.Error("trackedfiles: watcher error", "err", werr)
			}
		}
	}
}

// parseHeaderWithRetry wraps the (stubbed) header parse in a circuit
// breaker and a bounded exponential backoff: a file mid-write can fail to
// open transiently, but a file that is genuinely gone or malformed
// should fail fast rather than retry forever. The failure, if any,
// is carried on the TrackedFile rather than propagated — the watch loop
// itself must never stop over one bad file.
func parseHeaderWithRetry(ctx context.Context, cb *gobreaker.CircuitBreaker[ParsedHeader], retryMax time.Duration, path string) (ParsedHeader, error) {
	return backoff.Retry(ctx, func() (ParsedHeader, error) {
		return cb.Execute(func() (ParsedHeader, error) {
			return parseHeaderOnce(path)
		})
	}, backoff.WithMaxElapsedTime(retryMax))
}

func parseHeaderOnce(path string) (ParsedHeader, error) {
	info, err := os.Stat(path)
	if err != nil {
		werr := fmt.Errorf("trackedfiles: stat %q: %w", path, err)
		if os.IsNotExist(err) {
			return ParsedHeader{}, backoff.Permanent(werr) // gone: retrying cannot help
		}
		return ParsedHeader{}, werr
	}
	return ParsedHeader{SizeBytes: info.Size()}, nil
}
