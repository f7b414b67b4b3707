package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/epubtools/epubscan/internal/model"
)

// Validator validates a single archive. It is implemented by
// *epub.Validator; the scanner depends on the interface so tests can
// substitute a canned validator.
type Validator interface {
	Validate(archivePath string) *model.ValidationResult
}

// Scanner scans a directory of EPUB archives.
//
// Design decision: validations share no mutable state, so the scanner can
// run them concurrently. We use errgroup.SetLimit with an index-addressed
// results slice rather than a channel-based worker pool: each archive keeps
// its discovery-order slot regardless of completion order, which keeps the
// partition and all diagnostic output deterministic.
type Scanner struct {
	validator Validator
	logger    *slog.Logger

	// batchSize is the number of concurrent validations. 1 means the
	// sequential reference behavior.
	batchSize int

	// isolate moves broken archives into a "broken" subdirectory after
	// validation completes.
	isolate bool

	// exclude holds base-name glob patterns of archives to skip.
	exclude []string

	// onResult, when set, is called once per archive in discovery order.
	onResult func(*model.ValidationResult)
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithLogger sets the logger for scan progress and relocation warnings.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithBatchSize sets the number of concurrent validations.
// Values below 1 are ignored.
func WithBatchSize(n int) ScanOption {
	return func(s *Scanner) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithIsolation enables relocation of broken archives into the "broken"
// subdirectory of the scanned directory.
func WithIsolation(isolate bool) ScanOption {
	return func(s *Scanner) {
		s.isolate = isolate
	}
}

// WithExcludePatterns sets base-name glob patterns of archives to skip
// during enumeration.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(s *Scanner) {
		s.exclude = patterns
	}
}

// WithResultCallback registers a callback invoked once per validated
// archive, in discovery order. In sequential mode the callback fires as soon
// as each archive finishes; in concurrent mode it fires after all
// validations complete. It is always called from a single goroutine.
func WithResultCallback(fn func(*model.ValidationResult)) ScanOption {
	return func(s *Scanner) {
		s.onResult = fn
	}
}

// New creates a Scanner driving the given validator.
func New(validator Validator, opts ...ScanOption) *Scanner {
	s := &Scanner{
		validator: validator,
		batchSize: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan validates every *.epub file directly inside directory and returns the
// outcome. The enumeration is non-recursive and the glob is case-sensitive.
//
// A missing directory or an empty match is terminal and returns an error
// with no archives processed. Per-archive failures (bad containers, failed
// relocations) never abort the batch.
func (s *Scanner) Scan(ctx context.Context, directory string) (*model.ScanOutcome, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, directory)
		}
		return nil, fmt.Errorf("stat %s: %w", directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, directory)
	}

	paths, err := s.listArchives(directory)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArchives, directory)
	}

	s.logger.Info("starting validation",
		"directory", directory,
		"archives", len(paths),
		"batchSize", s.batchSize,
	)

	outcome := model.NewScanOutcome(directory)
	outcome.Results = make([]*model.ValidationResult, len(paths))

	if s.batchSize > 1 {
		err = s.validateConcurrent(ctx, paths, outcome)
	} else {
		err = s.validateSequential(ctx, paths, outcome)
	}
	if err != nil {
		return nil, err
	}

	// Relocation runs on this goroutine only, after all validations have
	// completed, so the check-then-move below has a single writer.
	if s.isolate && outcome.BrokenCount() > 0 {
		s.isolateBroken(outcome)
	}

	return outcome, nil
}

// listArchives enumerates *.epub files directly under directory, dropping
// any that match an exclude pattern. Matching is done against entry names
// rather than globbing the joined path, so metacharacters in the directory
// name itself (e.g. "books [fiction]") are taken literally. os.ReadDir
// returns entries sorted by name, so discovery order is stable across runs.
func (s *Scanner) listArchives(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", directory, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match("*.epub", e.Name()); !ok {
			continue
		}
		if s.isExcluded(e.Name()) {
			s.logger.Debug("skipping excluded archive", "archive", e.Name())
			continue
		}
		paths = append(paths, filepath.Join(directory, e.Name()))
	}
	return paths, nil
}

// isExcluded reports whether name matches any configured exclude pattern.
// Malformed patterns never match.
func (s *Scanner) isExcluded(name string) bool {
	for _, pattern := range s.exclude {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// validateSequential validates archives one at a time, firing the result
// callback as each archive completes.
func (s *Scanner) validateSequential(ctx context.Context, paths []string, outcome *model.ScanOutcome) error {
	for i, p := range paths {
		// Cancellation is observed between archives; an in-flight
		// validation always runs to completion.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := s.validator.Validate(p)
		outcome.Results[i] = result
		if s.onResult != nil {
			s.onResult(result)
		}
	}
	return nil
}

// validateConcurrent validates archives under an errgroup bounded by
// batchSize. Results land in their discovery-order slots; the callback runs
// after the wait so its ordering matches the sequential path.
func (s *Scanner) validateConcurrent(ctx context.Context, paths []string, outcome *model.ScanOutcome) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchSize)

	for i, p := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			outcome.Results[i] = s.validator.Validate(p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if s.onResult != nil {
		for _, result := range outcome.Results {
			s.onResult(result)
		}
	}
	return nil
}
