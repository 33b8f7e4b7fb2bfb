// Package probe lists directories, stats entries and sniffs content types on
// an afero filesystem, and applies the rename and remove operations of the
// explorer. Every failure comes back as a *domain.ProbeError.
package probe

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"earshot/internal/domain"
)

// DefaultTimeout bounds a single probe so a stuck mount cannot freeze navigation
const DefaultTimeout = 5 * time.Second

// Prober is the read-only filesystem collaborator of the navigator
type Prober interface {
	List(ctx context.Context, path string) (domain.Listing, error)
	Stat(ctx context.Context, path string) (domain.Entry, error)
	ContentType(ctx context.Context, path string) (string, error)
}

// Mutator changes the filesystem. A Prober that also implements Mutator
// enables rename and delete in the navigator.
type Mutator interface {
	Rename(ctx context.Context, from, to string) error
	Remove(ctx context.Context, path string) error
}

// Observer receives timing for every completed probe
type Observer func(domain.ProbeCompletedEvent)

// FSProbe implements Prober over an afero.Fs
type FSProbe struct {
	fs       afero.Fs
	timeout  time.Duration
	workers  int
	now      func() time.Time
	observer Observer
}

// Option configures an FSProbe
type Option func(*FSProbe)

// WithTimeout sets the per-probe deadline; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(p *FSProbe) { p.timeout = d }
}

// WithWorkers bounds the goroutines used to stat entries of one listing
func WithWorkers(n int) Option {
	return func(p *FSProbe) { p.workers = n }
}

// WithClock replaces time.Now for LoadedAt stamps
func WithClock(now func() time.Time) Option {
	return func(p *FSProbe) { p.now = now }
}

// WithObserver registers a callback for probe timings
func WithObserver(o Observer) Option {
	return func(p *FSProbe) { p.observer = o }
}

// New creates a probe over the given filesystem
func New(fsys afero.Fs, opts ...Option) *FSProbe {
	p := &FSProbe{
		fs:      fsys,
		timeout: DefaultTimeout,
		workers: 8,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOS creates a probe over the host filesystem
func NewOS(opts ...Option) *FSProbe {
	return New(afero.NewOsFs(), opts...)
}

// List reads the directory at path. A read error part way through yields the
// entries read so far with Err set; an error before any entry was read is
// returned as the error.
func (p *FSProbe) List(ctx context.Context, path string) (domain.Listing, error) {
	start := time.Now()
	listing, err := withDeadline(ctx, p.timeout, func() (domain.Listing, error) {
		return p.list(path)
	})
	if err != nil {
		perr := classify(path, err)
		p.observe(path, time.Since(start), 0, true)
		return domain.Listing{Path: path}, perr
	}
	p.observe(path, time.Since(start), len(listing.Entries), listing.Err != nil)
	return listing, nil
}

// Stat describes a single path without following a final symlink, then
// resolves the link target.
func (p *FSProbe) Stat(ctx context.Context, path string) (domain.Entry, error) {
	entry, err := withDeadline(ctx, p.timeout, func() (domain.Entry, error) {
		fi, err := p.lstat(path)
		if err != nil {
			return domain.Entry{}, err
		}
		return p.resolve(filepath.Dir(path), fi), nil
	})
	if err != nil {
		return domain.Entry{}, classify(path, err)
	}
	return entry, nil
}

func (p *FSProbe) list(path string) (domain.Listing, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return domain.Listing{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return domain.Listing{}, err
	}
	if !fi.IsDir() {
		return domain.Listing{}, domain.NewProbeError(domain.ProbeNotADirectory, path, syscall.ENOTDIR)
	}

	names, readErr := f.Readdirnames(-1)
	if readErr != nil && len(names) == 0 {
		return domain.Listing{}, readErr
	}

	mapper := iter.Mapper[string, *domain.Entry]{MaxGoroutines: p.workers}
	resolved := mapper.Map(names, func(name *string) *domain.Entry {
		return p.entry(path, *name)
	})

	entries := make([]domain.Entry, 0, len(resolved))
	for _, e := range resolved {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	listing := domain.Listing{
		Path:     path,
		Entries:  entries,
		LoadedAt: p.now(),
	}
	if readErr != nil {
		listing.Err = classify(path, readErr)
	}
	return listing, nil
}

// entry stats one name of a listing. Entries that vanished since the
// directory was read are skipped.
func (p *FSProbe) entry(dir, name string) *domain.Entry {
	full := filepath.Join(dir, name)
	fi, err := p.lstat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &domain.Entry{
			Path:    full,
			Name:    name,
			Kind:    domain.KindInaccessible,
			Failure: classify(full, err).Kind,
			Hidden:  hiddenName(name),
		}
	}
	e := p.resolve(dir, fi)
	return &e
}

func (p *FSProbe) resolve(dir string, fi os.FileInfo) domain.Entry {
	e := fromInfo(filepath.Join(dir, fi.Name()), fi)
	if e.Kind != domain.KindSymlink {
		return e
	}

	target, err := p.fs.Stat(e.Path)
	switch {
	case err == nil:
		e.Target = fromInfo(e.Path, target).Kind
		if e.Target == domain.KindFile {
			e.Size = target.Size()
			e.HasSize = true
		}
	case errors.Is(err, fs.ErrPermission):
		e.Kind = domain.KindInaccessible
		e.Failure = domain.ProbePermissionDenied
	default:
		e.Broken = true
	}
	return e
}

func (p *FSProbe) lstat(path string) (os.FileInfo, error) {
	if l, ok := p.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return p.fs.Stat(path)
}

func (p *FSProbe) observe(path string, d time.Duration, n int, failed bool) {
	if p.observer == nil {
		return
	}
	p.observer(domain.ProbeCompletedEvent{Path: path, Duration: d, Entries: n, Failed: failed})
}

func fromInfo(path string, fi os.FileInfo) domain.Entry {
	e := domain.Entry{
		Path:     path,
		Name:     fi.Name(),
		Mode:     fi.Mode(),
		Modified: fi.ModTime(),
		Hidden:   isHidden(fi),
	}
	mode := fi.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		e.Kind = domain.KindSymlink
	case mode.IsDir():
		e.Kind = domain.KindDirectory
	case mode.IsRegular():
		e.Kind = domain.KindFile
		e.Size = fi.Size()
		e.HasSize = true
	default:
		e.Kind = domain.KindSpecial
	}
	return e
}

// classify maps an arbitrary error to a ProbeError. Timeouts count as I/O errors.
func classify(path string, err error) *domain.ProbeError {
	if pe, ok := domain.AsProbeError(err); ok {
		return pe
	}
	kind := domain.ProbeIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = domain.ProbeNotFound
	case errors.Is(err, fs.ErrExist):
		kind = domain.ProbeExists
	case errors.Is(err, fs.ErrPermission):
		kind = domain.ProbePermissionDenied
	case errors.Is(err, syscall.ENOTDIR):
		kind = domain.ProbeNotADirectory
	}
	return domain.NewProbeError(kind, path, err)
}

// withDeadline runs fn on its own goroutine and gives up when ctx or the
// timeout expires. The abandoned goroutine finishes in the background.
func withDeadline[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
