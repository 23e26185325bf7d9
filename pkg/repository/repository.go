// Package repository persists Environment records to the workspace's
// data/<env-name>/ directories: one atomically-written state.json per
// environment, guarded by a file lock so that multiple CLI invocations
// touching the same workspace serialize rather than corrupt each other's
// writes.
//
// Grounded on the teacher's pkg/storage package shape (a single
// implementation behind a small interface-free struct, constructor
// injection of its root directory) but swaps BoltDB for flock'd JSON
// files — see DESIGN.md for why: this system is explicitly single-node,
// one environment at a time, and the on-disk record must remain a
// human-readable JSON document per spec §6.2, not an opaque embedded
// database.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/metrics"
)

// DefaultLockTimeout is the bounded wait spec §4.1 mandates before a
// mutating operation fails with LockContention.
const DefaultLockTimeout = 30 * time.Second

const (
	stateFileName = "state.json"
	lockFileName  = ".lock"
	tempFilePattern = ".state.*.tmp"
)

// Repository persists environment.Environment records under
// workspaceRoot/data/<name>/. A sibling workspaceRoot/build/<name>/ is
// owned by pkg/template, not this package.
type Repository struct {
	workspaceRoot string
	lockTimeout   time.Duration

	mu        sync.Mutex
	processMu map[string]*sync.Mutex // per-environment in-process serialization, layered under the file lock
}

// New returns a Repository rooted at workspaceRoot, using the spec's
// default 30s lock timeout.
func New(workspaceRoot string) *Repository {
	return &Repository{
		workspaceRoot: workspaceRoot,
		lockTimeout:   DefaultLockTimeout,
		processMu:     make(map[string]*sync.Mutex),
	}
}

// WithLockTimeout returns r with a different bounded wait, for tests that
// need to observe LockContention quickly.
func (r *Repository) WithLockTimeout(d time.Duration) *Repository {
	r.lockTimeout = d
	return r
}

func (r *Repository) dataDir(name string) string {
	return filepath.Join(r.workspaceRoot, "data", name)
}

func (r *Repository) statePath(name string) string {
	return filepath.Join(r.dataDir(name), stateFileName)
}

func (r *Repository) lockPath(name string) string {
	return filepath.Join(r.dataDir(name), lockFileName)
}

func (r *Repository) processMutex(name string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.processMu[name]
	if !ok {
		m = &sync.Mutex{}
		r.processMu[name] = m
	}
	return m
}

// lockHeldKey marks, via context, that the calling goroutine already
// holds name's lock — the re-entrant mutex spec §4.1 calls for, so a
// handler that holds the lock can call a helper that also locks the same
// environment without deadlocking against itself.
type lockHeldKey struct{ name string }

func lockAlreadyHeld(ctx context.Context, name string) bool {
	held, _ := ctx.Value(lockHeldKey{name}).(bool)
	return held
}

func withLockHeld(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, lockHeldKey{name}, true)
}

// withLock acquires name's lock (shared for reads, exclusive for writes),
// runs fn, and always releases the lock before returning — including on
// fn's error or panic-free early return paths, per spec §4.1's "always
// released on all exit paths."
func (r *Repository) withLock(ctx context.Context, name string, exclusive bool, fn func(ctx context.Context) error) error {
	if lockAlreadyHeld(ctx, name) {
		return fn(ctx)
	}

	pmu := r.processMutex(name)
	pmu.Lock()
	defer pmu.Unlock()

	fl := flock.New(r.lockPath(name))
	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	timer := metrics.NewTimer()
	var locked bool
	var err error
	if exclusive {
		locked, err = fl.TryLockContext(lockCtx, 100*time.Millisecond)
	} else {
		locked, err = fl.TryRLockContext(lockCtx, 100*time.Millisecond)
	}
	timer.ObserveDuration(metrics.LockWaitDuration)
	if err != nil || !locked {
		return apperror.Wrap(apperror.KindLockContention,
			fmt.Sprintf("repository: lock %s", r.lockPath(name)),
			fmt.Errorf("timed out after %s", r.lockTimeout))
	}
	defer fl.Unlock() //nolint - release is best-effort; the fd closes with the process regardless

	return fn(withLockHeld(ctx, name))
}

// Save atomically writes env's state, creating the data directory if this
// is a new environment. The write goes to a temp file in the same
// directory, is fsynced, then renamed over the target, so a crash mid-
// write leaves the previous state intact.
func (r *Repository) Save(ctx context.Context, env environment.Environment) error {
	name := env.UserInputs.Name.String()
	if err := os.MkdirAll(r.dataDir(name), 0o755); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "repository.Save: mkdir data dir", err)
	}

	return r.withLock(ctx, name, true, func(context.Context) error {
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: marshal", err)
		}

		dir := r.dataDir(name)
		tmp, err := os.CreateTemp(dir, tempFilePattern)
		if err != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: create temp file", err)
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath) // no-op once the rename below succeeds

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: write temp file", err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: fsync", err)
		}
		if err := tmp.Close(); err != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: close temp file", err)
		}

		if err := os.Rename(tmpPath, r.statePath(name)); err != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Save: rename", err)
		}
		return nil
	})
}

// Load reads and parses name's record. A missing record is a
// *NotFoundError; a present-but-unparseable record is a *CorruptedError.
func (r *Repository) Load(ctx context.Context, name string) (environment.Environment, error) {
	if _, err := os.Stat(r.dataDir(name)); os.IsNotExist(err) {
		return environment.Environment{}, apperror.Wrap(apperror.KindNotFound, "repository.Load", &NotFoundError{Name: name})
	}

	var env environment.Environment
	err := r.withLock(ctx, name, false, func(context.Context) error {
		data, readErr := os.ReadFile(r.statePath(name))
		if readErr != nil {
			if os.IsNotExist(readErr) {
				return apperror.Wrap(apperror.KindNotFound, "repository.Load", &NotFoundError{Name: name})
			}
			return apperror.Wrap(apperror.KindPersistence, "repository.Load: read", readErr)
		}
		if parseErr := json.Unmarshal(data, &env); parseErr != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Load: parse",
				&CorruptedError{Path: r.statePath(name), Cause: parseErr})
		}
		return nil
	})
	if err != nil {
		return environment.Environment{}, err
	}
	return env, nil
}

// Exists reports whether name has a persisted record, without error for
// "not present" — a successful answer, distinct from Load's NotFoundError.
func (r *Repository) Exists(name string) bool {
	_, err := os.Stat(r.statePath(name))
	return err == nil
}

// Remove deletes name's entire data directory (purge). Idempotent: a
// name with no record removes successfully too.
func (r *Repository) Remove(ctx context.Context, name string) error {
	if _, err := os.Stat(r.dataDir(name)); os.IsNotExist(err) {
		return nil
	}
	return r.withLock(ctx, name, true, func(context.Context) error {
		if err := os.RemoveAll(r.dataDir(name)); err != nil {
			return apperror.Wrap(apperror.KindPersistence, "repository.Remove", err)
		}
		return nil
	})
}

// List scans every environment under data/, skipping and reporting
// (rather than aborting on) any record it cannot parse. An empty or
// absent workspace is not a failure: TotalCount is 0 and Warnings is
// empty.
func (r *Repository) List(ctx context.Context) (ListResult, error) {
	root := filepath.Join(r.workspaceRoot, "data")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return ListResult{}, nil
		}
		return ListResult{}, apperror.Wrap(apperror.KindPersistence, "repository.List: read data dir", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	result := ListResult{}
	for _, name := range names {
		env, loadErr := r.Load(ctx, name)
		if loadErr != nil {
			var corrupted *CorruptedError
			if apperror.Is(loadErr, apperror.KindPersistence) {
				if ce, ok := asCorrupted(loadErr); ok {
					corrupted = ce
				}
			}
			if corrupted != nil {
				result.Warnings = append(result.Warnings, Warning{
					Kind:    "corrupted",
					Path:    corrupted.Path,
					Message: corrupted.Error(),
				})
				continue
			}
			// Any other load failure (e.g. a lock we couldn't acquire in
			// time) is also reported as a warning rather than aborting
			// the whole scan, consistent with spec §4.9's "never aborts".
			result.Warnings = append(result.Warnings, Warning{
				Kind:    string(apperror.KindOf(loadErr)),
				Path:    r.statePath(name),
				Message: loadErr.Error(),
			})
			continue
		}
		result.Environments = append(result.Environments, env.ToSummary())
		result.TotalCount++
	}
	return result, nil
}

func asCorrupted(err error) (*CorruptedError, bool) {
	type unwrapper interface{ Unwrap() error }
	for e := err; e != nil; {
		if ce, ok := e.(*CorruptedError); ok {
			return ce, true
		}
		u, ok := e.(unwrapper)
		if !ok {
			return nil, false
		}
		e = u.Unwrap()
	}
	return nil, false
}
