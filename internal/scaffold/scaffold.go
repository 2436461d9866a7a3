// Package scaffold materializes rendered template files on disk, and removes
// them again in revert mode.
package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/output"
	"github.com/wrenworks/wren/internal/render"
)

const (
	dirMode  = 0755
	fileMode = 0644

	minConcurrency = 2
	maxConcurrency = 8
)

// Options configures how file operations are applied.
type Options struct {
	Revert bool // apply the inverse operation: delete, or textual un-append
	DryRun bool // report planned outcomes without touching disk
	Force  bool // treat create as overwrite
}

// Scaffolder applies a generator's file specs against a context. Files within
// one generator fan out concurrently; generators themselves must be applied
// sequentially by the caller, since later generators may read files written by
// earlier ones.
type Scaffolder struct {
	renderer       *render.Renderer
	sequencer      Sequencer
	migrationsType string
	workers        int64
}

// New creates a scaffolder with conventional defaults.
func New(renderer *render.Renderer) *Scaffolder {
	workers := int64(runtime.NumCPU())
	workers = min(max(workers, minConcurrency), maxConcurrency)

	return &Scaffolder{
		renderer:       renderer,
		sequencer:      DefaultSequencer(),
		migrationsType: "migrations",
		workers:        workers,
	}
}

// Configure applies project settings to the scaffolder.
func (s *Scaffolder) Configure(cfg *config.Settings) {
	if cfg.MigrationsType != "" {
		s.migrationsType = cfg.MigrationsType
	}
	if cfg.MigrationStep > 0 {
		s.sequencer.Step = cfg.MigrationStep
	}
	if cfg.MigrationWidth > 0 {
		s.sequencer.Width = cfg.MigrationWidth
	}
}

// ApplyGenerator applies every file spec of def. A missing revert target is
// collected and joined into the returned error without stopping sibling
// files; any other failure cancels not-yet-started siblings and is returned
// as the first fatal error. Outcomes are indexed like def.Files.
func (s *Scaffolder) ApplyGenerator(ctx context.Context, def *config.Definition, tctx *Context, opts Options) ([]Outcome, error) {
	// Migration files are numbered from the directory's current contents,
	// so each write must observe its predecessors. No fan-out for them.
	if def.Type == s.migrationsType {
		return s.applySequential(def, tctx, opts)
	}

	outcomes := make([]Outcome, len(def.Files))
	soft := make([]error, len(def.Files))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(s.workers)

	for i := range def.Files {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			outcome, err := s.applyFile(def, &def.Files[i], tctx, opts)
			outcomes[i] = outcome
			if err != nil {
				var missing *MissingTargetError
				if errors.As(err, &missing) {
					soft[i] = err
					return nil
				}
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, errors.Join(soft...)
}

// applySequential applies file specs one at a time, in order.
func (s *Scaffolder) applySequential(def *config.Definition, tctx *Context, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(def.Files))
	soft := make([]error, len(def.Files))

	for i := range def.Files {
		outcome, err := s.applyFile(def, &def.Files[i], tctx, opts)
		outcomes[i] = outcome
		if err != nil {
			var missing *MissingTargetError
			if errors.As(err, &missing) {
				soft[i] = err
				continue
			}
			return outcomes, err
		}
	}

	return outcomes, errors.Join(soft...)
}

// applyFile renders the destination path and performs the requested
// operation, or its inverse in revert mode.
func (s *Scaffolder) applyFile(def *config.Definition, file *config.FileSpec, tctx *Context, opts Options) (Outcome, error) {
	data := tctx.Data()

	parent := file.ParentPath
	if parent == "" {
		parent = tctx.ParentPath
	}
	pathTemplate := file.Base
	if parent != "" {
		pathTemplate = parent + "/" + file.Base
	}

	to := filepath.Clean(filepath.FromSlash(s.renderOrRaw(pathTemplate, pathTemplate, data)))

	if !opts.Revert && def.Type == s.migrationsType {
		numbered, err := s.numberMigration(to, opts)
		if err != nil {
			return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
		}
		to = numbered
	}

	if opts.Revert {
		return s.revertFile(file, to, data, opts)
	}
	return s.writeFile(file, to, data, opts)
}

// numberMigration ensures the destination directory exists and prefixes the
// base name with the next sequence number.
func (s *Scaffolder) numberMigration(to string, opts Options) (string, error) {
	dir := filepath.Dir(to)
	if !opts.DryRun {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return "", fmt.Errorf("creating migrations directory %s: %w", dir, err)
		}
	}

	num, err := s.sequencer.Next(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, num+"_"+filepath.Base(to)), nil
}

func (s *Scaffolder) writeFile(file *config.FileSpec, to string, data map[string]any, opts Options) (Outcome, error) {
	raw, err := os.ReadFile(file.From)
	if err != nil {
		err = fmt.Errorf("reading template %s: %w", file.From, err)
		return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
	}

	content := []byte(s.renderOrRaw(file.From, string(raw), data))

	method := file.Method
	if opts.Force && method == config.MethodCreate {
		method = config.MethodOverwrite
	}

	switch method {
	case config.MethodCreate:
		if _, err := os.Stat(to); err == nil {
			return Outcome{Path: to, Action: ActionSkipped, Note: "already exists"}, nil
		}
		if opts.DryRun {
			return Outcome{Path: to, Action: ActionCreated, Note: "dry run"}, nil
		}
		if err := s.write(to, content); err != nil {
			return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
		}
		return Outcome{Path: to, Action: ActionCreated}, nil

	case config.MethodOverwrite:
		_, statErr := os.Stat(to)
		existed := statErr == nil

		action := ActionOverwritten
		if !existed {
			action = ActionCreated
		}
		if opts.DryRun {
			return Outcome{Path: to, Action: action, Note: "dry run"}, nil
		}
		if err := s.write(to, content); err != nil {
			return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
		}
		return Outcome{Path: to, Action: action}, nil

	case config.MethodAppend:
		if opts.DryRun {
			return Outcome{Path: to, Action: ActionAppended, Note: "dry run"}, nil
		}
		if err := s.appendTo(to, content); err != nil {
			return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
		}
		return Outcome{Path: to, Action: ActionAppended}, nil
	}

	err = fmt.Errorf("unknown method %q for %s", method, to)
	return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
}

func (s *Scaffolder) revertFile(file *config.FileSpec, to string, data map[string]any, opts Options) (Outcome, error) {
	if file.Method != config.MethodAppend {
		if opts.DryRun {
			if _, err := os.Stat(to); err != nil {
				return Outcome{Path: to, Action: ActionFailed, Note: "missing"}, &MissingTargetError{Path: to}
			}
			return Outcome{Path: to, Action: ActionDeleted, Note: "dry run"}, nil
		}

		err := os.Remove(to)
		if os.IsNotExist(err) {
			return Outcome{Path: to, Action: ActionFailed, Note: "missing"}, &MissingTargetError{Path: to}
		}
		if err != nil {
			return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
		}
		return Outcome{Path: to, Action: ActionDeleted}, nil
	}

	// Textual un-append: re-render the template and remove the first literal
	// occurrence of that exact text. The rendered text must match what was
	// appended byte for byte.
	raw, err := os.ReadFile(file.From)
	if err != nil {
		err = fmt.Errorf("reading template %s: %w", file.From, err)
		return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
	}
	content := []byte(s.renderOrRaw(file.From, string(raw), data))

	existing, err := os.ReadFile(to)
	if os.IsNotExist(err) {
		return Outcome{Path: to, Action: ActionFailed, Note: "missing"}, &MissingTargetError{Path: to}
	}
	if err != nil {
		return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
	}

	idx := bytes.Index(existing, content)
	if idx < 0 {
		return Outcome{Path: to, Action: ActionUnchanged, Note: "appended content not found"}, nil
	}
	if opts.DryRun {
		return Outcome{Path: to, Action: ActionUnappended, Note: "dry run"}, nil
	}

	updated := make([]byte, 0, len(existing)-len(content))
	updated = append(updated, existing[:idx]...)
	updated = append(updated, existing[idx+len(content):]...)

	if err := os.WriteFile(to, updated, fileMode); err != nil {
		return Outcome{Path: to, Action: ActionFailed, Note: err.Error()}, err
	}
	return Outcome{Path: to, Action: ActionUnappended}, nil
}

// renderOrRaw renders a template, falling back to the raw text on failure.
// A render failure is a diagnostic, never an abort.
func (s *Scaffolder) renderOrRaw(name, templateStr string, data map[string]any) string {
	out, err := s.renderer.Render(name, templateStr, data)
	if err != nil {
		output.Error(fmt.Sprintf("%v (using raw template text)", err))
		return templateStr
	}
	return out
}

func (s *Scaffolder) write(to string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(to), dirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(to), err)
	}
	if err := os.WriteFile(to, content, fileMode); err != nil {
		return fmt.Errorf("writing %s: %w", to, err)
	}
	return nil
}

func (s *Scaffolder) appendTo(to string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(to), dirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(to), err)
	}

	f, err := os.OpenFile(to, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", to, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("appending to %s: %w", to, err)
	}
	return nil
}
