// Package staging manages the per-run working directories and the
// finished-archive store used for the already-billed check.
package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/andeslabs/facturador/internal/config"
)

var ErrRunNotFound = errors.New("staged run not found")

// Store hands out isolated run directories and records finished archives.
type Store interface {
	NewRun() (*Run, error)
	OpenRun(id string) (*Run, error)
	SaveArchive(name string, data []byte) (string, error)
	// AlreadyBilled reports whether an archive with this name was already
	// produced by an earlier run.
	AlreadyBilled(name string) bool
}

type store struct {
	runsDir   string
	outputDir string
	keepRuns  bool
	node      *snowflake.Node
	logger    *zap.Logger
}

func NewStore(cfg *config.Config, node *snowflake.Node, logger *zap.Logger) (Store, error) {
	for _, dir := range []string{cfg.Staging.Dir, cfg.Staging.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
		}
	}
	return &store{
		runsDir:   cfg.Staging.Dir,
		outputDir: cfg.Staging.OutputDir,
		keepRuns:  cfg.Staging.KeepRuns,
		node:      node,
		logger:    logger.Named("staging.store"),
	}, nil
}

func (s *store) NewRun() (*Run, error) {
	id := s.node.Generate().String()
	dir := filepath.Join(s.runsDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	s.logger.Debug("run created", zap.String("run_id", id))
	return &Run{ID: id, dir: dir, keep: s.keepRuns, logger: s.logger}, nil
}

func (s *store) OpenRun(id string) (*Run, error) {
	dir := filepath.Join(s.runsDir, filepath.Base(id))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return &Run{ID: id, dir: dir, keep: s.keepRuns, logger: s.logger}, nil
}

func (s *store) SaveArchive(name string, data []byte) (string, error) {
	path := filepath.Join(s.outputDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save archive %s: %w", name, err)
	}
	return path, nil
}

func (s *store) AlreadyBilled(name string) bool {
	_, err := os.Stat(filepath.Join(s.outputDir, filepath.Base(name)))
	return err == nil
}

// Run is one pipeline invocation's private directory. Every uploaded input
// and intermediate JSON lands here and is removed on Cleanup unless the
// deployment keeps runs for debugging.
type Run struct {
	ID     string
	dir    string
	keep   bool
	logger *zap.Logger
}

func (r *Run) Dir() string { return r.dir }

func (r *Run) SaveInput(name string, src io.Reader) (string, error) {
	path := filepath.Join(r.dir, filepath.Base(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage input %s: %w", name, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("stage input %s: %w", name, err)
	}
	return path, nil
}

func (r *Run) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(r.dir, filepath.Base(name)), data, 0o644)
}

func (r *Run) LoadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, filepath.Base(name)))
	if err != nil {
		return fmt.Errorf("read staged %s: %w", name, err)
	}
	return json.Unmarshal(data, v)
}

func (r *Run) Cleanup() {
	if r.keep {
		r.logger.Debug("run kept", zap.String("run_id", r.ID))
		return
	}
	if err := os.RemoveAll(r.dir); err != nil {
		r.logger.Warn("run cleanup failed", zap.String("run_id", r.ID), zap.Error(err))
		return
	}
	r.logger.Debug("run cleaned", zap.String("run_id", r.ID))
}
