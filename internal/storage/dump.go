package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"jts/internal/config"
	"jts/internal/domain"
)

// maxDumpProbes bounds the search for a free timestamp under the "next" policy
const maxDumpProbes = 1000

// DumpWriter writes unexpected-failure lists to dump<unix-timestamp> files
type DumpWriter struct {
	dir       string
	prefix    string
	collision string
	now       func() time.Time
	logger    *zap.Logger
}

// NewDumpWriter creates a DumpWriter from the configured dump settings
func NewDumpWriter(cfg *config.Config, logger *zap.Logger) *DumpWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.DumpPrefix
	if prefix == "" {
		prefix = config.DefaultDumpPrefix
	}
	return &DumpWriter{
		dir:       cfg.GetDumpDir(),
		prefix:    prefix,
		collision: cfg.DumpCollision,
		now:       time.Now,
		logger:    logger,
	}
}

// Write persists paths, one per line with no trailing newline, and returns
// the file it wrote. Errors are *domain.DumpWriteError.
func (w *DumpWriter) Write(paths []string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", &domain.DumpWriteError{Path: w.dir, Cause: err}
	}
	content := []byte(strings.Join(paths, "\n"))
	ts := w.now().Unix()

	if w.collision == config.CollisionOverwrite {
		path := w.pathFor(ts)
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", &domain.DumpWriteError{Path: path, Cause: err}
		}
		w.logger.Debug("dump written", zap.String("path", path), zap.Int("entries", len(paths)))
		return path, nil
	}

	probes := 1
	if w.collision == config.CollisionNext {
		probes = maxDumpProbes
	}
	for i := 0; i < probes; i++ {
		path := w.pathFor(ts + int64(i))
		err := writeExclusive(path, content)
		if err == nil {
			w.logger.Debug("dump written", zap.String("path", path), zap.Int("entries", len(paths)))
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", &domain.DumpWriteError{Path: path, Cause: err}
		}
	}
	path := w.pathFor(ts)
	return "", &domain.DumpWriteError{Path: path, Cause: fmt.Errorf("%w: no free dump name after %d attempts", fs.ErrExist, probes)}
}

func (w *DumpWriter) pathFor(ts int64) string {
	return filepath.Join(w.dir, w.prefix+strconv.FormatInt(ts, 10))
}

func writeExclusive(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
