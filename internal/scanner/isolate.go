package scanner

import (
	"os"
	"path/filepath"

	"github.com/epubtools/epubscan/internal/model"
)

// isolationDirName is the subdirectory broken archives are moved into.
const isolationDirName = "broken"

// isolateBroken moves every broken archive into the isolation subdirectory
// of the scanned directory, recording moves and skips on the outcome.
//
// Existing destination files are never overwritten: a name collision skips
// that archive with a warning. A failed move is logged and does not abort
// the remaining moves or change the archive's broken classification.
//
// Callers must invoke this from a single goroutine; the existence check and
// the rename below are not atomic.
func (s *Scanner) isolateBroken(outcome *model.ScanOutcome) {
	isolationDir := filepath.Join(outcome.Directory, isolationDirName)
	if err := os.MkdirAll(isolationDir, 0750); err != nil {
		s.logger.Error("failed to create isolation directory",
			"dir", isolationDir,
			"error", err,
		)
		return
	}

	s.logger.Info("moving broken files", "dir", isolationDir)
	outcome.IsolationDir = isolationDir

	for _, result := range outcome.Broken() {
		name := result.Name()
		dest := filepath.Join(isolationDir, name)

		if _, err := os.Stat(dest); err == nil {
			s.logger.Warn("file already exists in isolation folder, skipping",
				"archive", name,
			)
			outcome.SkippedMoves = append(outcome.SkippedMoves, name)
			continue
		}

		if err := os.Rename(result.ArchivePath, dest); err != nil {
			s.logger.Error("failed to move archive",
				"archive", name,
				"dest", dest,
				"error", err,
			)
			continue
		}

		s.logger.Info("moved archive", "archive", name)
		outcome.Moved = append(outcome.Moved, name)
	}
}
