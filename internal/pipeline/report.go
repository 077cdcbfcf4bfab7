package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/inventoryaudit/internal/csvio"
	"github.com/nao1215/inventoryaudit/internal/model"
)

// reportDirPerm is used when the report directory has to be created.
const reportDirPerm = 0o750

// writeReport writes rows to dir/name and records the outcome in run.
// A failure is logged and leaves no file behind.
func writeReport[R csvio.Row](run *model.Run, logger *slog.Logger, dir, name string, header []string, rows []R) {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, reportDirPerm); err != nil {
		logger.Error("failed to create report directory", "dir", dir, "error", err)
		run.Skip(name, "write failed: "+err.Error())
		return
	}
	n, err := csvio.WriteFile(path, header, rows)
	if err != nil {
		logger.Error("failed to write report", "report", name, "error", err)
		run.Skip(name, "write failed: "+err.Error())
		return
	}
	logger.Info("report written", "report", name, "rows", n)
	run.AddOutput(name, path, n)
}
