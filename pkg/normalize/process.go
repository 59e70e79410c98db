package normalize

import (
	"fmt"
	"os"
	"path/filepath"

	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/models"
	"marketpulse/pkg/storage"
)

// Report lists what ProcessDir did with each raw file
type Report struct {
	Processed []string
	Failed    map[string]error
}

// ProcessDir cleans every raw data file in rawDir and writes it, with an
// added cleaned_content column, under the same name in processedDir. A file
// that cannot be processed is logged and skipped.
func ProcessDir(rawDir, processedDir string, log logger.Logger) (Report, error) {
	log = log.WithField("component", "normalize")
	report := Report{Failed: make(map[string]error)}

	if err := os.MkdirAll(processedDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create processed directory: %w", err)
	}

	names, err := storage.ListDataFiles(rawDir)
	if err != nil {
		return report, fmt.Errorf("failed to list raw files: %w", err)
	}
	if len(names) == 0 {
		log.WithField("dir", rawDir).Info("No raw data files found to process")
		return report, nil
	}

	log.WithField("files", len(names)).Info("Processing raw data files")
	for i, name := range names {
		log.WithFields(map[string]interface{}{
			"file":     name,
			"position": fmt.Sprintf("%d/%d", i+1, len(names)),
		}).Debug("Processing file")

		if err := processFile(filepath.Join(rawDir, name), filepath.Join(processedDir, name)); err != nil {
			report.Failed[name] = err
			log.WithError(err).ErrorWithFields("Failed to process file", map[string]interface{}{"file": name})
			continue
		}
		report.Processed = append(report.Processed, name)
	}

	log.WithFields(map[string]interface{}{
		"processed": len(report.Processed),
		"failed":    len(report.Failed),
		"dir":       processedDir,
	}).Info("Data cleaning complete")
	return report, nil
}

func processFile(src, dst string) error {
	posts, err := storage.ReadFile[models.Post](src)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeProcessing, "read", err)
	}
	cleaned := make([]models.CleanedPost, len(posts))
	for i, p := range posts {
		cleaned[i] = models.NewCleanedPost(p, Clean(p.Content))
	}
	if err := storage.WriteFile(dst, cleaned); err != nil {
		return errs.Wrap(errs.ErrorTypeProcessing, "write", err)
	}
	return nil
}
