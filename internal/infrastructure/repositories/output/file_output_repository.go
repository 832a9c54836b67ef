package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileOutputRepository writes documents to disk, creating parent directories as needed.
type FileOutputRepository struct{}

func NewFileOutputRepository() repositories.OutputRepository {
	return &FileOutputRepository{}
}

func (r *FileOutputRepository) Name() string { return entities.OutputModeFile }

// Write stores the document at its path. Prepend documents are placed on top of the existing
// file content.
func (r *FileOutputRepository) Write(ctx context.Context, doc entities.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.Path == "" {
		return fmt.Errorf("%w: no destination for the %s", entities.ErrPath, doc.Kind)
	}

	if err := os.MkdirAll(filepath.Dir(doc.Path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", doc.Path, err)
	}

	content := doc.Content
	if doc.Prepend {
		existing, err := os.ReadFile(doc.Path)
		switch {
		case err == nil:
			content = entities.PrependChangelogEntry(string(existing), doc.Content)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to read %s: %w", doc.Path, err)
		}
	}

	if err := os.WriteFile(doc.Path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", doc.Path, err)
	}

	logger.Infof("Wrote %s to %s (%s)", doc.Kind, doc.Path, humanize.Bytes(uint64(len(content))))
	return nil
}
