package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rios0rios0/packlog/internal/domain/entities"
	"github.com/rios0rios0/packlog/internal/domain/repositories"
)

const documentSeparator = "\n---\n\n"

// ConsoleOutputRepository prints documents one after another, separated by a rule.
type ConsoleOutputRepository struct {
	mu      sync.Mutex
	out     io.Writer
	written int
}

func NewConsoleOutputRepository() repositories.OutputRepository {
	return NewConsoleOutputRepositoryWithWriter(os.Stdout)
}

func NewConsoleOutputRepositoryWithWriter(out io.Writer) repositories.OutputRepository {
	return &ConsoleOutputRepository{out: out}
}

func (r *ConsoleOutputRepository) Name() string { return entities.OutputModeStdout }

func (r *ConsoleOutputRepository) Write(ctx context.Context, doc entities.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var builder strings.Builder
	if r.written > 0 {
		builder.WriteString(documentSeparator)
	}
	builder.WriteString(strings.TrimRight(doc.Content, "\n"))
	builder.WriteString("\n")

	if _, err := io.WriteString(r.out, builder.String()); err != nil {
		return fmt.Errorf("failed to print %s: %w", doc.Kind, err)
	}
	r.written++
	return nil
}
