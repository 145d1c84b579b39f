package ports

import (
	"context"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// ConfigService defines operations over the registry of managed config
// files. Every call validates the logical name against the registry
// before touching the disk.
type ConfigService interface {
	// ListFiles returns all registry entries, sorted by logical name.
	ListFiles(ctx context.Context) []domain.Entry
	ReadFile(ctx context.Context, name string) (string, error)
	WriteFile(ctx context.Context, name, content string) error
}
