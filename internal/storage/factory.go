package storage

import (
	"context"
	"fmt"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/config"
)

// New opens the backend selected by cfg.DBType.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "file":
		return NewFileStorage(FilePaths{
			Users:     cfg.UsersFile(),
			Dreams:    cfg.DreamsFile(),
			Comments:  cfg.CommentsFile(),
			Overrides: cfg.OverridesFile(),
			Roster:    cfg.RosterFile,
		}, logger)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.DBDSN, cfg.RosterFile, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
