package resolver_service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
)

const unknownTitle = "未知"

var _ services.TargetResolver = (*resolverService)(nil)

type resolverService struct {
	logger  *zap.Logger
	table   *config.Table
	volumes infra.VolumeLister
}

func New(log *zap.Logger, table *config.Table, volumes infra.VolumeLister) services.TargetResolver {
	return &resolverService{
		logger:  log,
		table:   table,
		volumes: volumes,
	}
}

// Resolve возвращает существующие директории конфигурации для пакета name.
// Непустой override возвращается как есть, тома не опрашиваются.
func (s *resolverService) Resolve(ctx context.Context, name, override string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if override != "" {
		return []string{override}, nil
	}

	pkg, ok := s.table.Lookup(name)
	if !ok {
		s.logger.Debug("пакет отсутствует в таблице", zap.String("name", name))
		return nil, nil
	}

	roots, err := s.volumes.Volumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVolumes, err)
	}

	rel := filepath.FromSlash(pkg.Path)
	targets := make([]string, 0, len(roots))
	for _, root := range roots {
		candidate := filepath.Join(root, rel)
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		targets = append(targets, candidate)
	}

	s.logger.Info("целевые директории определены",
		zap.String("name", pkg.Name),
		zap.Int("volumes", len(roots)),
		zap.Strings("targets", targets),
	)

	return targets, nil
}

func (s *resolverService) Title(name string) string {
	pkg, ok := s.table.Lookup(name)
	if !ok || pkg.Title == "" {
		return unknownTitle
	}
	return pkg.Title
}
