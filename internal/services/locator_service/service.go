package locator_service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
	"github.com/sunr3d/gamedeploy/models"
)

var _ services.Locator = (*locatorService)(nil)

type locatorService struct {
	logger *zap.Logger
	dir    string
	table  *config.Table
}

func New(log *zap.Logger, dir string, table *config.Table) services.Locator {
	return &locatorService{
		logger: log,
		dir:    dir,
		table:  table,
	}
}

// Locate ищет архивы из таблицы пакетов в директории без рекурсии.
// Ошибка чтения директории не пробрасывается: результат пустой.
func (s *locatorService) Locate(ctx context.Context) ([]models.Archive, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("не удалось прочитать директорию",
			zap.String("dir", s.dir),
			zap.Error(err),
		)
		return nil, nil
	}

	archives := make([]models.Archive, 0, len(s.table.Packages))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		stem, ext := splitName(entry.Name())
		if ext == "" || !s.table.HasExtension(ext) {
			continue
		}

		pkg, ok := s.table.Lookup(stem)
		if !ok {
			continue
		}

		archives = append(archives, models.Archive{
			Name: pkg.Name,
			Path: filepath.Join(s.dir, entry.Name()),
			Ext:  ext,
		})
	}

	s.logger.Info("поиск архивов завершен",
		zap.String("dir", s.dir),
		zap.Int("entries", len(entries)),
		zap.Int("found", len(archives)),
	)

	return archives, nil
}

// Inspect описывает архив, переданный явно. Имя берётся из таблицы,
// если основа имени файла в ней есть, иначе остаётся как есть.
func (s *locatorService) Inspect(ctx context.Context, path string) (models.Archive, error) {
	select {
	case <-ctx.Done():
		return models.Archive{}, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.Archive{}, fmt.Errorf("%w: %v", ErrArchiveNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return models.Archive{}, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	stem, ext := splitName(filepath.Base(path))
	name := stem
	if pkg, ok := s.table.Lookup(stem); ok {
		name = pkg.Name
	}

	return models.Archive{
		Name: name,
		Path: path,
		Ext:  ext,
	}, nil
}

// Filter оставляет архивы с именами из names без учёта регистра.
func Filter(archives []models.Archive, names []string) []models.Archive {
	out := make([]models.Archive, 0, len(archives))
	for _, a := range archives {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(n), a.Name) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func splitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	return stem, strings.ToLower(strings.TrimPrefix(ext, "."))
}
