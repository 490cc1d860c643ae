package extract_service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
	"github.com/sunr3d/gamedeploy/internal/middleware"
	"github.com/sunr3d/gamedeploy/models"
)

var _ services.Dispatcher = (*extractService)(nil)

type extractService struct {
	logger   *zap.Logger
	table    *config.Table
	registry map[string]services.Extractor
}

func New(log *zap.Logger, table *config.Table) services.Dispatcher {
	s := &extractService{
		logger:   log,
		table:    table,
		registry: make(map[string]services.Extractor),
	}

	s.Register("zip", services.ExtractorFunc(extractZip))
	s.Register("rar", services.ExtractorFunc(extractRar))
	s.Register("7z", services.ExtractorFunc(extract7z))

	return s
}

// Register подключает распаковщик для расширения, оборачивая его в middleware.
func (s *extractService) Register(ext string, ex services.Extractor) {
	ext = normalizeExt(ext)
	s.registry[ext] = middleware.Chain(ex,
		middleware.TaskLogger(s.logger.With(zap.String("format", ext))),
		middleware.Recovery(s.logger),
	)
}

func (s *extractService) Supports(ext string) bool {
	ext = normalizeExt(ext)
	_, ok := s.registry[ext]
	return ok && s.table.HasExtension(ext)
}

func (s *extractService) Dispatch(ctx context.Context, task *models.ArchiveTask) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	ext := task.Ext
	if ext == "" {
		ext = filepath.Ext(task.SourcePath)
	}
	ext = normalizeExt(ext)

	if !s.Supports(ext) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, task.SourcePath)
	}

	if err := os.MkdirAll(task.TargetDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	task.StartedAt = time.Now()
	err := s.registry[ext].Extract(ctx, task.SourcePath, task.TargetDir)
	task.FinishedAt = time.Now()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	return nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
