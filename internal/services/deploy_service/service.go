package deploy_service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
	"github.com/sunr3d/gamedeploy/internal/services/extract_service"
	"github.com/sunr3d/gamedeploy/internal/services/locator_service"
	"github.com/sunr3d/gamedeploy/internal/services/resolver_service"
	"github.com/sunr3d/gamedeploy/models"
)

var _ services.DeployService = (*deployService)(nil)

type deployService struct {
	logger     *zap.Logger
	table      *config.Table
	locator    services.Locator
	resolver   services.TargetResolver
	dispatcher services.Dispatcher
	sink       infra.ErrorSink
}

func New(
	log *zap.Logger,
	table *config.Table,
	locator services.Locator,
	resolver services.TargetResolver,
	dispatcher services.Dispatcher,
	sink infra.ErrorSink,
) services.DeployService {
	return &deployService{
		logger:     log,
		table:      table,
		locator:    locator,
		resolver:   resolver,
		dispatcher: dispatcher,
		sink:       sink,
	}
}

// Run выполняет один проход: проверка параметров, выбор архивов,
// поиск целевых директорий и распаковка. Ошибки пишутся в журнал ошибок;
// возвращаются только те, что прерывают запуск. Отмена контекста в журнал не пишется.
func (s *deployService) Run(ctx context.Context, req models.Request) (*models.Report, error) {
	report := &models.Report{
		RunID:     uuid.New().String(),
		Tasks:     make([]*models.ArchiveTask, 0),
		StartedAt: time.Now(),
	}
	log := s.logger.With(zap.String("run_id", report.RunID))
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	if err := validate(req); err != nil {
		s.report(report, s.invocationMessage(err))
		return report, fmt.Errorf("%w: %v", ErrInvocation, err)
	}

	archives, err := s.selectArchives(ctx, req)
	if err != nil {
		var se *sinkError
		if errors.As(err, &se) {
			s.report(report, se.msg)
		}
		return report, err
	}

	for _, archive := range archives {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		default:
		}

		targets, err := s.resolver.Resolve(ctx, archive.Name, req.Directory)
		if err != nil {
			if errors.Is(err, resolver_service.ErrContextDone) {
				return report, fmt.Errorf("%w: %v", ErrContextDone, err)
			}
			log.Warn("не удалось определить целевые директории",
				zap.String("archive", archive.Path),
				zap.Error(err),
			)
		}
		if len(targets) == 0 {
			s.report(report, fmt.Sprintf(s.table.Messages.NoTargets, s.resolver.Title(archive.Name)))
			report.Tasks = append(report.Tasks, &models.ArchiveTask{
				ID:         uuid.New().String(),
				Name:       archive.Name,
				SourcePath: archive.Path,
				Ext:        archive.Ext,
				Status:     models.TaskStatusSkipped,
				Error:      ErrNoTargets.Error(),
			})
			continue
		}

		for _, dir := range targets {
			task := &models.ArchiveTask{
				ID:         uuid.New().String(),
				Name:       archive.Name,
				SourcePath: archive.Path,
				TargetDir:  dir,
				Ext:        archive.Ext,
				Status:     models.TaskStatusPending,
			}
			report.Tasks = append(report.Tasks, task)

			if err := s.runTask(ctx, task); err != nil {
				if errors.Is(err, ErrContextDone) {
					return report, err
				}
				s.report(report, task.Error)
			}
		}
	}

	log.Info("запуск завершен",
		zap.Int("archives", len(archives)),
		zap.Int("done", report.Count(models.TaskStatusDone)),
		zap.Int("failed", report.Count(models.TaskStatusFailed)),
		zap.Int("skipped", report.Count(models.TaskStatusSkipped)),
		zap.Int("errors", len(report.Errors)),
	)

	return report, nil
}

func (s *deployService) runTask(ctx context.Context, task *models.ArchiveTask) error {
	if !s.dispatcher.Supports(task.Ext) {
		task.Status = models.TaskStatusFailed
		task.Error = fmt.Sprintf(s.table.Messages.Unsupported, task.SourcePath)
		return fmt.Errorf("%w: %s", extract_service.ErrUnsupportedFormat, task.SourcePath)
	}

	if err := s.dispatcher.Dispatch(ctx, task); err != nil {
		if ctx.Err() != nil {
			task.Status = models.TaskStatusSkipped
			task.Error = err.Error()
			return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		}
		task.Status = models.TaskStatusFailed
		task.Error = fmt.Sprintf(s.table.Messages.ExtractFailed, task.SourcePath, task.TargetDir, err)
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}

	task.Status = models.TaskStatusDone
	return nil
}

func (s *deployService) selectArchives(ctx context.Context, req models.Request) ([]models.Archive, error) {
	msgs := s.table.Messages
	exts := strings.Join(s.table.Extensions, "/")

	if req.Archive != "" {
		archive, err := s.locator.Inspect(ctx, req.Archive)
		if err != nil {
			if errors.Is(err, locator_service.ErrContextDone) {
				return nil, fmt.Errorf("%w: %v", ErrContextDone, err)
			}
			return nil, &sinkError{
				msg: fmt.Sprintf(msgs.ArchiveMissing, req.Archive),
				err: fmt.Errorf("%w: %v", ErrNotFound, err),
			}
		}
		return []models.Archive{archive}, nil
	}

	archives, err := s.locator.Locate(ctx)
	if err != nil {
		if errors.Is(err, locator_service.ErrContextDone) {
			return nil, fmt.Errorf("%w: %v", ErrContextDone, err)
		}
		return nil, err
	}
	if len(archives) == 0 {
		names := strings.Join(s.table.Names(), msgs.ListSeparator)
		return nil, &sinkError{
			msg: fmt.Sprintf(msgs.NotFound, names, exts),
			err: fmt.Errorf("%w: %s (%s)", ErrNotFound, names, exts),
		}
	}

	if len(req.Packages) > 0 {
		archives = locator_service.Filter(archives, req.Packages)
		if len(archives) == 0 {
			names := strings.Join(req.Packages, msgs.ListSeparator)
			return nil, &sinkError{
				msg: fmt.Sprintf(msgs.PackageNotFound, names, exts),
				err: fmt.Errorf("%w: %s (%s)", ErrNotFound, names, exts),
			}
		}
	}

	return archives, nil
}

func (s *deployService) invocationMessage(err error) string {
	if errors.Is(err, ErrArchiveWithPackages) {
		return s.table.Messages.ArchiveWithPackages
	}
	return s.table.Messages.DirectorySources
}

func (s *deployService) report(report *models.Report, msg string) {
	report.Errors = append(report.Errors, msg)
	s.sink.Write(msg)
	s.logger.Error("ошибка записана в журнал", zap.String("run_id", report.RunID), zap.String("message", msg))
}

// sinkError - ошибка с готовым текстом для журнала ошибок.
type sinkError struct {
	msg string
	err error
}

func (e *sinkError) Error() string { return e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

func validate(req models.Request) error {
	if req.Archive != "" && len(req.Packages) > 0 {
		return ErrArchiveWithPackages
	}
	if req.Directory != "" && req.Sources() != 1 {
		return ErrDirectorySources
	}
	return nil
}
