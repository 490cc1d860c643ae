package entrypoint

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/cli"
	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/infra/errlog"
	"github.com/sunr3d/gamedeploy/internal/infra/volumes"
	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
	"github.com/sunr3d/gamedeploy/internal/services/deploy_service"
	"github.com/sunr3d/gamedeploy/internal/services/extract_service"
	"github.com/sunr3d/gamedeploy/internal/services/locator_service"
	"github.com/sunr3d/gamedeploy/internal/services/resolver_service"
)

func Run(cfg *config.Config, log *zap.Logger, args []string) error {
	sink := errlog.New(log, cfg.ErrorLog, cfg.ErrorLogAppend)
	defer sink.Close()

	return RunWith(cfg, log, args, volumes.New(log, cfg.VolumeSkip), sink)
}

// RunWith выполняет команду с заданными томами и журналом ошибок.
func RunWith(cfg *config.Config, log *zap.Logger, args []string, vols infra.VolumeLister, sink infra.ErrorSink) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("конфигурация загружена",
		zap.String("source_dir", cfg.SourceDir),
		zap.String("error_log", cfg.ErrorLog),
		zap.Int("volume_skip", cfg.VolumeSkip),
		zap.Strings("packages", cfg.Table.Names()),
		zap.Strings("extensions", cfg.Table.Extensions),
	)

	locator := locator_service.New(log, cfg.SourceDir, cfg.Table)
	resolver := resolver_service.New(log, cfg.Table, vols)
	dispatcher := extract_service.New(log, cfg.Table)
	svc := deploy_service.New(log, cfg.Table, locator, resolver, dispatcher, sink)

	cmd := cli.NewCommand(log, svc)
	cmd.SetArgs(args)

	return cmd.ExecuteContext(ctx)
}
