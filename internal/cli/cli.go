package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
	"github.com/sunr3d/gamedeploy/models"
)

// Version задаётся при сборке через -ldflags "-X".
var Version = "dev"

// NewCommand собирает корневую команду. Ошибки запуска попадают в журнал
// ошибок сервиса, поэтому RunE их не возвращает: код выхода ненулевой
// только при ошибках разбора флагов.
func NewCommand(log *zap.Logger, svc services.DeployService) *cobra.Command {
	var req models.Request

	cmd := &cobra.Command{
		Use:   "gamedeploy",
		Short: "Распаковка конфигураций игровых клиентов",
		Long: `gamedeploy ищет в текущей директории архивы WindowsClient и Windows (zip, rar, 7z)
и распаковывает их в директории конфигурации игр на доступных дисках.

Ошибки записываются в файл ERROR.txt в текущей директории.`,
		Example: `  gamedeploy
  gamedeploy -p WindowsClient
  gamedeploy -p Windows -d "D:\Games\Config"
  gamedeploy -a backup.7z -d "D:\Games\Config"`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := svc.Run(cmd.Context(), req)
			if err != nil {
				log.Warn("запуск прерван", zap.Error(err))
				return nil
			}

			log.Info("итог",
				zap.String("run_id", report.RunID),
				zap.Int("tasks", len(report.Tasks)),
				zap.Int("done", report.Count(models.TaskStatusDone)),
				zap.Int("failed", report.Count(models.TaskStatusFailed)),
				zap.Duration("duration", report.Duration),
			)
			return nil
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringSliceVarP(&req.Packages, "package", "p", nil, "имя архива для распаковки (WindowsClient или Windows), можно указать несколько раз")
	flags.StringVarP(&req.Archive, "archive", "a", "", "путь к архиву, несовместим с -p")
	flags.StringVarP(&req.Directory, "directory", "d", "", "директория для распаковки, только вместе с одним -p или -a")

	return cmd
}
