package deploy_service

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/infra/inmem"
	"github.com/sunr3d/gamedeploy/internal/services/extract_service"
	"github.com/sunr3d/gamedeploy/internal/services/locator_service"
	"github.com/sunr3d/gamedeploy/internal/services/resolver_service"
	"github.com/sunr3d/gamedeploy/models"
)

type testEnv struct {
	service   *deployService
	sink      *inmem.Sink
	sourceDir string
	volume    string
}

func setupTestService(t *testing.T) *testEnv {
	logger := zaptest.NewLogger(t)
	table := config.DefaultTable()

	sourceDir := t.TempDir()
	volume := t.TempDir()

	sink := inmem.NewSink()
	volumes := inmem.NewVolumes(logger, volume)

	service := New(logger, table,
		locator_service.New(logger, sourceDir, table),
		resolver_service.New(logger, table, volumes),
		extract_service.New(logger, table),
		sink,
	).(*deployService)

	return &testEnv{
		service:   service,
		sink:      sink,
		sourceDir: sourceDir,
		volume:    volume,
	}
}

func (e *testEnv) configDir(t *testing.T, name string) string {
	t.Helper()
	pkg, ok := e.service.table.Lookup(name)
	require.True(t, ok)
	dir := filepath.Join(e.volume, filepath.FromSlash(pkg.Path))
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestDeployService_Run_NothingFound(t *testing.T) {
	env := setupTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.sourceDir, "notes.txt"), []byte("x"), 0644))

	report, err := env.service.Run(context.Background(), models.Request{})

	assert.ErrorIs(t, err, ErrNotFound)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "当前目录下没有任何名为 WindowsClient、Windows 的压缩包（zip/rar/7z）", messages[0])
	assert.Empty(t, report.Tasks)
}

func TestDeployService_Run_DirectoryWithTwoPackages(t *testing.T) {
	env := setupTestService(t)
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"a.ini": "a"})

	report, err := env.service.Run(context.Background(), models.Request{
		Packages:  []string{"Windows", "WindowsClient"},
		Directory: t.TempDir(),
	})

	assert.ErrorIs(t, err, ErrInvocation)
	assert.Equal(t, []string{config.DefaultMessages().DirectorySources}, env.sink.Messages())
	assert.Empty(t, report.Tasks)
}

func TestDeployService_Run_DirectoryWithoutSource(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.Run(context.Background(), models.Request{Directory: t.TempDir()})

	assert.ErrorIs(t, err, ErrInvocation)
	assert.Len(t, env.sink.Messages(), 1)
}

func TestDeployService_Run_ArchiveWithPackages(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.Run(context.Background(), models.Request{
		Packages: []string{"Windows"},
		Archive:  "Windows.zip",
	})

	assert.ErrorIs(t, err, ErrInvocation)
	assert.Equal(t, []string{config.DefaultMessages().ArchiveWithPackages}, env.sink.Messages())
}

func TestDeployService_Run_ScanAndExtract(t *testing.T) {
	env := setupTestService(t)
	target := env.configDir(t, "WindowsClient")
	writeZip(t, filepath.Join(env.sourceDir, "windowsclient.zip"), map[string]string{
		"Windows/GameUserSettings.ini": "[ScalabilityGroups]",
	})

	report, err := env.service.Run(context.Background(), models.Request{})

	require.NoError(t, err)
	assert.Empty(t, env.sink.Messages())
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, models.TaskStatusDone, report.Tasks[0].Status)
	assert.Equal(t, target, report.Tasks[0].TargetDir)
	assert.NotEmpty(t, report.RunID)

	content, err := os.ReadFile(filepath.Join(target, "Windows", "GameUserSettings.ini"))
	require.NoError(t, err)
	assert.Equal(t, "[ScalabilityGroups]", string(content))
}

func TestDeployService_Run_PackageFilter(t *testing.T) {
	env := setupTestService(t)
	env.configDir(t, "WindowsClient")
	target := env.configDir(t, "Windows")
	writeZip(t, filepath.Join(env.sourceDir, "WindowsClient.zip"), map[string]string{"c.ini": "c"})
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})

	report, err := env.service.Run(context.Background(), models.Request{Packages: []string{"WINDOWS"}})

	require.NoError(t, err)
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, "Windows", report.Tasks[0].Name)
	assert.FileExists(t, filepath.Join(target, "w.ini"))
}

func TestDeployService_Run_PackageNotPresent(t *testing.T) {
	env := setupTestService(t)
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})

	_, err := env.service.Run(context.Background(), models.Request{Packages: []string{"WindowsClient"}})

	assert.ErrorIs(t, err, ErrNotFound)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "当前目录下没有任何名为 WindowsClient 的压缩包（zip/rar/7z），请检查指定的参数", messages[0])
}

func TestDeployService_Run_NoTargetsContinues(t *testing.T) {
	env := setupTestService(t)
	target := env.configDir(t, "Windows")
	writeZip(t, filepath.Join(env.sourceDir, "WindowsClient.zip"), map[string]string{"c.ini": "c"})
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})

	report, err := env.service.Run(context.Background(), models.Request{})

	require.NoError(t, err)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "未找到 三角洲行动 的目标目录用于解压，请使用 -p 指定当前目录下的压缩包名称，-d 指定解压目录", messages[0])
	assert.Equal(t, 1, report.Count(models.TaskStatusSkipped))
	assert.Equal(t, 1, report.Count(models.TaskStatusDone))
	assert.FileExists(t, filepath.Join(target, "w.ini"))
}

func TestDeployService_Run_ExplicitArchiveAndDirectory(t *testing.T) {
	env := setupTestService(t)
	src := filepath.Join(t.TempDir(), "backup.zip")
	writeZip(t, src, map[string]string{"a/b.txt": "payload"})
	dst := filepath.Join(t.TempDir(), "custom")

	report, err := env.service.Run(context.Background(), models.Request{Archive: src, Directory: dst})

	require.NoError(t, err)
	assert.Empty(t, env.sink.Messages())
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, dst, report.Tasks[0].TargetDir)
	content, err := os.ReadFile(filepath.Join(dst, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestDeployService_Run_PackageWithDirectory(t *testing.T) {
	env := setupTestService(t)
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})
	dst := t.TempDir()

	report, err := env.service.Run(context.Background(), models.Request{
		Packages:  []string{"windows"},
		Directory: dst,
	})

	require.NoError(t, err)
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, []string{dst}, []string{report.Tasks[0].TargetDir})
	assert.FileExists(t, filepath.Join(dst, "w.ini"))
}

func TestDeployService_Run_ExplicitArchiveMissing(t *testing.T) {
	env := setupTestService(t)

	_, err := env.service.Run(context.Background(), models.Request{
		Archive: filepath.Join(env.sourceDir, "Windows.zip"),
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, env.sink.Messages(), 1)
}

func TestDeployService_Run_UnsupportedFormat(t *testing.T) {
	env := setupTestService(t)
	src := filepath.Join(env.sourceDir, "Windows.tar")
	require.NoError(t, os.WriteFile(src, []byte("tar"), 0644))

	report, err := env.service.Run(context.Background(), models.Request{Archive: src, Directory: t.TempDir()})

	require.NoError(t, err)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, src+" 是不支持的文件格式", messages[0])
	assert.Equal(t, 1, report.Count(models.TaskStatusFailed))
}

func TestDeployService_Run_DecoderFailureContinues(t *testing.T) {
	env := setupTestService(t)
	env.configDir(t, "WindowsClient")
	target := env.configDir(t, "Windows")
	require.NoError(t, os.WriteFile(filepath.Join(env.sourceDir, "WindowsClient.rar"), []byte("broken"), 0644))
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})

	report, err := env.service.Run(context.Background(), models.Request{})

	require.NoError(t, err)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], "解压失败（"), messages[0])
	assert.Equal(t, 1, report.Count(models.TaskStatusFailed))
	assert.Equal(t, 1, report.Count(models.TaskStatusDone))
	assert.FileExists(t, filepath.Join(target, "w.ini"))
}

func TestDeployService_Run_ContextCanceled(t *testing.T) {
	env := setupTestService(t)
	env.configDir(t, "Windows")
	writeZip(t, filepath.Join(env.sourceDir, "Windows.zip"), map[string]string{"w.ini": "w"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := env.service.Run(ctx, models.Request{})

	assert.ErrorIs(t, err, ErrContextDone)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Empty(t, env.sink.Messages())
	assert.Empty(t, report.Errors)
}

func TestDeployService_Run_ContextCanceledExplicitArchive(t *testing.T) {
	env := setupTestService(t)
	src := filepath.Join(env.sourceDir, "Windows.zip")
	writeZip(t, src, map[string]string{"w.ini": "w"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := env.service.Run(ctx, models.Request{Archive: src, Directory: t.TempDir()})

	assert.ErrorIs(t, err, ErrContextDone)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Empty(t, env.sink.Messages())
	assert.Empty(t, report.Tasks)
}

func TestDeployService_Run_IllegalEntryReported(t *testing.T) {
	env := setupTestService(t)
	src := filepath.Join(env.sourceDir, "Windows.zip")
	writeZip(t, src, map[string]string{"ok.ini": "ok", "../evil.ini": "evil"})
	root := t.TempDir()
	dst := filepath.Join(root, "target")

	report, err := env.service.Run(context.Background(), models.Request{Archive: src, Directory: dst})

	require.NoError(t, err)
	messages := env.sink.Messages()
	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], "解压失败（"), messages[0])
	assert.Contains(t, messages[0], "../evil.ini")
	assert.Equal(t, 1, report.Count(models.TaskStatusFailed))
	assert.FileExists(t, filepath.Join(dst, "ok.ini"))
	assert.NoFileExists(t, filepath.Join(root, "evil.ini"))
}

func TestDeployService_Run_CustomMessages(t *testing.T) {
	env := setupTestService(t)
	env.service.table.Messages.NotFound = "no archive named %s (%s)"
	env.service.table.Messages.ListSeparator = ", "

	_, err := env.service.Run(context.Background(), models.Request{})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"no archive named WindowsClient, Windows (zip/rar/7z)"}, env.sink.Messages())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		req      models.Request
		expected error
	}{
		{models.Request{}, nil},
		{models.Request{Packages: []string{"Windows", "WindowsClient"}}, nil},
		{models.Request{Packages: []string{"Windows"}, Directory: "d"}, nil},
		{models.Request{Archive: "a.zip", Directory: "d"}, nil},
		{models.Request{Archive: "a.zip"}, nil},
		{models.Request{Directory: "d"}, ErrDirectorySources},
		{models.Request{Packages: []string{"a", "b"}, Directory: "d"}, ErrDirectorySources},
		{models.Request{Packages: []string{"a"}, Archive: "a.zip"}, ErrArchiveWithPackages},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, validate(test.req), "request: %+v", test.req)
	}
}
