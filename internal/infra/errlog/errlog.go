package errlog

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
)

const timeLayout = "2006-01-02 15:04:05"

var _ infra.ErrorSink = (*fileSink)(nil)

// fileSink пишет строки "<время> <сообщение>" в файл журнала ошибок.
// Файл открывается при первой записи, ошибки открытия и записи не пробрасываются.
type fileSink struct {
	out  *zap.Logger
	file *lazyFile
}

func New(log *zap.Logger, path string, appendMode bool) infra.ErrorSink {
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	file := &lazyFile{
		logger: log,
		path:   path,
		flag:   flag,
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
	core := zapcore.NewCore(encoder, file, zapcore.DebugLevel)

	return &fileSink{
		out:  zap.New(core),
		file: file,
	}
}

func (s *fileSink) Write(msg string) {
	s.out.Error(msg)
}

func (s *fileSink) Close() error {
	_ = s.out.Sync()
	return s.file.Close()
}

type lazyFile struct {
	logger *zap.Logger
	path   string
	flag   int

	mu     sync.Mutex
	f      *os.File
	failed bool
	closed bool
}

func (l *lazyFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.failed {
		return len(p), nil
	}

	if l.f == nil {
		f, err := os.OpenFile(l.path, l.flag, 0644)
		if err != nil {
			l.failed = true
			l.logger.Warn("не удалось открыть журнал ошибок",
				zap.String("path", l.path),
				zap.Error(err),
			)
			return len(p), nil
		}
		l.f = f
	}

	if _, err := l.f.Write(p); err != nil {
		l.logger.Warn("не удалось записать в журнал ошибок",
			zap.String("path", l.path),
			zap.Error(err),
		)
	}
	return len(p), nil
}

func (l *lazyFile) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	return l.f.Sync()
}

func (l *lazyFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrSinkClosed
	}
	l.closed = true

	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
