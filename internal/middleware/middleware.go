package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/interfaces/services"
)

type Middleware func(services.Extractor) services.Extractor

// Chain применяет middlewares так, что первый оказывается внешним.
func Chain(ex services.Extractor, mws ...Middleware) services.Extractor {
	for i := len(mws) - 1; i >= 0; i-- {
		ex = mws[i](ex)
	}
	return ex
}

func TaskLogger(log *zap.Logger) Middleware {
	return func(next services.Extractor) services.Extractor {
		return services.ExtractorFunc(func(ctx context.Context, src, dst string) error {
			start := time.Now()
			log.Info("Распаковка архива",
				zap.String("source", src),
				zap.String("target", dst),
			)

			err := next.Extract(ctx, src, dst)
			if err != nil {
				log.Error("Распаковка не удалась",
					zap.String("source", src),
					zap.String("target", dst),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
				return err
			}

			log.Info("Распаковка завершена",
				zap.String("source", src),
				zap.String("target", dst),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}
}

func Recovery(log *zap.Logger) Middleware {
	return func(next services.Extractor) services.Extractor {
		return services.ExtractorFunc(func(ctx context.Context, src, dst string) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("Паника в распаковщике",
						zap.Any("error", r),
						zap.String("stack", string(debug.Stack())),
						zap.String("source", src),
						zap.String("target", dst),
					)
					err = fmt.Errorf("%w: %v", ErrDecoderPanic, r)
				}
			}()
			return next.Extract(ctx, src, dst)
		})
	}
}
