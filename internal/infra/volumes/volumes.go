package volumes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/interfaces/infra"
)

const maxDrives = 26

var _ infra.VolumeLister = (*driveLister)(nil)

type driveLister struct {
	logger *zap.Logger
	skip   int
	mask   func() (uint32, error)
}

// New перечисляет буквы дисков, пропуская skip младших позиций битовой маски.
func New(log *zap.Logger, skip int) infra.VolumeLister {
	return &driveLister{
		logger: log,
		skip:   skip,
		mask:   logicalDrives,
	}
}

func (l *driveLister) Volumes(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	mask, err := l.mask()
	if err != nil {
		return nil, err
	}

	roots := LettersFromMask(mask, l.skip)
	l.logger.Debug("диски получены",
		zap.Uint32("mask", mask),
		zap.Int("skip", l.skip),
		zap.Strings("roots", roots),
	)

	return roots, nil
}

// LettersFromMask переводит установленные биты маски в корни томов вида "E:\".
func LettersFromMask(mask uint32, skip int) []string {
	if skip < 0 {
		skip = 0
	}

	roots := make([]string, 0, maxDrives)
	for i := skip; i < maxDrives; i++ {
		if (mask>>uint(i))&1 == 1 {
			roots = append(roots, string(rune('A'+i))+`:\`)
		}
	}
	return roots
}
