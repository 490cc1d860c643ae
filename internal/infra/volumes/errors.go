package volumes

import "errors"

var (
	ErrContextDone         = errors.New("отмена контекста")
	ErrUnsupportedPlatform = errors.New("перечисление дисков не поддерживается на этой платформе")
	ErrDriveQuery          = errors.New("не удалось получить список дисков")
)
