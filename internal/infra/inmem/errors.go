package inmem

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")
	ErrSinkClosed  = errors.New("журнал ошибок закрыт")
)
