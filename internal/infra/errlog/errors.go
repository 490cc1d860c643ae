package errlog

import "errors"

var ErrSinkClosed = errors.New("журнал ошибок закрыт")
