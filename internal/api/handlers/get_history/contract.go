package get_history

import (
	"context"
)

// HistoryFunc загружает журнал изменений одной записи
type HistoryFunc func(ctx context.Context, id int64) (interface{}, error)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
