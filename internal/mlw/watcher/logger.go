package watcher

import (
	"fmt"

	"github.com/dimasma0305/mlw/internal/mlw/database"
)

// historyLogger mirrors Info and Error lines into the history database
type historyLogger struct {
	Logger
	db *database.DB
}

func (l *historyLogger) Info(format string, elem ...any) {
	l.Logger.Info(format, elem...)
	l.db.LogToDatabase("INFO", "mlw", fmt.Sprintf(format, elem...), "")
}

func (l *historyLogger) Error(format string, elem ...any) {
	l.Logger.Error(format, elem...)
	msg := fmt.Sprintf(format, elem...)
	l.db.LogToDatabase("ERROR", "mlw", msg, msg)
}
