package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	logger *zap.Logger = zap.NewNop()
)

// Init builds the process logger. prod=true gives JSON output,
// иначе dev-консоль для локальной отладки.
func Init(prod bool) (*zap.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	logger = l
	return l, nil
}

func L() *zap.Logger { return logger }

func Sync() { _ = logger.Sync() }
