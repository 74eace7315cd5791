package logger

import (
	"go.uber.org/zap"
)

// L is the package level logger used by the geoctl commands.
var L = zap.NewNop().Sugar()

// Set replaces the default logger with the provided one.
func Set(l *zap.SugaredLogger) {
	if l != nil {
		L = l
	}
}

// New builds a production logger, or a development logger at debug level
// when verbose is set.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
