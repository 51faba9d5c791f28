// Package logging builds the process-wide zap logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a logger for level ("DEVELOPMENT" for human-readable debug
// output, anything else for JSON at info) and installs it as the zap global.
func New(level string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if strings.EqualFold(level, "DEVELOPMENT") {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
