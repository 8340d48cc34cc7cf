// SPDX-License-Identifier: MIT

package main

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/katalvlaran/trafficeq/config"
)

// newLogger writes text logs to out and, when [log] file is set, to a
// rotated file. The returned closer releases the file.
func newLogger(c config.LogConfig, verbose bool, out io.Writer) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid log level")
	}
	if verbose {
		level = log.DebugLevel
	}

	logger := log.New()
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var closer io.Closer
	if c.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		}
		out = io.MultiWriter(out, fileLogger)
		closer = fileLogger
	}
	logger.SetOutput(out)

	return logger, closer, nil
}
