// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/cpamm/config"
)

// This is lifted from AvalancheGo so that the console and file outputs can
// be leveled independently and the console can be muted.

type logWrapper struct {
	logger       logging.Logger
	displayLevel zap.AtomicLevel
	logLevel     zap.AtomicLevel
}

type logFactory struct {
	config logging.Config
	lock   sync.RWMutex

	// For each logger created by this factory:
	// Logger name --> the logger.
	loggers map[string]logWrapper
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logWrapper),
	}
}

// loggingConfig translates the node config. Without a log directory only
// the console is written to.
func loggingConfig(cfg *config.Config) logging.Config {
	c := logging.Config{}
	c.LogLevel = cfg.LogLevel
	c.DisplayLevel = cfg.LogDisplayLevel
	c.LogFormat = logging.JSON
	c.Directory = cfg.LogDir
	c.MaxSize = cfg.LogMaxSizeMB
	c.MaxFiles = cfg.LogMaxFiles
	c.MaxAge = cfg.LogMaxAgeDays
	c.Compress = cfg.LogCompress
	return c
}

// Assumes [f.lock] is held
func (f *logFactory) makeLogger(config logging.Config) (logging.Logger, error) {
	if _, ok := f.loggers[config.LoggerName]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", config.LoggerName)
	}
	consoleEnc := logging.Colors.ConsoleEncoder()
	fileEnc := config.LogFormat.FileEncoder()

	var consoleWriter io.WriteCloser
	if config.DisableWriterDisplaying {
		consoleWriter = newDiscardWriteCloser()
	} else {
		consoleWriter = os.Stderr
	}

	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, consoleEnc)
	consoleCore.WriterDisabled = config.DisableWriterDisplaying
	prefix := config.LogFormat.WrapPrefix(config.MsgPrefix)

	w := logWrapper{displayLevel: consoleCore.AtomicLevel}
	if len(config.Directory) == 0 {
		w.logger = logging.NewLogger(prefix, consoleCore)
		f.loggers[config.LoggerName] = w
		return w.logger, nil
	}

	rw := &lumberjack.Logger{
		Filename:   path.Join(config.Directory, config.LoggerName+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, rw, fileEnc)
	w.logger = logging.NewLogger(prefix, consoleCore, fileCore)
	w.logLevel = fileCore.AtomicLevel
	f.loggers[config.LoggerName] = w
	return w.logger, nil
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	config := f.config
	config.LoggerName = name
	return f.makeLogger(config)
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, lw := range f.loggers {
		lw.logger.Stop()
	}
	f.loggers = nil
}

type discardWriteCloser struct {
	io.Writer
}

func newDiscardWriteCloser() *discardWriteCloser {
	return &discardWriteCloser{io.Discard}
}

// Close implements the io.Closer interface.
func (*discardWriteCloser) Close() error {
	// Do nothing and return nil.
	return nil
}
