// Package logger provides a simple, thread-safe logging facility.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Entries are rendered by a zerolog ConsoleWriter and carry a timestamp,
// level, message and an optional component field.
//
// # Basic Usage
//
// Using the default logger (writes to stderr):
//
//	logger.Info("", "Application started")
//	logger.Info("rpc", "Connected to %s", endpoint)
//	logger.Error("rpc", "Failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("offchain", "Debug message")
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// ParseLevel maps the strings used in configuration files and flags
// ("debug", "info", "warn", "error") to a Level.
//
// # Thread Safety
//
// All logging operations are protected by a mutex and safe for concurrent use.
package logger
