// Package logger provides structured logging for VoltKV.
//
// It wraps the standard library log/slog to provide structured JSON or
// text logging with a process-wide, dynamically adjustable level. The
// server's debug option maps to the debug level, under which command
// handling and store mutation summaries are traced.
package logger
