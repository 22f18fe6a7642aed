// Package logging provides structured logging for the wsgen CLI using slog.
//
// The root command installs a default logger from the -v/-q/--log-format/
// --log-file flags and stores it in the command context:
//
//	logger := logging.FromContext(cmd.Context())
//	logger.Info("generated settings", "platform", profile)
//
// Tests use [ForTest] so output only shows for failing tests.
package logging
