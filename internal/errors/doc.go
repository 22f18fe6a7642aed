// Package errors provides error handling conventions for the wsgen CLI.
//
// Wrapping helpers are thin re-exports of [github.com/cockroachdb/errors] so
// callers get stack traces without importing two error packages.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (unsupported host platform, configuration)
//   - ExitSystem (2): System-related error (I/O, permissions)
//
// # ExitError
//
// [ExitError] carries an exit code and an optional suggestion that the
// entry point prints after the error message:
//
//	err := wserrors.NewUserError(err, "Supported platforms: windows, linux")
//	os.Exit(wserrors.ExitCode(err))
package errors
