// Package paths resolves wsgen's per-user directories.
//
// Config and data locations follow the XDG Base Directory Specification via
// github.com/adrg/xdg, with environment overrides for tests and CI:
//
//	| Directory | Default                  | Override          |
//	|-----------|--------------------------|-------------------|
//	| config    | $XDG_CONFIG_HOME/wsgen   | WSGEN_CONFIG_DIR  |
//	| data      | $XDG_DATA_HOME/wsgen     | WSGEN_DATA_DIR    |
//	| backups   | <data>/backups           |                   |
//
// Paths inside a workspace live in package workspace.
package paths
