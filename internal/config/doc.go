// Package config provides configuration management for the wsgen CLI.
//
// # Configuration File
//
// wsgen looks for config.yaml in <workspace>/.wsgen, the current directory,
// then $XDG_CONFIG_HOME/wsgen. Every key can be overridden from the
// environment with the WSGEN_ prefix, dots replaced by underscores
// (WSGEN_TOOLCHAIN_VERSION, WSGEN_BACKUP_RETENTION).
//
//	version: 1
//	root: /src/workspace        # optional
//	toolchain:
//	  name: clang-llvm
//	  version: 21.1.3
//	  dir: extern
//	  env: LIBCLANG_PATH
//	backup:
//	  enabled: true
//	  retention: 5
//
// # Loading Configuration
//
//	config.Init(workspaceDir)
//	cfg, err := config.Load("")
//	if err != nil {
//	    return errors.NewConfigError(err)
//	}
//
// Loaded configurations are validated automatically; see [Validate].
package config
