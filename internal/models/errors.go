package models

import "errors"

// Internal failures. A file that fails to load is not one of these; it shows
// up as a non-zero GroupResult.ExitCode.
var (
	// ErrScriptWrite means the temporary loader script could not be created.
	ErrScriptWrite = errors.New("writing loader script")

	// ErrSpawn means the interpreter process could not be started.
	ErrSpawn = errors.New("spawning interpreter")

	// ErrEnvironment covers environment setup and teardown problems.
	ErrEnvironment = errors.New("environment setup failed")

	// ErrUnsupported is returned for unknown languages or environments.
	ErrUnsupported = errors.New("unsupported setting")
)
