package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when a module, key file or directory does not exist.
	ErrNotFound = zerr.New("not found")

	// ErrUnreadableFormat is returned when a file is not a recognizable managed module.
	ErrUnreadableFormat = zerr.New("unreadable module format")

	// ErrAlreadySigned is returned by the single-file signer when the module already has a strong identity.
	ErrAlreadySigned = zerr.New("module is already strong-name signed")

	// ErrInvalidKey is returned when key material is malformed or its password is missing or incorrect.
	ErrInvalidKey = zerr.New("invalid key material")

	// ErrIO is returned when a copy, move or delete fails during an output transaction.
	ErrIO = zerr.New("file operation failed")

	// ErrUnexpected marks failures that do not belong to any other class.
	ErrUnexpected = zerr.New("unexpected failure")

	// ErrTransactionClosed is returned when a finished output transaction is used again.
	ErrTransactionClosed = zerr.New("output transaction already finished")

	// ErrNoInputs is returned when a command is run without any module paths.
	ErrNoInputs = zerr.New("no input modules specified")

	// ErrBatchAborted is returned when a batch stops on a non-recoverable file failure.
	ErrBatchAborted = zerr.New("batch signing aborted")

	// ErrKeyGenerationFailed is returned when a fresh key pair cannot be generated.
	ErrKeyGenerationFailed = zerr.New("failed to generate key pair")

	// ErrKeyWriteFailed is returned when key material cannot be written to disk.
	ErrKeyWriteFailed = zerr.New("failed to write key file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrToolNotConfigured is returned when an external tool has no configured executable.
	ErrToolNotConfigured = zerr.New("external tool not configured")

	// ErrToolFailed is returned when an external tool exits unsuccessfully.
	ErrToolFailed = zerr.New("external tool failed")
)
