package domain

const (
	// BackupSuffix is appended to a module path to name its pre-signing backup.
	BackupSuffix = ".unsigned"

	// SymbolExtension is the extension of the debug symbol sidecar file.
	SymbolExtension = ".pdb"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "signet.yaml"

	// PasswordEnv is the default environment variable holding the key password.
	PasswordEnv = "SIGNET_KEY_PASSWORD"

	// StagingPrefix prefixes private staging directory names.
	StagingPrefix = "signet-"

	// DefaultKeyBits is the RSA modulus size of generated strong name keys.
	DefaultKeyBits = 1024

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultModuleExtensions returns the file extensions treated as modules when scanning directories.
func DefaultModuleExtensions() []string {
	return []string{".dll", ".exe"}
}
