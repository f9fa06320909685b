package domain

// Settings holds the effective configuration of a signet invocation.
// Values come from signet.yaml and are overridden by command line flags.
type Settings struct {
	// Root is the directory the configuration file was found in.
	Root        string
	KeyFile     string
	PasswordEnv string
	OutputDir   string
	Extensions  []string
	Backup      bool
	Log         LogSettings
	Tools       map[string]string
}

// LogSettings configures the logger adapter.
type LogSettings struct {
	JSON      bool
	Verbose   bool
	File      string
	MaxSizeMB int
}

// DefaultSettings returns the settings used when no configuration file exists.
func DefaultSettings() *Settings {
	return &Settings{
		PasswordEnv: PasswordEnv,
		Extensions:  DefaultModuleExtensions(),
		Backup:      true,
		Log:         LogSettings{MaxSizeMB: 10},
		Tools:       map[string]string{},
	}
}
