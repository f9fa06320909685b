// Package app implements the application layer for signet.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/engine/signer"
	"go.trai.ch/zerr"
)

// Deps lists the ports the App is built from.
type Deps struct {
	ConfigLoader ports.ConfigLoader
	Logger       ports.Logger
	Provider     ports.MetadataProvider
	Keys         ports.KeySource
	FileSystem   ports.FileSystem
	Finder       ports.ModuleFinder
	Resolver     ports.InputResolver
	Hasher       ports.Hasher
	Tools        ports.ToolInvoker
	Telemetry    ports.Telemetry
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	provider     ports.MetadataProvider
	keys         ports.KeySource
	fs           ports.FileSystem
	finder       ports.ModuleFinder
	resolver     ports.InputResolver
	hasher       ports.Hasher
	tools        ports.ToolInvoker
	telemetry    ports.Telemetry

	out      io.Writer
	settings *domain.Settings
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{
		configLoader: deps.ConfigLoader,
		logger:       deps.Logger,
		provider:     deps.Provider,
		keys:         deps.Keys,
		fs:           deps.FileSystem,
		finder:       deps.Finder,
		resolver:     deps.Resolver,
		hasher:       deps.Hasher,
		tools:        deps.Tools,
		telemetry:    deps.Telemetry,
		out:          os.Stdout,
	}
}

// SetOutput redirects command results, which go to stdout by default.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// GlobalOptions are the options shared by all commands.
type GlobalOptions struct {
	// ConfigPath names signet.yaml or the directory to start discovery from.
	ConfigPath string
	Verbose    bool
	JSONLogs   bool
}

type logConfigurer interface {
	Configure(settings domain.LogSettings)
}

type toolConfigurer interface {
	Configure(tools map[string]string)
}

// Configure loads the project configuration and applies it to the adapters.
func (a *App) Configure(opts GlobalOptions) (*domain.Settings, error) {
	cwd := "."
	if opts.ConfigPath != "" {
		info, err := a.fs.Stat(opts.ConfigPath)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "config path"), "path", opts.ConfigPath)
		}
		cwd = opts.ConfigPath
		if !info.IsDir() {
			cwd = filepath.Dir(opts.ConfigPath)
		}
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}

	settings, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	settings.Log.Verbose = settings.Log.Verbose || opts.Verbose
	settings.Log.JSON = settings.Log.JSON || opts.JSONLogs

	if l, ok := a.logger.(logConfigurer); ok {
		l.Configure(settings.Log)
	}
	if t, ok := a.tools.(toolConfigurer); ok {
		t.Configure(settings.Tools)
	}

	a.settings = settings
	return settings, nil
}

// Settings returns the loaded settings, or the defaults before Configure ran.
func (a *App) Settings() *domain.Settings {
	if a.settings == nil {
		return domain.DefaultSettings()
	}
	return a.settings
}

func (a *App) engine() *signer.Engine {
	s := a.Settings()
	return signer.New(a.provider, a.keys, a.fs, a.finder, a.logger, signer.Options{
		Extensions: s.Extensions,
		Backup:     s.Backup,
	})
}

// KeyOptions select the signing key of a command.
type KeyOptions struct {
	KeyPath  string
	Password string
}

// resolve fills unset options from the configuration and the password variable.
func (o KeyOptions) resolve(s *domain.Settings) KeyOptions {
	if o.KeyPath == "" {
		o.KeyPath = s.KeyFile
	}
	if o.Password == "" && s.PasswordEnv != "" {
		o.Password = os.Getenv(s.PasswordEnv)
	}
	return o
}

// resolveInputs expands command line inputs against the working directory.
func (a *App) resolveInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoInputs
	}
	return a.resolver.ResolveInputs(inputs, ".")
}

// record runs fn inside a telemetry vertex.
func (a *App) record(ctx context.Context, name string, fn func(ctx context.Context, v ports.Vertex) error) error {
	ctx, vertex := a.telemetry.Record(ctx, name)
	err := fn(ctx, vertex)
	vertex.Complete(err)
	return err
}
