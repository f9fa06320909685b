// Package config provides the configuration loader for signet.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvFileName is the dotenv file loaded from the working directory.
const EnvFileName = ".env"

var envNameRegex = regexp.MustCompile("^[A-Za-z_][A-Za-z0-9_]*$")

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	validate *validator.Validate
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	v := validator.New()
	_ = v.RegisterValidation("envname", func(fl validator.FieldLevel) bool {
		return envNameRegex.MatchString(fl.Field().String())
	})
	return &Loader{Logger: logger, validate: v}
}

// Load loads .env from cwd, then discovers signet.yaml by walking up from cwd.
// Without a configuration file the defaults apply, rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	if err := l.loadEnvFile(cwd); err != nil {
		return nil, err
	}

	settings := domain.DefaultSettings()
	settings.Root = cwd

	configPath, found := findConfiguration(cwd)
	if !found {
		l.Logger.Debug(fmt.Sprintf("no %s found, using defaults", domain.ConfigFileName))
		return settings, nil
	}
	l.Logger.Debug("using configuration " + configPath)

	var file Signetfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigInvalid, err), "configuration rejected"), "path", configPath)
	}

	apply(settings, &file, filepath.Dir(configPath))
	return settings, nil
}

func (l *Loader) loadEnvFile(cwd string) error {
	path := filepath.Join(cwd, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // A missing .env file is not an error.
	}
	if err := godotenv.Load(path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	l.Logger.Debug("loaded environment from " + path)
	return nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, out any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is discovered from the working directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrNotFound, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to read configuration"), "path", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "failed to parse configuration"), "path", path)
	}
	return nil
}

// apply merges the file into settings. Relative paths are resolved against root.
func apply(settings *domain.Settings, file *Signetfile, root string) {
	settings.Root = root
	settings.KeyFile = resolvePath(root, file.Key)
	settings.OutputDir = resolvePath(root, file.Output)
	if file.PasswordEnv != "" {
		settings.PasswordEnv = file.PasswordEnv
	}
	if len(file.Extensions) > 0 {
		settings.Extensions = file.Extensions
	}
	if file.Backup != nil {
		settings.Backup = *file.Backup
	}

	settings.Log.JSON = file.Log.JSON
	settings.Log.File = resolvePath(root, file.Log.File)
	if file.Log.MaxSizeMB > 0 {
		settings.Log.MaxSizeMB = file.Log.MaxSizeMB
	}

	for name, executable := range file.Tools {
		settings.Tools[name] = executable
	}
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
