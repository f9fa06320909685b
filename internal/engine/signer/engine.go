// Package signer provides the signing engine facade used by the application layer.
package signer

import (
	"errors"
	"path/filepath"
	"strings"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/engine/graph"
	"go.trai.ch/signet/internal/engine/output"
	"go.trai.ch/zerr"
)

// Options configures an Engine.
type Options struct {
	// Extensions select the files treated as modules when scanning directories.
	Extensions []string
	// Backup keeps a copy of every module rewritten in place.
	Backup bool
}

// Engine signs single modules, pairs of files and whole working sets.
type Engine struct {
	provider ports.MetadataProvider
	keys     ports.KeySource
	fs       ports.FileSystem
	finder   ports.ModuleFinder
	logger   ports.Logger
	opts     Options
}

// New creates a new Engine.
func New(
	provider ports.MetadataProvider,
	keys ports.KeySource,
	fsys ports.FileSystem,
	finder ports.ModuleFinder,
	logger ports.Logger,
	opts Options,
) *Engine {
	return &Engine{
		provider: provider,
		keys:     keys,
		fs:       fsys,
		finder:   finder,
		logger:   logger,
		opts:     opts,
	}
}

// SignRequest describes a single module to sign.
type SignRequest struct {
	Path string
	// KeyPath names a key file. Key takes precedence when set; with neither
	// a key pair is generated for this request only.
	KeyPath  string
	Key      *domain.KeyMaterial
	Password string
	// OutputDir receives the signed module; empty signs in place.
	OutputDir string
	// Force re-signs modules that already carry a valid signature.
	Force bool
}

// FixRequest describes a reference to retarget at a signed module.
type FixRequest struct {
	Path          string
	ReferencePath string
	KeyPath       string
	Key           *domain.KeyMaterial
	Password      string
}

// WorkingSet lists the inputs of a graph run. Inputs are module files or directories.
type WorkingSet struct {
	Inputs []string
	// OutputDir is the target root; empty rewrites modules in place.
	OutputDir string
	KeyPath   string
}

// ModuleReport is the detailed view of a module used for inspection.
type ModuleReport struct {
	Identity   domain.AssemblyIdentity
	References []domain.Reference
	Friends    []domain.Attribute
}

// Sign strong-name signs one module and returns its new identity.
func (e *Engine) Sign(req SignRequest) (domain.AssemblyIdentity, error) {
	if !e.fs.Exists(req.Path) {
		return domain.AssemblyIdentity{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "module"), "path", req.Path)
	}

	handle, err := e.provider.Open(req.Path, ports.ReadOptions{})
	if err != nil {
		return domain.AssemblyIdentity{}, err
	}
	if handle.Identity().IsSigned() && !req.Force {
		return domain.AssemblyIdentity{}, zerr.With(zerr.Wrap(domain.ErrAlreadySigned, "refusing to sign"),
			"path", req.Path)
	}

	key, err := e.ResolveKey(req.Key, req.KeyPath, req.Password)
	if err != nil {
		return domain.AssemblyIdentity{}, err
	}

	pair := domain.NewFilePair(req.Path, req.OutputDir)
	if err := e.write(handle, pair, &key, e.opts.Backup); err != nil {
		return domain.AssemblyIdentity{}, err
	}
	return e.Inspect(pair.Output)
}

// write stores handle at pair.Output through an output transaction.
func (e *Engine) write(handle ports.MetadataHandle, pair domain.FilePair, key *domain.KeyMaterial, backup bool) error {
	tx, err := output.Begin(e.fs, e.logger, pair.Input, pair.Output)
	if err != nil {
		return err
	}
	defer tx.Close()

	if backup {
		if _, err := tx.CreateBackup(); err != nil {
			return err
		}
	}
	if err := e.provider.Write(handle, tx.StagingPath(), key); err != nil {
		return err
	}
	return tx.Commit()
}

// Inspect returns the identity of the module at path.
func (e *Engine) Inspect(path string) (domain.AssemblyIdentity, error) {
	handle, err := e.open(path)
	if err != nil {
		return domain.AssemblyIdentity{}, err
	}
	return handle.Identity(), nil
}

// InspectModule returns the identity, references and friend declarations of the module at path.
func (e *Engine) InspectModule(path string) (ModuleReport, error) {
	handle, err := e.open(path)
	if err != nil {
		return ModuleReport{}, err
	}

	report := ModuleReport{
		Identity:   handle.Identity(),
		References: handle.References(),
	}
	for _, attr := range handle.Attributes() {
		if attr.IsFriendDeclaration() {
			report.Friends = append(report.Friends, attr)
		}
	}
	return report, nil
}

func (e *Engine) open(path string) (ports.MetadataHandle, error) {
	if !e.fs.Exists(path) {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "module"), "path", path)
	}
	return e.provider.Open(path, ports.ReadOptions{})
}

// FixReference retargets the references of Path to the signed module at
// ReferencePath. It reports whether Path was rewritten.
func (e *Engine) FixReference(req FixRequest) (bool, error) {
	handle, err := e.open(req.Path)
	if err != nil {
		return false, err
	}
	target, err := e.Inspect(req.ReferencePath)
	if err != nil {
		return false, err
	}
	if !target.IsSigned() {
		e.logger.Debug(req.ReferencePath + " is not signed, nothing to fix")
		return false, nil
	}

	rule := domain.RetargetRule{Name: target.Name, AnyFrom: true, Version: target.Version, To: target.PublicKeyToken}
	changed, err := retarget(handle, rule)
	if err != nil || !changed {
		return false, err
	}

	var key *domain.KeyMaterial
	if handle.Identity().Signing != domain.NotSigned {
		if req.Key == nil && req.KeyPath == "" {
			return false, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "a signed module can only be fixed with its key"), "path", req.Path)
		}
		k, err := e.ResolveKey(req.Key, req.KeyPath, req.Password)
		if err != nil {
			return false, err
		}
		key = &k
	}
	if err := e.write(handle, domain.NewFilePair(req.Path, ""), key, e.opts.Backup); err != nil {
		return false, err
	}
	return true, nil
}

func retarget(handle ports.MetadataHandle, rule domain.RetargetRule) (bool, error) {
	changed := false
	for i, ref := range handle.References() {
		if !rule.Matches(ref) {
			continue
		}
		if err := handle.SetReference(i, rule.Apply(ref)); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// SignFiles signs each pair's input into its output, skipping modules that are
// already signed, then retargets references among all outputs.
func (e *Engine) SignFiles(pairs []domain.FilePair, key domain.KeyMaterial) (domain.Stats, error) {
	var stats domain.Stats
	var rules []domain.RetargetRule
	var outputs []string

	for _, pair := range pairs {
		rule, signed, err := e.signPair(pair, key)
		if err != nil {
			if errors.Is(err, domain.ErrUnreadableFormat) {
				stats.Skipped = append(stats.Skipped, domain.SkippedFile{Path: pair.Input, Reason: err})
				continue
			}
			return stats, zerr.Wrap(errors.Join(domain.ErrBatchAborted, err), "batch signing aborted")
		}
		outputs = append(outputs, pair.Output)
		if signed {
			rules = append(rules, rule)
			stats.Signed++
		}
	}

	for _, path := range outputs {
		fixed, err := e.fixOutput(path, rules, key)
		if err != nil {
			return stats, zerr.Wrap(errors.Join(domain.ErrBatchAborted, err), "batch signing aborted")
		}
		stats.Fixed += fixed
	}
	return stats, nil
}

// signPair signs one pair and returns the rule retargeting references to it.
// Already signed inputs are copied to an out-of-place output unchanged.
func (e *Engine) signPair(pair domain.FilePair, key domain.KeyMaterial) (domain.RetargetRule, bool, error) {
	handle, err := e.open(pair.Input)
	if err != nil {
		return domain.RetargetRule{}, false, err
	}
	previous := handle.Identity()

	if previous.IsSigned() {
		if !pair.SamePath() {
			if err := e.fs.MkdirAll(filepath.Dir(pair.Output)); err != nil {
				return domain.RetargetRule{}, false, errors.Join(domain.ErrIO, err)
			}
			if err := e.fs.CopyFile(pair.Input, pair.Output); err != nil {
				return domain.RetargetRule{}, false, errors.Join(domain.ErrIO, err)
			}
		}
		e.logger.Debug(pair.Input + " is already signed")
		return domain.RetargetRule{}, false, nil
	}

	if err := e.write(handle, pair, &key, e.opts.Backup); err != nil {
		return domain.RetargetRule{}, false, err
	}
	current, err := e.Inspect(pair.Output)
	if err != nil {
		return domain.RetargetRule{}, false, err
	}
	return domain.RetargetTo(previous, current), true, nil
}

// fixOutput applies every rule except the one naming the module itself.
func (e *Engine) fixOutput(path string, rules []domain.RetargetRule, key domain.KeyMaterial) (int, error) {
	if len(rules) == 0 {
		return 0, nil
	}
	handle, err := e.open(path)
	if err != nil {
		return 0, err
	}
	self := handle.Identity().Name

	fixed := 0
	for _, rule := range rules {
		if strings.EqualFold(rule.Name, self) {
			continue
		}
		changed, err := retarget(handle, rule)
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed++
		}
	}
	if fixed == 0 {
		return 0, nil
	}
	return fixed, e.write(handle, domain.NewFilePair(path, ""), &key, false)
}

// SignGraph signs a working set of files and directories as one graph.
func (e *Engine) SignGraph(ws WorkingSet, key *domain.KeyMaterial, password string) (domain.Stats, error) {
	if len(ws.Inputs) == 0 {
		return domain.Stats{}, domain.ErrNoInputs
	}

	g := graph.New(e.finder, e.provider, e.fs, e.logger, graph.Options{
		Extensions: e.opts.Extensions,
		Backup:     e.opts.Backup,
	})
	for _, input := range ws.Inputs {
		if !e.fs.Exists(input) {
			return domain.Stats{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "input"), "path", input)
		}
		info, err := e.fs.Stat(input)
		if err != nil {
			return domain.Stats{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to stat input"), "path", input)
		}
		if info.IsDir() {
			err = g.AddFromDirectory(input, ws.OutputDir)
		} else {
			err = g.AddFromFile(input, ws.OutputDir)
		}
		if err != nil {
			return domain.Stats{}, err
		}
	}

	resolved, err := e.ResolveKey(key, ws.KeyPath, password)
	if err != nil {
		return domain.Stats{}, err
	}
	return g.Sign(resolved)
}

// ResolveKey returns key when set, loads keyPath otherwise, and generates an
// ephemeral key pair when neither is given.
func (e *Engine) ResolveKey(key *domain.KeyMaterial, keyPath, password string) (domain.KeyMaterial, error) {
	switch {
	case key != nil:
		k := *key
		if k.Password == "" {
			k.Password = password
		}
		return k, nil
	case keyPath != "":
		return e.keys.Load(keyPath, password)
	default:
		e.logger.Debug("no key given, generating a key pair for this run")
		return e.keys.Generate(0)
	}
}
