// Package graph implements the working-set signing engine.
//
// A Graph holds the modules of a working set. Sign strong-name signs every
// unsigned member, retargets the references of all members to the new
// identities, drops friend declarations invalidated by the token change and
// writes each changed member once more.
package graph

import (
	"errors"
	"path/filepath"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures a Graph.
type Options struct {
	// Extensions select the files AddFromDirectory treats as modules.
	Extensions []string
	// Backup keeps a copy of modules rewritten in place.
	Backup bool
}

// Graph is an ordered set of module records.
type Graph struct {
	finder   ports.ModuleFinder
	provider ports.MetadataProvider
	fs       ports.FileSystem
	logger   ports.Logger

	extensions []string
	backup     bool

	records []*Record
	probing []string
}

// New creates an empty Graph.
func New(
	finder ports.ModuleFinder,
	provider ports.MetadataProvider,
	fsys ports.FileSystem,
	logger ports.Logger,
	opts Options,
) *Graph {
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = domain.DefaultModuleExtensions()
	}
	return &Graph{
		finder:     finder,
		provider:   provider,
		fs:         fsys,
		logger:     logger,
		extensions: extensions,
		backup:     opts.Backup,
	}
}

// Records returns the records in insertion order.
func (g *Graph) Records() []*Record {
	return g.records
}

// Add adds the module at relativePath below sourceDir, to be written below targetDir.
// When the directories differ the module and its sidecar are copied to the target right away.
func (g *Graph) Add(sourceDir, targetDir, relativePath string) error {
	if !g.fs.Exists(sourceDir) {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "source directory"), "path", sourceDir)
	}
	if targetDir == "" {
		targetDir = sourceDir
	}

	r := &Record{
		g:            g,
		SourceDir:    filepath.Clean(sourceDir),
		TargetDir:    filepath.Clean(targetDir),
		RelativePath: filepath.Clean(relativePath),
	}

	if !domain.SamePath(r.SourcePath(), r.TargetPath()) {
		if err := g.copyToTarget(r); err != nil {
			return err
		}
	}

	g.records = append(g.records, r)
	g.probing = nil
	return nil
}

func (g *Graph) copyToTarget(r *Record) error {
	target := r.TargetPath()
	if err := g.fs.MkdirAll(filepath.Dir(target)); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create output directory"), "path", target)
	}
	if err := g.fs.CopyFile(r.SourcePath(), target); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to copy module"), "path", target)
	}
	if sidecar := domain.SymbolPath(r.SourcePath()); g.fs.Exists(sidecar) {
		if err := g.fs.CopyFile(sidecar, domain.SymbolPath(target)); err != nil {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to copy symbol file"), "path", sidecar)
		}
	}
	return nil
}

// AddFromDirectory adds every module below sourceDir, in sorted order.
func (g *Graph) AddFromDirectory(sourceDir, targetDir string) error {
	if !g.fs.Exists(sourceDir) {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "source directory"), "path", sourceDir)
	}
	files, err := g.finder.ModuleFiles(sourceDir, g.extensions)
	if err != nil {
		return err
	}
	for _, rel := range files {
		if err := g.Add(sourceDir, targetDir, rel); err != nil {
			return err
		}
	}
	return nil
}

// AddFromFile adds a single module, to be written into targetDir.
func (g *Graph) AddFromFile(sourceFile, targetDir string) error {
	if !g.fs.Exists(sourceFile) {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "module"), "path", sourceFile)
	}
	return g.Add(filepath.Dir(sourceFile), targetDir, filepath.Base(sourceFile))
}

// ProbingPaths returns the distinct source directories of all records.
func (g *Graph) ProbingPaths() []string {
	if g.probing != nil {
		return g.probing
	}
	seen := make(map[string]struct{}, len(g.records))
	paths := make([]string, 0, len(g.records))
	for _, r := range g.records {
		dir := filepath.Dir(r.SourcePath())
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		paths = append(paths, dir)
	}
	g.probing = paths
	return paths
}

// resigned is a record signed by the current run with the identity it had before.
type resigned struct {
	record   *Record
	previous domain.AssemblyIdentity
	current  domain.AssemblyIdentity
}

// Sign signs all unsigned records with key and makes the working set consistent.
// Recoverable per-file problems are reported in Stats.Skipped; a failure that
// aborts the batch is returned together with the stats gathered so far.
func (g *Graph) Sign(key domain.KeyMaterial) (domain.Stats, error) {
	var stats domain.Stats

	signed, err := g.signPhase(key, &stats)
	if err != nil {
		return stats, err
	}
	if err := g.fixupPhase(signed, &stats); err != nil {
		return stats, err
	}
	if err := g.friendPhase(signed, &stats); err != nil {
		return stats, err
	}
	return stats, g.commitPhase(key)
}

func (g *Graph) signPhase(key domain.KeyMaterial, stats *domain.Stats) ([]resigned, error) {
	var signed []resigned
	for _, r := range g.records {
		previous, err := r.Info()
		if err != nil {
			if errors.Is(err, domain.ErrUnreadableFormat) {
				stats.Skipped = append(stats.Skipped, domain.SkippedFile{Path: r.SourcePath(), Reason: err})
				continue
			}
			return signed, abort(err)
		}
		if previous.Signing != domain.NotSigned {
			continue
		}

		outcome := r.SignIfNeeded(key)
		switch outcome.Status {
		case domain.OutcomeChanged:
			current, err := r.Info()
			if err != nil {
				return signed, abort(err)
			}
			signed = append(signed, resigned{record: r, previous: previous, current: current})
			stats.Signed++
		case domain.OutcomeSkipped:
			stats.Skipped = append(stats.Skipped, domain.SkippedFile{Path: r.SourcePath(), Reason: outcome.Err})
		case domain.OutcomeAborted:
			return signed, abort(outcome.Err)
		case domain.OutcomeUnchanged:
		}
	}
	return signed, nil
}

func (g *Graph) fixupPhase(signed []resigned, stats *domain.Stats) error {
	for _, r := range g.records {
		for _, s := range signed {
			if s.record.TargetPath() == r.TargetPath() {
				continue
			}
			outcome := r.FixReferenceTo(domain.RetargetTo(s.previous, s.current))
			if outcome.IsAborted() {
				return abort(outcome.Err)
			}
			if outcome.IsChanged() {
				stats.Fixed++
			}
		}
	}
	return nil
}

func (g *Graph) friendPhase(signed []resigned, stats *domain.Stats) error {
	for _, s := range signed {
		removed, outcome := s.record.RemoveInvalidFriendReferences()
		if outcome.IsAborted() {
			return abort(outcome.Err)
		}
		stats.FriendsRemoved += removed
	}
	return nil
}

func (g *Graph) commitPhase(key domain.KeyMaterial) error {
	for _, r := range g.records {
		if !r.IsDirty() {
			continue
		}
		if err := r.Write(&key); err != nil {
			return abort(err)
		}
	}
	return nil
}

func abort(err error) error {
	return zerr.Wrap(errors.Join(domain.ErrBatchAborted, err), "batch signing aborted")
}
