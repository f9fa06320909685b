package graph

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/engine/output"
	"go.trai.ch/zerr"
)

// handleState tags the lifecycle of a record's metadata handle.
type handleState uint8

const (
	unloaded handleState = iota
	loaded
	modified
)

// Record is one module of a Graph. Its metadata is always read from TargetPath.
type Record struct {
	g *Graph

	SourceDir    string
	TargetDir    string
	RelativePath string

	state  handleState
	handle ports.MetadataHandle
}

// SourcePath is the module file the record was added from.
func (r *Record) SourcePath() string {
	return filepath.Join(r.SourceDir, r.RelativePath)
}

// TargetPath is the module file the record reads and writes.
func (r *Record) TargetPath() string {
	return filepath.Join(r.TargetDir, r.RelativePath)
}

// IsDirty reports whether the handle holds changes not yet written.
func (r *Record) IsDirty() bool {
	return r.state == modified
}

// load opens the target file unless a handle is already held.
func (r *Record) load() (ports.MetadataHandle, error) {
	if r.state != unloaded {
		return r.handle, nil
	}
	h, err := r.g.provider.Open(r.TargetPath(), ports.ReadOptions{SearchDirs: r.g.ProbingPaths()})
	if err != nil {
		return nil, err
	}
	r.handle = h
	r.state = loaded
	return h, nil
}

func (r *Record) modify() {
	r.state = modified
}

// written drops the handle after a write and reopens the written file.
func (r *Record) written() error {
	r.handle = nil
	r.state = unloaded
	_, err := r.load()
	return err
}

// Info returns the identity derived from the current handle.
func (r *Record) Info() (domain.AssemblyIdentity, error) {
	h, err := r.load()
	if err != nil {
		return domain.AssemblyIdentity{}, err
	}
	return h.Identity(), nil
}

// SignIfNeeded writes the module with key unless it is already signed.
// Unreadable modules are skipped; other failures abort.
func (r *Record) SignIfNeeded(key domain.KeyMaterial) domain.Outcome {
	info, err := r.Info()
	if err != nil {
		if errors.Is(err, domain.ErrUnreadableFormat) {
			return domain.Skipped(err)
		}
		return domain.Aborted(err)
	}
	if info.IsSigned() {
		return domain.Unchanged()
	}

	if err := r.Write(&key); err != nil {
		return domain.Aborted(err)
	}
	r.g.logger.Debug("signed " + r.TargetPath())
	return domain.Changed()
}

// FixReferenceTo rewrites every reference the rule matches.
// A record in an unreadable format is left alone.
func (r *Record) FixReferenceTo(rule domain.RetargetRule) domain.Outcome {
	h, err := r.load()
	if err != nil {
		if errors.Is(err, domain.ErrUnreadableFormat) {
			r.g.logger.Debug(fmt.Sprintf("not fixing references of %s: %v", r.TargetPath(), err))
			return domain.Unchanged()
		}
		return domain.Aborted(err)
	}

	changed := false
	for i, ref := range h.References() {
		if !rule.Matches(ref) {
			continue
		}
		if err := h.SetReference(i, rule.Apply(ref)); err != nil {
			return domain.Aborted(zerr.With(err, "path", r.TargetPath()))
		}
		changed = true
	}
	if !changed {
		return domain.Unchanged()
	}

	r.modify()
	r.g.logger.Debug(fmt.Sprintf("retargeted %s in %s to %s", rule.Name, r.TargetPath(), rule.To))
	return domain.Changed()
}

// RemoveInvalidFriendReferences removes friend declarations that do not name
// the friend's public key. It returns the number of declarations removed.
func (r *Record) RemoveInvalidFriendReferences() (int, domain.Outcome) {
	h, err := r.load()
	if err != nil {
		if errors.Is(err, domain.ErrUnreadableFormat) {
			return 0, domain.Unchanged()
		}
		return 0, domain.Aborted(err)
	}

	attrs := h.Attributes()
	removed := 0
	for i := len(attrs) - 1; i >= 0; i-- {
		if !attrs[i].IsFriendDeclaration() || attrs[i].HasPublicKey() {
			continue
		}
		if err := h.RemoveAttribute(i); err != nil {
			return removed, domain.Aborted(zerr.With(err, "path", r.TargetPath()))
		}
		removed++
	}
	if removed == 0 {
		return 0, domain.Unchanged()
	}

	r.modify()
	r.g.logger.Debug(fmt.Sprintf("removed %d friend declarations without public key from %s", removed, r.TargetPath()))
	return removed, domain.Changed()
}

// Write stores the current handle at TargetPath through an output transaction,
// signing it when key is non-nil. A record rewriting its own source keeps a backup.
func (r *Record) Write(key *domain.KeyMaterial) error {
	h, err := r.load()
	if err != nil {
		return err
	}

	target := r.TargetPath()
	if err := r.g.fs.MkdirAll(filepath.Dir(target)); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create output directory"), "path", target)
	}

	tx, err := output.Begin(r.g.fs, r.g.logger, target, target)
	if err != nil {
		return err
	}
	defer tx.Close()

	if r.g.backup && domain.SamePath(r.SourcePath(), target) {
		if _, err := tx.CreateBackup(); err != nil {
			return err
		}
	}
	if err := r.g.provider.Write(h, tx.StagingPath(), key); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return r.written()
}
