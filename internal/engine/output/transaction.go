// Package output implements transactional replacement of module files.
//
// A Transaction stages a module write and moves it into place on Commit.
// When a module is rewritten in place the staged copy lives in a private
// temporary directory, so the original stays untouched until the commit
// and can be restored if moving the new files fails.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the lifecycle state of a Transaction.
type State uint8

const (
	// Staged transactions accept writes to their staging path.
	Staged State = iota
	// Committed transactions moved their staged files into place.
	Committed
	// RolledBack transactions were closed without a successful commit.
	RolledBack
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return "staged"
	}
}

// Transaction replaces a destination module, and its symbol sidecar, with a staged write.
type Transaction struct {
	fs     ports.FileSystem
	logger ports.Logger

	source  string
	dest    string
	staging string
	private string
	// backedUp is set when this transaction took the destination's backup.
	backedUp bool

	state State
}

// Begin starts a transaction that writes source's replacement to dest.
// When both name the same file, staging happens in a private directory.
// Otherwise the destination directory is created and staging is dest itself.
func Begin(fsys ports.FileSystem, logger ports.Logger, source, dest string) (*Transaction, error) {
	t := &Transaction{
		fs:      fsys,
		logger:  logger,
		source:  filepath.Clean(source),
		dest:    filepath.Clean(dest),
		staging: filepath.Clean(dest),
	}

	if domain.SamePath(source, dest) {
		dir, err := fsys.MkdirTemp(stagingPattern())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create staging directory"),
				"path", dest)
		}
		t.private = dir
		t.staging = filepath.Join(dir, filepath.Base(dest))
		return t, nil
	}

	if err := fsys.MkdirAll(filepath.Dir(t.dest)); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create output directory"),
			"path", filepath.Dir(t.dest))
	}
	return t, nil
}

func stagingPattern() string {
	return fmt.Sprintf("%s%d-%s-", domain.StagingPrefix, os.Getpid(), uuid.NewString())
}

// StagingPath is the file the new module content must be written to.
func (t *Transaction) StagingPath() string {
	return t.staging
}

// IsPrivate reports whether the transaction stages in a private directory.
func (t *Transaction) IsPrivate() bool {
	return t.private != ""
}

// State returns the current lifecycle state.
func (t *Transaction) State() State {
	return t.state
}

// CreateBackup preserves the destination's current content, and its sidecar,
// next to it with the backup suffix. An existing backup is kept, so the first
// preserved version survives repeated writes. It returns the backup path, or
// an empty string when the destination does not exist yet.
func (t *Transaction) CreateBackup() (string, error) {
	if t.state != Staged {
		return "", zerr.With(zerr.Wrap(domain.ErrTransactionClosed, "cannot back up"), "path", t.dest)
	}
	if !t.fs.Exists(t.dest) {
		return "", nil
	}

	backup := domain.BackupPath(t.dest)
	if t.fs.Exists(backup) {
		return backup, nil
	}
	if err := t.fs.CopyFile(t.dest, backup); err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create backup"), "path", backup)
	}

	sidecar := domain.SymbolPath(t.dest)
	if t.fs.Exists(sidecar) {
		sidecarBackup := domain.BackupPath(sidecar)
		if err := t.fs.CopyFile(sidecar, sidecarBackup); err != nil {
			return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to create backup"),
				"path", sidecarBackup)
		}
	}
	t.backedUp = true
	return backup, nil
}

// Commit moves the staged files into place. When moving fails, the previous
// destination files are restored and an error wrapping domain.ErrIO is returned.
func (t *Transaction) Commit() error {
	if t.state != Staged {
		return zerr.With(zerr.Wrap(domain.ErrTransactionClosed, "cannot commit"), "path", t.dest)
	}

	var err error
	if t.IsPrivate() {
		err = t.commitPrivate()
	} else {
		err = t.carrySidecar()
	}
	if err != nil {
		t.state = RolledBack
		return err
	}

	t.state = Committed
	return nil
}

// commitPrivate parks the current destination files in the private directory,
// then moves the staged files over them.
func (t *Transaction) commitPrivate() error {
	moves := []move{{from: t.staging, to: t.dest}}
	if stagedSidecar := domain.SymbolPath(t.staging); t.fs.Exists(stagedSidecar) {
		moves = append(moves, move{from: stagedSidecar, to: domain.SymbolPath(t.dest)})
	}

	var parked []move
	for i, m := range moves {
		if t.fs.Exists(m.to) {
			prev := filepath.Join(t.private, fmt.Sprintf("prev-%d-%s", i, filepath.Base(m.to)))
			if err := t.fs.Rename(m.to, prev); err != nil {
				t.restore(parked)
				return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to replace file"), "path", m.to)
			}
			parked = append(parked, move{from: prev, to: m.to})
		}
	}

	for _, m := range moves {
		if err := t.fs.Rename(m.from, m.to); err != nil {
			t.restore(parked)
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to move staged file"), "path", m.to)
		}
	}
	return nil
}

// carrySidecar copies the source's sidecar next to an out-of-place destination.
func (t *Transaction) carrySidecar() error {
	sidecar := domain.SymbolPath(t.source)
	if !t.fs.Exists(sidecar) {
		return nil
	}
	target := domain.SymbolPath(t.dest)
	if err := t.fs.CopyFile(sidecar, target); err != nil {
		t.restoreFromBackup()
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to copy symbol file"), "path", target)
	}
	return nil
}

type move struct {
	from string
	to   string
}

// restore moves parked files back into place, best effort.
func (t *Transaction) restore(parked []move) {
	for _, m := range parked {
		if err := t.fs.Rename(m.from, m.to); err != nil {
			t.logger.Error(zerr.With(zerr.Wrap(err, "failed to restore file"), "path", m.to))
		}
	}
}

// restoreFromBackup copies the backup this transaction took over the destination, best effort.
func (t *Transaction) restoreFromBackup() {
	if !t.backedUp {
		return
	}
	backup := domain.BackupPath(t.dest)
	if err := t.fs.CopyFile(backup, t.dest); err != nil {
		t.logger.Error(zerr.With(zerr.Wrap(err, "failed to restore backup"), "path", t.dest))
	}
}

// Close finishes the transaction. An uncommitted transaction is rolled back.
// The private staging directory is removed; failures are logged, never returned.
func (t *Transaction) Close() {
	if t.state == Staged {
		t.state = RolledBack
	}
	if t.private == "" {
		return
	}
	if err := t.fs.RemoveAll(t.private); err != nil {
		t.logger.Warn(fmt.Sprintf("failed to remove staging directory %s: %v", t.private, err))
	}
	t.private = ""
}
