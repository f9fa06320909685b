package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Verify checks each input's signature with the configured strong name tool.
func (a *App) Verify(ctx context.Context, inputs []string) error {
	paths, err := a.resolveInputs(inputs)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := a.record(ctx, "verify "+path, func(ctx context.Context, v ports.Vertex) error {
			out, err := a.tools.Invoke(ctx, domain.StrongNameTool, domain.VerifyArgs(path))
			_, _ = fmt.Fprint(v.Stdout(), out)
			return err
		})
		if err != nil {
			return zerr.With(err, "path", path)
		}
		_, _ = fmt.Fprintf(a.out, "verified %s\n", path)
	}
	return nil
}

// Reassemble rebuilds a module through the disassembler and assembler,
// signing the result with keyPath when set. An empty output rewrites path.
func (a *App) Reassemble(ctx context.Context, path, output, keyPath string) error {
	if !a.fs.Exists(path) {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "module"), "path", path)
	}
	if output == "" {
		output = path
	}
	if keyPath == "" {
		keyPath = a.Settings().KeyFile
	}

	return a.record(ctx, "reassemble "+path, func(ctx context.Context, v ports.Vertex) error {
		work, err := a.fs.MkdirTemp(domain.StagingPrefix + "il-")
		if err != nil {
			return err
		}
		defer func() {
			if err := a.fs.RemoveAll(work); err != nil {
				a.logger.Warn(fmt.Sprintf("failed to remove %s: %v", work, err))
			}
		}()

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		ilPath := filepath.Join(work, base+".il")
		out, err := a.tools.Invoke(ctx, domain.DisassemblerTool, domain.DisassembleArgs(path, ilPath))
		_, _ = fmt.Fprint(v.Stdout(), out)
		if err != nil {
			return err
		}

		staged := filepath.Join(work, filepath.Base(output))
		out, err = a.tools.Invoke(ctx, domain.AssemblerTool, domain.ReassembleArgs(ilPath, staged, keyPath))
		_, _ = fmt.Fprint(v.Stdout(), out)
		if err != nil {
			return err
		}

		if err := a.fs.MkdirAll(filepath.Dir(output)); err != nil {
			return err
		}
		if err := a.fs.CopyFile(staged, output); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "reassembled %s\n", output)
		return nil
	})
}

