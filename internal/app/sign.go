package app

import (
	"context"
	"fmt"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/engine/signer"
)

// SignOptions configure the sign command.
type SignOptions struct {
	KeyOptions
	OutputDir string
	Force     bool
	// FixRefs signs the inputs as a set and retargets references among them.
	FixRefs bool
}

// Sign signs each input module on its own. All modules share one key,
// generated for this run when none is configured.
func (a *App) Sign(ctx context.Context, inputs []string, opts SignOptions) error {
	paths, err := a.resolveInputs(inputs)
	if err != nil {
		return err
	}

	settings := a.Settings()
	keyOpts := opts.KeyOptions.resolve(settings)
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = settings.OutputDir
	}

	engine := a.engine()
	key, err := engine.ResolveKey(nil, keyOpts.KeyPath, keyOpts.Password)
	if err != nil {
		return err
	}

	if opts.FixRefs {
		return a.signSet(ctx, engine, paths, outputDir, key)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := a.record(ctx, "sign "+path, func(_ context.Context, v ports.Vertex) error {
			id, err := engine.Sign(signer.SignRequest{
				Path:      path,
				Key:       &key,
				OutputDir: outputDir,
				Force:     opts.Force,
			})
			if err != nil {
				return err
			}
			v.Log(domain.LogLevelInfo, id.FullName())
			_, _ = fmt.Fprintf(a.out, "signed %s (%s)\n", id.Path, id.PublicKeyToken)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// signSet signs paths as one set of file pairs. Already signed modules are
// left alone and only contribute their outputs to the reference fixup.
func (a *App) signSet(ctx context.Context, engine *signer.Engine, paths []string, outputDir string, key domain.KeyMaterial) error {
	pairs := make([]domain.FilePair, len(paths))
	for i, path := range paths {
		pairs[i] = domain.NewFilePair(path, outputDir)
	}

	var stats domain.Stats
	err := a.record(ctx, "sign", func(ctx context.Context, v ports.Vertex) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		stats, err = engine.SignFiles(pairs, key)
		if stats.Empty() && err == nil {
			v.Cached()
		}
		return err
	})
	return a.report(stats, err)
}

// BatchOptions configure the batch command.
type BatchOptions struct {
	KeyOptions
	OutputDir string
}

// Batch signs the modules found in inputs as one working set and reports the summary.
func (a *App) Batch(ctx context.Context, inputs []string, opts BatchOptions) (domain.Stats, error) {
	paths, err := a.resolveInputs(inputs)
	if err != nil {
		return domain.Stats{}, err
	}

	settings := a.Settings()
	keyOpts := opts.KeyOptions.resolve(settings)
	ws := signer.WorkingSet{Inputs: paths, OutputDir: opts.OutputDir, KeyPath: keyOpts.KeyPath}
	if ws.OutputDir == "" {
		ws.OutputDir = settings.OutputDir
	}

	var stats domain.Stats
	err = a.record(ctx, "batch", func(ctx context.Context, v ports.Vertex) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		stats, err = a.engine().SignGraph(ws, nil, keyOpts.Password)
		if stats.Empty() && err == nil {
			v.Cached()
		}
		return err
	})
	return stats, a.report(stats, err)
}

// report warns about skipped files and prints the summary of a successful run.
func (a *App) report(stats domain.Stats, err error) error {
	for _, skipped := range stats.Skipped {
		a.logger.Warn(fmt.Sprintf("skipped %s: %v", skipped.Path, skipped.Reason))
	}
	if err != nil {
		return err
	}

	if stats.Empty() {
		_, _ = fmt.Fprintln(a.out, "nothing to sign")
		return nil
	}
	_, _ = fmt.Fprintln(a.out, stats.String())
	return nil
}

// Fix retargets the references of path to the signed module at reference.
func (a *App) Fix(ctx context.Context, path, reference string, opts KeyOptions) error {
	keyOpts := opts.resolve(a.Settings())
	return a.record(ctx, "fix "+path, func(_ context.Context, v ports.Vertex) error {
		changed, err := a.engine().FixReference(signer.FixRequest{
			Path:          path,
			ReferencePath: reference,
			KeyPath:       keyOpts.KeyPath,
			Password:      keyOpts.Password,
		})
		if err != nil {
			return err
		}
		if !changed {
			v.Cached()
			_, _ = fmt.Fprintf(a.out, "%s already references %s correctly\n", path, reference)
			return nil
		}
		_, _ = fmt.Fprintf(a.out, "fixed references of %s\n", path)
		return nil
	})
}

// Keygen writes a new key pair to path. Container formats are protected with password.
func (a *App) Keygen(ctx context.Context, path string, bits int, password string) error {
	return a.record(ctx, "keygen "+path, func(_ context.Context, _ ports.Vertex) error {
		key, err := a.keys.Generate(bits)
		if err != nil {
			return err
		}
		key.Password = password
		if err := a.keys.Save(path, key); err != nil {
			return err
		}
		token, err := a.keys.PublicKeyToken(key)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "wrote %s (public key token %s)\n", path, token)
		return nil
	})
}
