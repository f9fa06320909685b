package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/engine/signer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Inspection is the inspect result of one module.
type Inspection struct {
	Path   string
	Digest string
	signer.ModuleReport
}

// Inspect reports the identity of every input module. Modules are read
// concurrently; the report keeps the input order.
func (a *App) Inspect(ctx context.Context, inputs []string, refs bool) error {
	results, err := a.InspectAll(ctx, inputs)
	if err != nil {
		return err
	}
	return RenderInspections(a.out, results, refs)
}

// InspectAll inspects the input modules concurrently.
func (a *App) InspectAll(ctx context.Context, inputs []string) ([]Inspection, error) {
	paths, err := a.resolveInputs(inputs)
	if err != nil {
		return nil, err
	}

	engine := a.engine()
	results := make([]Inspection, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.record(ctx, "inspect "+path, func(_ context.Context, v ports.Vertex) error {
				report, err := engine.InspectModule(path)
				if err != nil {
					return zerr.With(err, "path", path)
				}
				digest, err := a.hasher.HashFile(path)
				if err != nil {
					return zerr.With(err, "path", path)
				}
				v.Cached()
				results[i] = Inspection{Path: path, Digest: digest, ModuleReport: report}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RenderInspections writes the human readable inspect report.
func RenderInspections(w io.Writer, results []Inspection, refs bool) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		id := r.Identity
		fmt.Fprintf(&b, "%s\n", r.Path)
		fmt.Fprintf(&b, "  name:      %s\n", id.Name)
		fmt.Fprintf(&b, "  version:   %s\n", id.Version)
		fmt.Fprintf(&b, "  runtime:   %s\n", id.RuntimeVersion)
		fmt.Fprintf(&b, "  platform:  %s\n", id.Platform)
		fmt.Fprintf(&b, "  il only:   %t\n", id.ILOnly)
		fmt.Fprintf(&b, "  signing:   %s\n", id.Signing)
		fmt.Fprintf(&b, "  token:     %s\n", id.PublicKeyToken)
		fmt.Fprintf(&b, "  digest:    %s\n", r.Digest)
		if !refs {
			continue
		}

		b.WriteString("  references:\n")
		if len(r.References) == 0 {
			b.WriteString("    (none)\n")
		}
		for _, ref := range r.References {
			location := ref.Location
			if location == "" {
				location = "unresolved"
			}
			fmt.Fprintf(&b, "    %s -> %s\n", ref.FullName(), location)
		}

		b.WriteString("  friends:\n")
		if len(r.Friends) == 0 {
			b.WriteString("    (none)\n")
		}
		for _, friend := range r.Friends {
			marker := ""
			if !friend.HasPublicKey() {
				marker = " (no public key)"
			}
			fmt.Fprintf(&b, "    %s%s\n", strings.Join(friend.Args, ", "), marker)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
