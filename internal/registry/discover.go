package registry

import (
	"context"
	"fmt"
	"runtime"

	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/descriptor"
	"github.com/reztools/rt/internal/logging"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type parsed struct {
	d   *descriptor.Descriptor
	err error
}

// Discover scans the settings' search paths, parses every descriptor and
// returns the merged registry. Only context cancellation makes it fail.
func Discover(ctx context.Context, fsys afero.Fs, settings *config.Settings) (*Registry, error) {
	log := logging.From(ctx)

	files, diags := Scan(fsys, settings.SearchPaths, settings.Extension)
	for _, d := range diags {
		log.Debug().Str("path", d.Path).Msg(d.Message)
	}

	results := make([]parsed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := descriptor.Parse(fsys, path, settings.Extension)
			results[i] = parsed{d: d, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovering plugins: %w", err)
	}

	reg := New()
	reg.Diagnostics = diags
	for i, path := range files {
		r := results[i]
		if r.err != nil {
			reg.Diagnostics = append(reg.Diagnostics, Diagnostic{
				Kind:    KindParseError,
				Path:    path,
				Message: r.err.Error(),
				Err:     r.err,
			})
			continue
		}
		if !reg.Add(r.d) {
			continue
		}
		log.Debug().Str("plugin", r.d.Name).Str("path", path).Msg("discovered plugin")
		if r.d.InheritsFrom != "" {
			reg.Diagnostics = append(reg.Diagnostics, Diagnostic{
				Kind:    KindInheritance,
				Path:    path,
				Message: fmt.Sprintf("plugin %q in %s: inherits_from %q is not supported and was ignored", r.d.Name, path, r.d.InheritsFrom),
			})
		}
	}

	log.Debug().Int("plugins", reg.Len()).Int("diagnostics", len(reg.Diagnostics)).Msg("registry assembled")
	return reg, nil
}
