package adapters

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"stratum/internal/core"
	"stratum/internal/types"
)

// recordFile is the metadata file written into every install prefix.
const recordFile = ".stratum-spec.yaml"

// InstallDBAdapter treats the install tree itself as the database of
// installed specs: each prefix carries a record file with the canonical
// spec it was built from.
type InstallDBAdapter struct {
	Root  string
	Clock func() time.Time
}

// NewInstallDBAdapter creates the database over an install root.
func NewInstallDBAdapter(root string) InstallDBAdapter {
	return InstallDBAdapter{Root: root, Clock: time.Now}
}

// InstalledSpecs walks the install root and parses every record back
// into a spec. Prefixes with unreadable records are skipped with a
// warning rather than failing the whole listing.
func (d InstallDBAdapter) InstalledSpecs(ctx context.Context) ([]*core.Spec, error) {
	var specs []*core.Spec
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry == nil {
				// The root may simply not exist yet.
				return nil
			}
			return err
		}
		if entry.IsDir() || entry.Name() != recordFile {
			return nil
		}
		spec, err := d.readRecord(path)
		if err != nil {
			log.Ctx(ctx).Warn().Str("path", path).Err(err).Msg("skipping unreadable install record")
			return nil
		}
		specs = append(specs, spec)
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to walk install root").
			WithCause(err)
	}
	return specs, nil
}

func (d InstallDBAdapter) readRecord(path string) (*core.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record types.InstallRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return core.ParseOne(record.Spec)
}

// Record writes the install record into the prefix.
func (d InstallDBAdapter) Record(ctx context.Context, s *core.Spec, prefix string) error {
	record := types.InstallRecord{
		Spec:        s.String(),
		InstalledAt: d.Clock().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(record)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal install record").
			WithCause(err)
	}
	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create install prefix").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(prefix, recordFile), data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write install record").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("prefix", prefix).Stringer("spec", s).Msg("recorded install")
	return nil
}

// Installed reports whether a prefix already carries an install record.
func (d InstallDBAdapter) Installed(prefix string) bool {
	_, err := os.Stat(filepath.Join(prefix, recordFile))
	return err == nil
}
