package toolchain

import (
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

// ErrNotCargoProject indicates a manifest with neither [package] nor [workspace].
var ErrNotCargoProject = errors.New("manifest declares neither [package] nor [workspace]")

// CargoManifest holds the parts of Cargo.toml wsgen cares about.
type CargoManifest struct {
	Package *struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`

	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// Kind returns "package", "workspace", or "" for manifests with neither table.
// A manifest with both is a workspace root package and reports "workspace".
func (m *CargoManifest) Kind() string {
	switch {
	case m.Workspace != nil:
		return "workspace"
	case m.Package != nil:
		return "package"
	default:
		return ""
	}
}

// ParseCargoManifest decodes Cargo.toml content.
func ParseCargoManifest(data []byte) (*CargoManifest, error) {
	var m CargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing Cargo manifest")
	}
	if m.Kind() == "" {
		return nil, ErrNotCargoProject
	}
	return &m, nil
}

// ReadCargoManifest reads and decodes the manifest at path.
func ReadCargoManifest(fs afero.Fs, path string) (*CargoManifest, error) {
	data, err := fileutil.ReadFileWithLimit(fs, path)
	if err != nil {
		return nil, err
	}
	return ParseCargoManifest(data)
}
