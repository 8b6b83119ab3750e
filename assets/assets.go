// Package assets resolves level and prefab paths into scene content. Levels
// are Tiled maps under data/maps; prefabs are registered builders addressed by
// the model paths peers exchange on the wire.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	//go:embed all:data
	dataFS embed.FS
)

// ErrNotFound is returned when a path resolves to no level or prefab.
var ErrNotFound = errors.New("asset not found")

// Manager loads levels from a file system and instantiates prefabs.
// Parsed levels are cached by path.
type Manager struct {
	fsys    fs.FS
	levels  map[string]*LevelDef
	prefabs map[string]*Prefab
	log     *logrus.Entry
}

// NewManager returns a manager reading levels from fsys, with the built-in
// prefabs registered.
func NewManager(fsys fs.FS) *Manager {
	m := &Manager{
		fsys:    fsys,
		levels:  make(map[string]*LevelDef),
		prefabs: make(map[string]*Prefab),
		log:     logrus.WithField("component", "assets"),
	}
	for _, p := range builtinPrefabs() {
		m.RegisterPrefab(p)
	}
	return m
}

// Embedded returns a manager over the levels compiled into the binary.
func Embedded() *Manager {
	return NewManager(dataFS)
}

// ListLevels returns the sorted paths of every .tmx file in dir.
func (m *Manager) ListLevels(dir string) ([]string, error) {
	pattern := path.Join(dir, "*.tmx")
	matches, err := fs.Glob(m.fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// HasLevel reports whether p names a level file.
func (m *Manager) HasLevel(p string) bool {
	if !strings.HasSuffix(p, ".tmx") {
		return false
	}
	_, err := fs.Stat(m.fsys, p)
	return err == nil
}
