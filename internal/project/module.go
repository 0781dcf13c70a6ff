package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// ModuleInfo contains information from go.mod
type ModuleInfo struct {
	Path      string // Module path (e.g., "github.com/user/repo")
	GoVersion string // Go version requirement (e.g., "1.25")
	Root      string // Directory holding go.mod
}

// ErrNoModule is returned when no go.mod is found above a directory.
var ErrNoModule = errors.New("go.mod not found")

// DetectModule reads go.mod in rootPath and returns module information.
func DetectModule(rootPath string) (*ModuleInfo, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNoModule, rootPath)
		}
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("%s has no module directive", modPath)
	}

	info := &ModuleInfo{
		Path: modFile.Module.Mod.Path,
		Root: rootPath,
	}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	return info, nil
}

// FindModule walks up from dir to the nearest go.mod.
func FindModule(dir string) (*ModuleInfo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for d := abs; ; {
		info, err := DetectModule(d)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNoModule) {
			return nil, err
		}
		parent := filepath.Dir(d)
		if parent == d {
			return nil, fmt.Errorf("%w above %s", ErrNoModule, abs)
		}
		d = parent
	}
}

// ImportPath returns the import path of the package in dir, which must be
// inside the module.
func (m *ModuleInfo) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Root, abs)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	path := m.Path
	if rel != "." {
		path += "/" + filepath.ToSlash(rel)
	}
	if err := module.CheckImportPath(path); err != nil {
		return "", fmt.Errorf("output package: %w", err)
	}
	return path, nil
}
