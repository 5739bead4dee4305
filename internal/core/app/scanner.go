package app

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/engine/tsparse"
	"flowdef/internal/shared/util"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ExpandInputs turns the command-line inputs into the ordered file list a
// conversion runs over. Files named directly are kept in the order given
// whatever their name. Directories are walked: file base names must match
// include, and directories or files whose base name matches exclude are
// skipped. Files found under one directory are sorted; duplicates are
// dropped on second sight.
func ExpandInputs(paths, include, exclude []string) ([]string, error) {
	includeGlobs, err := util.CompileGlobs(include)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "include patterns")
	}
	excludeGlobs, err := util.CompileGlobs(exclude)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "exclude patterns")
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		files = append(files, clean)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input not found"), errors.CtxPath, root)
			}
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "stat input"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && util.MatchAny(excludeGlobs, base) {
					return filepath.SkipDir
				}
				return nil
			}

			if !tsparse.IsSupportedPath(path) {
				return nil
			}
			if len(includeGlobs) > 0 && !util.MatchAny(includeGlobs, base) {
				return nil
			}
			if util.MatchAny(excludeGlobs, base) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "walk input directory"), errors.CtxPath, root)
		}

		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}

	return files, nil
}
