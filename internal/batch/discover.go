package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	"github.com/PolarWolf314/envcrypt/internal/utils"
)

// Candidate is one stack's source/destination pair.
type Candidate struct {
	Stack  string
	Dir    string
	Source string
	Dest   string
}

// Always skipped while walking.
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Discover walks root for files named exactly sourceName. Matching by exact
// name means .env.example, .env.local and the encrypted variant are never
// mistaken for a plaintext source. Exclude holds doublestar patterns matched
// against slash separated paths relative to root.
func Discover(root, sourceName, destName string, exclude []string) ([]Candidate, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: invalid exclude pattern %q", kerrors.ErrInvalidConfig, pattern)
		}
	}

	var out []Candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed while walking directory: %w", err)
		}

		rel := utils.StackName(root, path)
		if d.IsDir() {
			if path != root && (ignoredDirs[d.Name()] || excluded(exclude, rel, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != sourceName || !d.Type().IsRegular() || excluded(exclude, rel, false) {
			return nil
		}

		dir := filepath.Dir(path)
		out = append(out, Candidate{
			Stack:  utils.StackName(root, dir),
			Dir:    dir,
			Source: path,
			Dest:   filepath.Join(dir, destName),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func excluded(patterns []string, rel string, isDir bool) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
				return true
			}
		}
	}
	return false
}

// Select builds candidates for explicitly named stacks. Stacks whose source
// file is missing, or whose name leaves root, come back as failed outcomes
// rather than an error, so the remaining stacks still run.
func Select(root, sourceName, destName string, stacks []string) ([]Candidate, []Outcome) {
	var (
		candidates []Candidate
		missing    []Outcome
		seen       = make(map[string]bool)
	)

	for _, name := range stacks {
		cleaned := filepath.Clean(strings.TrimSpace(name))
		abs := filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != ""
		name = filepath.ToSlash(cleaned)
		if seen[name] {
			continue
		}
		seen[name] = true

		if abs || name == ".." || strings.HasPrefix(name, "../") {
			missing = append(missing, Outcome{
				Candidate: Candidate{Stack: name},
				Status:    Failed,
				Err:       fmt.Errorf("%w: %s", kerrors.ErrStackOutsideRoot, name),
			})
			continue
		}

		dir := filepath.Join(root, filepath.FromSlash(name))
		c := Candidate{
			Stack:  name,
			Dir:    dir,
			Source: filepath.Join(dir, sourceName),
			Dest:   filepath.Join(dir, destName),
		}
		if !utils.FileExists(c.Source) {
			missing = append(missing, Outcome{
				Candidate: c,
				Status:    Failed,
				Err:       fmt.Errorf("%w: %s", kerrors.ErrSourceMissing, c.Source),
			})
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, missing
}
