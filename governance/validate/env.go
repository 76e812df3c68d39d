// Package validate runs an ordered chain of falsifiers over each AI finding,
// filtering out the structural false positives reviewers generate when they
// can't see the repository the way a human can.
package validate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jhcook/agentic-governance/governance"
)

// pathPrefixes are tried, in order, when a finding's cited path doesn't
// resolve relative to the repo root or the current directory.
var pathPrefixes = []string{".agent/src/", ".agent/", "backend/", "web/", "mobile/"}

// stripPrefixes are removed from a cited path before retrying resolution
// under pathPrefixes — handles findings that strip a prefix the repo uses.
var stripPrefixes = []string{"agent/", "tests/"}

// Env bundles everything a falsifier needs: the diff under review, a
// path resolver scoped to the repository root, and a small read-through
// cache so repeated falsifiers don't re-read the same file.
type Env struct {
	RepoRoot string
	Diff     governance.Diff

	lineCache map[string][]string
}

// NewEnv builds an Env for one validation run.
func NewEnv(repoRoot string, diff governance.Diff) *Env {
	return &Env{RepoRoot: repoRoot, Diff: diff, lineCache: map[string][]string{}}
}

// Resolve maps a path string an AI finding cited onto a real file under
// RepoRoot, trying (in order): the raw path, repo-root-joined, a set of
// common project prefixes, and a partial-path retry after stripping a
// known prefix. Returns "", false if nothing resolves. Never follows
// symlinks.
func (e *Env) Resolve(cited string) (string, bool) {
	try := func(p string) (string, bool) {
		info, err := os.Lstat(p)
		if err != nil || info.Mode()&os.ModeSymlink != 0 || info.IsDir() {
			return "", false
		}
		return p, true
	}

	if p, ok := try(cited); ok {
		return p, true
	}
	if e.RepoRoot != "" {
		if p, ok := try(filepath.Join(e.RepoRoot, cited)); ok {
			return p, true
		}
		for _, prefix := range pathPrefixes {
			if p, ok := try(filepath.Join(e.RepoRoot, prefix, cited)); ok {
				return p, true
			}
		}
		for _, strip := range stripPrefixes {
			if !strings.HasPrefix(cited, strip) {
				continue
			}
			rest := strings.TrimPrefix(cited, strip)
			for _, prefix := range pathPrefixes {
				if p, ok := try(filepath.Join(e.RepoRoot, prefix, rest)); ok {
					return p, true
				}
			}
		}
	}
	return "", false
}

// Lines returns the resolved file's content split on newlines, cached for
// the lifetime of this Env.
func (e *Env) Lines(cited string) ([]string, bool) {
	path, ok := e.Resolve(cited)
	if !ok {
		return nil, false
	}
	if lines, cached := e.lineCache[path]; cached {
		return lines, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	lines := strings.Split(string(data), "\n")
	e.lineCache[path] = lines
	return lines, true
}

// Region returns the lines [lineNum-before, lineNum+after] (1-based,
// clamped to the file's bounds) joined with newlines, for context-window
// checks around a cited line.
func Region(lines []string, lineNum, before, after int) (string, bool) {
	if lineNum < 1 || lineNum > len(lines) {
		return "", false
	}
	start := lineNum - 1 - before
	if start < 0 {
		start = 0
	}
	end := lineNum - 1 + after + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n"), true
}
