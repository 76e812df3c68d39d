package validate

import (
	"regexp"
	"strings"
)

// stdlibModules is the hard-coded list of standard-library names: Go
// top-level import paths plus common Python modules. A finding that tells a
// reviewer to add one of these to a dependency manifest is confused about
// what "dependency" means.
var stdlibModules = buildStdlibSet()

func buildStdlibSet() map[string]bool {
	names := []string{
		"bufio", "bytes", "context", "crypto", "encoding", "errors", "expvar",
		"flag", "fmt", "hash", "html", "image", "io", "log", "maps", "math",
		"mime", "net", "os", "path", "plugin", "reflect", "regexp", "runtime",
		"slices", "sort", "strconv", "strings", "sync", "syscall", "testing",
		"text", "time", "unicode", "unsafe",
		"abc", "argparse", "ast", "asyncio", "collections", "dataclasses",
		"datetime", "functools", "itertools", "json", "logging", "pathlib",
		"re", "shutil", "subprocess", "sys", "tempfile", "typing", "unittest",
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

var depModulePattern = regexp.MustCompile(`(?i)(?:import|module|package|dependency|depend)\w*\s+(?:to\s+)?["'` + "`" + `]?(\w+)["'` + "`" + `]?`)
var backtickPattern = regexp.MustCompile("`(\\w+)`")

// stdlibAsDependency is falsifier 6: flags findings that claim a module
// needs to be added to the dependency manifest but name a standard-library
// package.
func stdlibAsDependency(finding string, _ *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, []string{"go.mod", "go.sum", "requirements", "pyproject.toml", "dependency", "dependencies"}) {
		return true, ""
	}

	var modules []string
	for _, m := range depModulePattern.FindAllStringSubmatch(finding, -1) {
		modules = append(modules, m[1])
	}
	for _, m := range backtickPattern.FindAllStringSubmatch(finding, -1) {
		modules = append(modules, m[1])
	}

	for _, mod := range modules {
		if stdlibModules[strings.ToLower(mod)] {
			return false, "flags standard-library package as a missing dependency: " + mod
		}
	}
	return true, ""
}
