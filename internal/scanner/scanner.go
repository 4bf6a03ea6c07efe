package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrRootUnreadable is returned when the scan root cannot be listed.
var ErrRootUnreadable = errors.New("root directory unreadable")

// DefaultPreviewCandidates are probed in order; the first existing file wins.
var DefaultPreviewCandidates = []string{"preview.jpg", "preview.jpeg", "preview.png", "preview.webp"}

// RootScan holds everything discovered from scanning a site root
type RootScan struct {
	RootDir  string
	Projects []ProjectDir
}

// ProjectDir describes a discovered project directory
type ProjectDir struct {
	Name    string // directory name, used as the manifest key
	Path    string // absolute path to the project dir
	Preview string // preview filename inside the dir, "" when none exists
}

// Options controls which directories count as projects.
type Options struct {
	EntryFile         string   // marker file required inside a project dir
	DirSuffix         string   // required directory name suffix; "" admits any name
	PreviewCandidates []string // defaults to DefaultPreviewCandidates
}

// Scan lists the direct children of rootDir and keeps the ones that look like
// projects. Directories failing the naming or marker check are skipped
// silently; only an unreadable root is an error.
func Scan(rootDir string, opts Options) (*RootScan, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, rootDir, err)
	}
	if opts.EntryFile == "" {
		opts.EntryFile = "index.html"
	}
	if len(opts.PreviewCandidates) == 0 {
		opts.PreviewCandidates = DefaultPreviewCandidates
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, absRoot, err)
	}

	scan := &RootScan{RootDir: absRoot}

	for _, entry := range entries {
		name := entry.Name()
		absPath := filepath.Join(absRoot, name)

		if shouldSkipDir(name) || !isDir(entry, absPath) {
			continue
		}
		if opts.DirSuffix != "" && !strings.HasSuffix(name, opts.DirSuffix) {
			continue
		}
		if !fileExists(filepath.Join(absPath, opts.EntryFile)) {
			continue
		}

		scan.Projects = append(scan.Projects, ProjectDir{
			Name:    name,
			Path:    absPath,
			Preview: findPreview(absPath, opts.PreviewCandidates),
		})
	}

	return scan, nil
}

func findPreview(dir string, candidates []string) string {
	for _, c := range candidates {
		if fileExists(filepath.Join(dir, c)) {
			return c
		}
	}
	return ""
}

var separatorPattern = regexp.MustCompile(`[-_\s]+`)

// DisplayName turns a project directory name into a card title:
// "todo-list-main" -> "Todo List".
func DisplayName(dir, suffix string) string {
	name := dir
	if suffix != "" {
		name = strings.TrimSuffix(name, suffix)
	}

	name = strings.TrimSpace(separatorPattern.ReplaceAllString(name, " "))
	if name == "" {
		return dir
	}

	words := strings.Split(name, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// isDir follows symlinks so linked project folders still count.
func isDir(entry os.DirEntry, absPath string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(absPath)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// shouldSkipDir returns true for directories that should be skipped during scanning
func shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "scripts", "build", "dist":
		return true
	}
	return false
}
