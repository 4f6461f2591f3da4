// Package staging enumerates the input artifacts the platform stages under
// the data directory: CSV tables in in/tables and binary files with JSON
// manifests in in/files.
package staging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sftpwriter/internal/logging"
)

// Kind distinguishes table artifacts from staged files.
type Kind string

const (
	KindTable Kind = "table"
	KindFile  Kind = "file"
)

// Task is one artifact to upload. Tasks are read-only once enumerated.
type Task struct {
	LocalPath string
	Name      string
	Kind      Kind
}

// manifest mirrors the platform file manifest. The id may arrive as a JSON
// number or a string.
type manifest struct {
	ID      flexString `json:"id"`
	Created string     `json:"created"`
	Tags    []string   `json:"tags"`
}

// flexString accepts a scalar JSON value with or without quotes.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	*s = flexString(strings.Trim(string(b), `"`))
	return nil
}

// Stager walks the data directory and produces the ordered upload list:
// tables first, then the latest staged file per tag group.
type Stager struct {
	dataDir string
	log     logging.Logger
}

func New(dataDir string, log logging.Logger) *Stager {
	return &Stager{dataDir: dataDir, log: log}
}

// Collect enumerates all input artifacts in upload order.
func (s *Stager) Collect(ctx context.Context) ([]Task, error) {
	tables, err := s.collectTables(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.collectFiles(ctx)
	if err != nil {
		return nil, err
	}

	return append(tables, files...), nil
}

func (s *Stager) collectTables(ctx context.Context) ([]Task, error) {
	dir := filepath.Join(s.dataDir, "in", "tables")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug(ctx, "no tables directory", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var tasks []Task
	for _, e := range entries {
		if e.IsDir() || skipName(e.Name()) {
			continue
		}
		tasks = append(tasks, Task{
			LocalPath: filepath.Join(dir, e.Name()),
			Name:      e.Name(),
			Kind:      KindTable,
		})
	}

	return tasks, nil
}

// stagedFile is one candidate from in/files together with its manifest data.
type stagedFile struct {
	path    string
	id      string
	created string
}

func (s *Stager) collectFiles(ctx context.Context) ([]Task, error) {
	dir := filepath.Join(s.dataDir, "in", "files")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug(ctx, "no files directory", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	// Streaming-style artifacts arrive as several versions of the same
	// logical file, one per run, distinguished only by their tag set.
	// Group by sorted tags and keep the newest version of each group.
	groups := map[string][]stagedFile{}
	for _, e := range entries {
		if e.IsDir() || skipName(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		m, err := readManifest(path + ".manifest")
		if err != nil {
			return nil, err
		}

		tags := append([]string(nil), m.Tags...)
		sort.Strings(tags)
		key := strings.Join(tags, ",")

		groups[key] = append(groups[key], stagedFile{
			path:    path,
			id:      string(m.ID),
			created: m.Created,
		})
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tasks []Task
	for _, k := range keys {
		latest := latestOf(groups[k])

		path, err := dropIDPrefix(latest.path, latest.id)
		if err != nil {
			return nil, err
		}
		if path != latest.path {
			s.log.Debug(ctx, "dropped file id prefix", "from", latest.path, "to", path)
		}

		tasks = append(tasks, Task{
			LocalPath: path,
			Name:      filepath.Base(path),
			Kind:      KindFile,
		})
	}

	return tasks, nil
}

// latestOf picks the file with the greatest created timestamp. Manifest
// timestamps are ISO 8601, which orders correctly as plain strings.
func latestOf(files []stagedFile) stagedFile {
	latest := files[0]
	for _, f := range files[1:] {
		if f.created > latest.created {
			latest = f
		}
	}
	return latest
}

// dropIDPrefix renames "<id>_name" to "name" so the upload carries the
// logical file name instead of the platform's storage id.
func dropIDPrefix(path, id string) (string, error) {
	base := filepath.Base(path)
	prefix := id + "_"
	if id == "" || !strings.HasPrefix(base, prefix) {
		return path, nil
	}

	renamed := filepath.Join(filepath.Dir(path), strings.TrimPrefix(base, prefix))
	if err := os.Rename(path, renamed); err != nil {
		return "", fmt.Errorf("renaming %s: %w", path, err)
	}
	return renamed, nil
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// skipName filters the non-artifact entries the platform (or a developer's
// macOS machine) leaves in the input folders.
func skipName(name string) bool {
	return strings.HasSuffix(name, ".manifest") || name == ".DS_Store"
}
