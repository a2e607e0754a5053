package status

import (
	"context"
	"os"
	"time"

	"github.com/msv-stihl/limpeza/internal/services/gitsync"
)

type FileInfo struct {
	Exists   bool       `json:"exists"`
	Size     int64      `json:"size"`
	Modified *time.Time `json:"modified,omitempty"`
}

type Report struct {
	Timestamp time.Time           `json:"timestamp"`
	Files     map[string]FileInfo `json:"files"`
	Git       *gitsync.Status     `json:"git,omitempty"`
	GitError  string              `json:"git_error,omitempty"`
	Readings  *int                `json:"readings,omitempty"`
}

// GitStatuser is satisfied by *gitsync.Repository.
type GitStatuser interface {
	Status(ctx context.Context) (*gitsync.Status, error)
}

// Counter reports how many checklist readings are stored.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Check inspects files and, when given, the git tree and the readings store.
func Check(ctx context.Context, files []string, git GitStatuser, readings Counter) Report {
	r := Report{
		Timestamp: time.Now().UTC(),
		Files:     make(map[string]FileInfo, len(files)),
	}
	for _, path := range files {
		info := FileInfo{}
		if st, err := os.Stat(path); err == nil {
			mod := st.ModTime().UTC()
			info = FileInfo{Exists: true, Size: st.Size(), Modified: &mod}
		}
		r.Files[path] = info
	}
	if git != nil {
		if st, err := git.Status(ctx); err != nil {
			r.GitError = err.Error()
		} else {
			r.Git = st
		}
	}
	if readings != nil {
		if n, err := readings.Count(ctx); err == nil {
			r.Readings = &n
		}
	}
	return r
}

// Missing lists the files of r that do not exist.
func (r Report) Missing() []string {
	var missing []string
	for path, info := range r.Files {
		if !info.Exists {
			missing = append(missing, path)
		}
	}
	return missing
}
