package gitsync

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type runFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

type Options struct {
	Path        string
	Repo        string // owner/name on GitHub
	Token       string
	Branch      string
	AuthorName  string
	AuthorEmail string
}

// Repository publishes files of a working tree to its GitHub remote.
type Repository struct {
	opts   Options
	logger *zap.Logger
	run    runFunc
}

func NewRepository(opts Options, logger *zap.Logger) *Repository {
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	return &Repository{opts: opts, logger: logger, run: execGit}
}

func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	out, err := r.run(ctx, r.opts.Path, args...)
	if err != nil {
		return string(out), fmt.Errorf("git %s failed: %w, output: %s", verb(args), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// verb is the git subcommand of args, skipping -c overrides.
func verb(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

func (r *Repository) remoteURL() string {
	return fmt.Sprintf("https://%s@github.com/%s.git", r.opts.Token, r.opts.Repo)
}

// Init creates the repository when r.opts.Path has none and registers the
// token remote when a token is configured.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(r.opts.Path, ".git")); err == nil {
		return nil
	}
	r.logger.Info("Git repository not found, initializing...", zap.String("path", r.opts.Path))
	if err := os.MkdirAll(r.opts.Path, 0755); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}
	if _, err := r.git(ctx, "init"); err != nil {
		return err
	}
	if r.opts.Token != "" && r.opts.Repo != "" {
		if _, err := r.git(ctx, "remote", "add", "origin", r.remoteURL()); err != nil {
			r.logger.Warn("git remote add failed (maybe remote already exists?)", zap.Error(err))
		}
	}
	return nil
}

// Commit stages files and commits them. It reports false when there was
// nothing to commit.
func (r *Repository) Commit(ctx context.Context, files []string, message string) (bool, error) {
	args := []string{"add", "--"}
	for _, f := range files {
		rel, err := filepath.Rel(r.opts.Path, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = f
		}
		args = append(args, rel)
	}
	if _, err := r.git(ctx, args...); err != nil {
		return false, err
	}

	staged, err := r.git(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(staged) == "" {
		r.logger.Info("git commit: nothing to commit")
		return false, nil
	}

	out, err := r.git(ctx,
		"-c", "user.name="+r.opts.AuthorName,
		"-c", "user.email="+r.opts.AuthorEmail,
		"commit", "-m", message,
	)
	if err != nil {
		if strings.Contains(out, "nothing to commit") {
			return false, nil
		}
		return false, err
	}
	r.logger.Info("Git commit successful", zap.String("message", message))
	return true, nil
}

func (r *Repository) Pull(ctx context.Context) error {
	_, err := r.git(ctx, "pull", "origin", r.opts.Branch)
	return err
}

func (r *Repository) Push(ctx context.Context) error {
	if r.opts.Token == "" {
		r.logger.Warn("GitHub token not configured, skipping push")
		return nil
	}
	if _, err := r.git(ctx, "push", "origin", r.opts.Branch+":"+r.opts.Branch); err != nil {
		return err
	}
	r.logger.Info("Git push successful", zap.String("branch", r.opts.Branch))
	return nil
}

// Sync runs init, pull, commit and push. A failed pull is logged and the
// sync goes on.
func (r *Repository) Sync(ctx context.Context, files []string, message string) error {
	r.logger.Info("starting repository sync", zap.Strings("files", files))
	if err := r.Init(ctx); err != nil {
		return err
	}
	if err := r.Pull(ctx); err != nil {
		r.logger.Warn("git pull failed, continuing", zap.Error(err))
	}
	committed, err := r.Commit(ctx, files, message)
	if err != nil {
		return err
	}
	if !committed {
		return nil
	}
	return r.Push(ctx)
}

// Status describes the working tree.
type Status struct {
	Branch     string   `json:"branch"`
	Changes    []string `json:"changes"`
	LastCommit string   `json:"last_commit,omitempty"`
}

func (r *Repository) Status(ctx context.Context) (*Status, error) {
	branch, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch, err = r.git(ctx, "symbolic-ref", "--short", "HEAD")
		if err != nil {
			return nil, err
		}
	}
	porcelain, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	st := &Status{Branch: strings.TrimSpace(branch), Changes: []string{}}
	for _, line := range strings.Split(porcelain, "\n") {
		if strings.TrimSpace(line) != "" {
			st.Changes = append(st.Changes, line)
		}
	}
	if last, err := r.git(ctx, "rev-parse", "--short=8", "HEAD"); err == nil {
		st.LastCommit = strings.TrimSpace(last)
	}
	return st, nil
}
