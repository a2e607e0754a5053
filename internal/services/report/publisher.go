package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Broadcaster pushes a message to every connected realtime client.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Syncer commits and pushes files of a repository.
type Syncer interface {
	Sync(ctx context.Context, files []string, message string) error
}

// UpdatedEvent is sent to realtime clients after each publish.
type UpdatedEvent struct {
	Type      string         `json:"type"`
	Shifts    map[string]int `json:"shifts"`
	Timestamp time.Time      `json:"timestamp"`
}

type Publisher struct {
	outputFile string
	redis      *redis.Client
	key        string
	hub        Broadcaster
	git        Syncer
	logger     *zap.Logger
	now        func() time.Time
}

type PublisherOption func(*Publisher)

func WithRedis(client *redis.Client, key string) PublisherOption {
	return func(p *Publisher) {
		p.redis = client
		p.key = key
	}
}

func WithBroadcaster(hub Broadcaster) PublisherOption {
	return func(p *Publisher) { p.hub = hub }
}

func WithGit(git Syncer) PublisherOption {
	return func(p *Publisher) { p.git = git }
}

func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) { p.now = now }
}

func NewPublisher(outputFile string, logger *zap.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		outputFile: outputFile,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Encode renders report the way faltando.json is published: two-space
// indentation, non-ASCII text kept as is.
func Encode(report models.ShiftReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Publish writes the report file, stores it in redis, notifies realtime
// clients and finally syncs the file to git, stopping at the first failure.
func (p *Publisher) Publish(ctx context.Context, report models.ShiftReport) error {
	data, err := Encode(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := writeFileAtomic(p.outputFile, data); err != nil {
		return fmt.Errorf("write %s: %w", p.outputFile, err)
	}
	p.logger.Info("faltando.json saved", zap.String("path", p.outputFile), zap.Int("shifts", len(report)))

	if p.redis != nil {
		if err := p.redis.Set(ctx, p.key, data, 0).Err(); err != nil {
			return fmt.Errorf("store report in redis: %w", err)
		}
	}

	now := p.now()
	if p.hub != nil {
		event, _ := json.Marshal(UpdatedEvent{
			Type:      "report_updated",
			Shifts:    report.Counts(),
			Timestamp: now.UTC(),
		})
		p.hub.Broadcast(event)
	}

	if p.git != nil {
		if err := p.git.Sync(ctx, []string{p.outputFile}, CommitMessage(now)); err != nil {
			p.logger.Warn("report published but git sync failed", zap.Error(err))
			return fmt.Errorf("git sync: %w", err)
		}
	}
	return nil
}

// CommitMessage is the message of the automatic report commits.
func CommitMessage(t time.Time) string {
	return fmt.Sprintf("Atualização automática dos dados de limpeza - %s", t.Format("2006-01-02 15:04:05"))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".faltando-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
