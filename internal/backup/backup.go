package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/observability"
	"github.com/dukerupert/timeanalyzer/internal/store"
)

const envelopeVersion = 1

var (
	ErrNotConfigured = errors.New("backup not configured: S3 credentials missing")
	ErrNoPassphrase  = errors.New("backup passphrase not configured")
	ErrNotFound      = errors.New("backup not found")
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Source is the activity log being backed up and restored into.
type Source interface {
	All() []model.Activity
	Replace(records []model.Activity) error
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	S3 S3Config
	// Passphrase is used for scheduled backups and when a manual run
	// supplies none.
	Passphrase string
	// ScheduleHour is the UTC hour of the daily backup; negative disables it.
	ScheduleHour int
	Retention    time.Duration
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// envelope is the plaintext document inside an encrypted backup.
type envelope struct {
	Version    int              `json:"version"`
	CreatedAt  time.Time        `json:"createdAt"`
	Activities []model.Activity `json:"activities"`
}

// Manager exports the activity log as encrypted snapshots to S3-compatible
// storage and restores them.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	status   Status
	callback StatusCallback
	logger   *slog.Logger

	source      Source
	backupStore *store.BackupStore
	client      s3Client

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, source Source, bs *store.BackupStore, callback StatusCallback, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:         cfg,
		source:      source,
		backupStore: bs,
		callback:    callback,
		logger:      logger.With("component", "backup"),
		status:      Status{State: StateDisabled},
		now:         func() time.Time { return time.Now().UTC() },
	}

	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}

	if bs != nil {
		if latest, err := bs.LatestCompleted(); err != nil {
			m.logger.Warn("read latest backup", "error", err)
		} else if latest != nil && latest.CompletedAt != nil {
			t := *latest.CompletedAt
			m.status.LastBackup = &t
		}
	}

	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// UpdateS3Config hot-reloads the S3 configuration.
func (m *Manager) UpdateS3Config(s3cfg S3Config) {
	m.mu.Lock()
	m.cfg.S3 = s3cfg
	if s3cfg.complete() {
		m.client = newS3Client(s3cfg)
		m.status.State = StateIdle
	} else {
		m.client = nil
		m.status.State = StateDisabled
	}
	status := m.status
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(status)
	}
}

// Start begins the scheduled backup loop. It does nothing when S3 is not
// configured or no schedule hour is set.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled || m.cfg.ScheduleHour < 0 {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkSchedule(ctx)
			}
		}
	}()
}

// Stop gracefully stops the backup manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	if s.LastBackup == nil {
		s.LastBackup = m.status.LastBackup
	}
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

func (m *Manager) checkSchedule(ctx context.Context) {
	now := m.now()

	m.mu.RLock()
	hour := m.cfg.ScheduleHour
	passphrase := m.cfg.Passphrase
	m.mu.RUnlock()

	if hour < 0 || now.Hour() != hour || now.Minute() != 0 {
		return
	}
	if passphrase == "" {
		m.logger.Warn("skipping scheduled backup, no passphrase configured")
		return
	}

	if _, err := m.RunNow(ctx, passphrase); err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
	}
	if err := m.Cleanup(ctx); err != nil {
		m.logger.Error("backup cleanup failed", "error", err)
	}
}

// RunNow exports the current activity log, encrypts it and uploads it. An
// empty passphrase falls back to the configured one.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (*model.Backup, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	m.mu.RUnlock()

	if client == nil {
		return nil, ErrNotConfigured
	}
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}

	b, err := m.runBackup(ctx, client, bucket, passphrase)
	observability.RecordBackup(err)
	return b, err
}

func (m *Manager) runBackup(ctx context.Context, client s3Client, bucket, passphrase string) (*model.Backup, error) {
	m.setStatus(Status{State: StateRunning, InProgress: true})

	now := m.now()
	activities := m.source.All()
	filename := fmt.Sprintf("activities-%s.json.enc", now.Format("2006-01-02T150405Z"))
	s3Key := "activities/" + filename

	record, err := m.backupStore.Create(filename, s3Key, len(activities))
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("create backup record: %w", err)
	}

	fail := func(step string, err error) (*model.Backup, error) {
		if uerr := m.backupStore.UpdateStatus(record.ID, model.BackupStatusFailed, err.Error()); uerr != nil {
			m.logger.Error("mark backup failed", "backup_id", record.ID, "error", uerr)
		}
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := m.backupStore.UpdateStatus(record.ID, model.BackupStatusUploading, ""); err != nil {
		return fail("update backup status", err)
	}

	plaintext, err := json.Marshal(envelope{Version: envelopeVersion, CreatedAt: now, Activities: activities})
	if err != nil {
		return fail("encode activities", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return fail("generate salt", err)
	}
	payload, err := Encrypt(plaintext, passphrase, salt)
	if err != nil {
		return fail("encrypt", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(s3Key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return fail("upload to s3", err)
	}

	if err := m.backupStore.UpdateCompleted(record.ID, int64(len(payload))); err != nil {
		return fail("update backup completed", err)
	}

	m.logger.Info("backup completed", "backup_id", record.ID, "activities", len(activities), "bytes", len(payload))
	m.setStatus(Status{State: StateIdle, LastBackup: &now})

	return m.backupStore.GetByID(record.ID)
}

// Restore downloads a backup, decrypts it and replaces the activity log with
// its contents. The current log is left untouched on any failure.
func (m *Manager) Restore(ctx context.Context, backupID int64, passphrase string) (int, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	m.mu.RUnlock()

	if client == nil {
		return 0, ErrNotConfigured
	}
	if passphrase == "" {
		return 0, ErrNoPassphrase
	}

	record, err := m.backupStore.GetByID(backupID)
	if err != nil {
		return 0, fmt.Errorf("get backup: %w", err)
	}
	if record == nil || record.Status != model.BackupStatusCompleted {
		return 0, ErrNotFound
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return 0, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	payload, err := io.ReadAll(result.Body)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}

	plaintext, err := Decrypt(payload, passphrase)
	if err != nil {
		return 0, fmt.Errorf("decrypt backup: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return 0, fmt.Errorf("decode backup: %w", err)
	}
	if env.Version != envelopeVersion {
		return 0, fmt.Errorf("unsupported backup version %d", env.Version)
	}

	if err := m.source.Replace(env.Activities); err != nil {
		return 0, fmt.Errorf("restore activities: %w", err)
	}

	m.logger.Info("backup restored", "backup_id", backupID, "activities", len(env.Activities))
	return len(env.Activities), nil
}

// List returns the most recent backup records.
func (m *Manager) List(limit int) ([]model.Backup, error) {
	return m.backupStore.List(limit)
}

// Cleanup deletes backups older than the retention period.
func (m *Manager) Cleanup(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	retention := m.cfg.Retention
	m.mu.RUnlock()

	if client == nil {
		return nil
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	keys, err := m.backupStore.DeleteOlderThan(m.now().Add(-retention))
	if err != nil {
		return fmt.Errorf("delete old backups: %w", err)
	}

	for _, key := range keys {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("delete s3 object", "key", key, "error", err)
		}
	}

	return nil
}
