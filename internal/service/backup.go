package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BackupUploader stores a finished dump in object storage and returns its
// location.
type BackupUploader interface {
	UploadBackup(ctx context.Context, key string, data []byte) (string, error)
}

// BackupService dumps the database with pg_dump and optionally ships the
// dump to object storage.
type BackupService struct {
	dsn      string
	dir      string
	uploader BackupUploader
}

func (s *BackupService) SetUploader(u BackupUploader) { s.uploader = u }

type BackupResult struct {
	File      string `json:"file"`
	ObjectURL string `json:"object_url,omitempty"`
}

func (s *BackupService) Run(ctx context.Context) (BackupResult, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return BackupResult{}, fmt.Errorf("backup: %w", err)
	}

	file := filepath.Join(s.dir, fmt.Sprintf("backup_%s.sql", time.Now().Format("2006-01-02_15-04-05")))
	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+s.dsn, "--file="+file)
	if out, err := cmd.CombinedOutput(); err != nil {
		return BackupResult{}, fmt.Errorf("backup: pg_dump: %w: %s", err, out)
	}

	result := BackupResult{File: file}
	if s.uploader == nil {
		return result, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return BackupResult{}, fmt.Errorf("backup: %w", err)
	}
	url, err := s.uploader.UploadBackup(ctx, "backups/"+uuid.NewString()+".sql", data)
	if err != nil {
		return BackupResult{}, fmt.Errorf("backup: upload: %w", err)
	}
	result.ObjectURL = url
	return result, nil
}
