package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"resumeflow/internal/resume"
	"resumeflow/internal/store"
	"resumeflow/internal/tasks"
)

type fakeExportGateway struct {
	records map[string]resume.Record
	results map[string]string
}

func (f *fakeExportGateway) GetForOwner(_ context.Context, id string, ownerID uint) (resume.Record, error) {
	rec, ok := f.records[id]
	if !ok || rec.OwnerID != ownerID {
		return resume.Record{}, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeExportGateway) SetExportResult(_ context.Context, id string, objectKey, status string) error {
	if f.results == nil {
		f.results = make(map[string]string)
	}
	f.results[id] = status + "|" + objectKey
	return nil
}

type fakeUploader struct {
	key  string
	body string
}

func (f *fakeUploader) Upload(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.key = objectKey
	f.body = string(data)
	return &minio.UploadInfo{Key: objectKey}, nil
}

type fakePublisher struct {
	channel string
	message []byte
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message = message.([]byte)
	return redis.NewIntResult(1, nil)
}

func TestProcessTaskExportsAndNotifies(t *testing.T) {
	rec := resume.DefaultRecord()
	rec.ID = "5"
	rec.OwnerID = 7
	rec.Title = "Platform Engineer"

	gw := &fakeExportGateway{records: map[string]resume.Record{"5": rec}}
	up := &fakeUploader{}
	pub := &fakePublisher{}
	h := NewExportTaskHandler(gw, up, pub, slog.Default())

	task, err := tasks.NewExportGenerateTask("5", 7, "corr-1")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}

	if !strings.HasPrefix(up.key, "generated-exports/7/") || !strings.HasSuffix(up.key, ".txt") {
		t.Fatalf("object key = %q", up.key)
	}
	if !strings.Contains(up.body, "Resume Title: Platform Engineer") {
		t.Fatalf("uploaded body missing title:\n%s", up.body)
	}

	if got := gw.results["5"]; got != ExportStatusCompleted+"|"+up.key {
		t.Fatalf("export result = %q", got)
	}

	if pub.channel != "user_notify:7" {
		t.Fatalf("notify channel = %q", pub.channel)
	}
	var notify ExportNotifyMessage
	if err := json.Unmarshal(pub.message, &notify); err != nil {
		t.Fatalf("unmarshal notify: %v", err)
	}
	if notify.Status != "completed" || notify.ObjectKey != up.key || notify.ErrorCode != 0 {
		t.Fatalf("notify = %+v", notify)
	}
}

func TestProcessTaskSkipsMissingResume(t *testing.T) {
	gw := &fakeExportGateway{records: map[string]resume.Record{}}
	up := &fakeUploader{}
	h := NewExportTaskHandler(gw, up, &fakePublisher{}, slog.Default())

	task, err := tasks.NewExportGenerateTask("404", 7, "corr-2")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("missing resume should not retry: %v", err)
	}
	if up.key != "" {
		t.Fatal("upload attempted for missing resume")
	}
}
