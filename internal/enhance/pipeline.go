// Package enhance 实现增强流水线：上传文档 → 病毒扫描 → 归档原件 →
// LLM 抽取 → 解析为 ResumeRecord → 渲染纯文本。
// 流水线失败只中止本次增强，不影响向导会话，可重复发起。
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/dutchcoders/go-clamd"
	"github.com/google/uuid"

	"resumeflow/internal/render"
	"resumeflow/internal/resume"
)

// ExportFilename 是增强结果的下载文件名。
const ExportFilename = "enhanced_resume.txt"

var (
	// ErrMalformedResponse 表示抽取服务返回了无法解析为 JSON 的内容。
	ErrMalformedResponse = errors.New("malformed extraction response")
	// ErrMaliciousFile 表示上传文档未通过病毒扫描。
	ErrMaliciousFile = errors.New("malicious file detected")
)

// Scanner 对上传内容做病毒扫描。
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// ClamdScanner 通过 clamd 守护进程扫描。
type ClamdScanner struct {
	addr string
}

// NewClamdScanner 构造扫描器。
func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{addr: addr}
}

// Scan 以流式方式提交内容，命中病毒库返回 ErrMaliciousFile。
func (s *ClamdScanner) Scan(_ context.Context, r io.Reader) error {
	client := clamd.NewClamd(s.addr)

	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := client.ScanStream(r, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return ErrMaliciousFile
		}
	}
	return nil
}

// Archiver 归档上传原件，保留审计线索。
type Archiver interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// Result 是一次成功增强的产物。
type Result struct {
	Record resume.Record
	Text   string
}

// Pipeline 把各阶段的依赖收拢在一起。scanner 与 archiver 可为 nil（跳过对应阶段）。
type Pipeline struct {
	extractor Extractor
	scanner   Scanner
	archiver  Archiver
	logger    *slog.Logger
}

// NewPipeline 构造流水线。
func NewPipeline(extractor Extractor, scanner Scanner, archiver Archiver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		scanner:   scanner,
		archiver:  archiver,
		logger:    logger,
	}
}

// Enhance 执行完整流水线。解析成功的记录经 Normalize 补齐缺失字段，
// 随上传者可直接下载的纯文本一并返回。
func (p *Pipeline) Enhance(ctx context.Context, ownerID uint, filename string, doc Document) (Result, error) {
	if p.scanner != nil {
		if err := p.scanner.Scan(ctx, bytes.NewReader(doc.Data)); err != nil {
			return Result{}, err
		}
	}

	if p.archiver != nil {
		objectKey := fmt.Sprintf("enhancer-uploads/%d/%s%s", ownerID, uuid.NewString(), path.Ext(filename))
		contentType := doc.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := p.archiver.Upload(ctx, objectKey, bytes.NewReader(doc.Data), int64(len(doc.Data)), contentType); err != nil {
			// 归档失败不拦截增强，留日志即可。
			if p.logger != nil {
				p.logger.Warn("archive enhancer upload failed",
					slog.String("object_key", objectKey),
					slog.Any("error", err),
				)
			}
		}
	}

	raw, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("extract document: %w", err)
	}

	var rec resume.Record
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &rec); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	rec = resume.Normalize(rec)
	return Result{Record: rec, Text: render.PlainText(rec)}, nil
}
