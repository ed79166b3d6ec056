package enhance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// extractionPrompt 要求模型把文档内容抽取成与 ResumeRecord 同构的 JSON。
const extractionPrompt = `You are a resume parser. Read the attached document and extract its
content into a single JSON object with exactly these fields:

{
  "title": string,
  "contact": {"fullName": string, "phoneNumber": string, "email": string,
              "linkedIn": string, "github": string, "portfolio": string},
  "summary": string,
  "workExperience": [{"title": string, "company": string, "location": string,
                      "startDate": string, "endDate": string,
                      "achievements": [string]}],
  "skills": [string],
  "education": [{"degree": string, "institution": string, "location": string,
                 "startDate": string, "endDate": string}],
  "certifications": [{"name": string, "organization": string, "year": string}],
  "projects": [{"name": string, "description": string,
                "achievements": [string]}],
  "additionalInfo": {"languages": [string], "volunteerExperience": string,
                     "publications": string}
}

Use empty strings or empty arrays for anything the document does not mention.
Respond with the JSON object only, no commentary.`

// Document 是待抽取的上传文档。
type Document struct {
	Data     []byte
	MIMEType string
}

// Extractor 把文档抽取为 JSON 文本，供流水线解析。
type Extractor interface {
	Extract(ctx context.Context, doc Document) (string, error)
}

// GeminiExtractor 通过 Gemini 执行抽取。
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor 构造抽取器。
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract 上传文档并请求结构化抽取。
func (e *GeminiExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	model := e.client.GenerativeModel(e.model)
	// 低温度换取稳定的结构化输出。
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Text(extractionPrompt),
		genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return textFromResponse(resp)
}

// Close 释放底层连接。
func (e *GeminiExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// stripCodeFence 去掉模型偶尔包裹的 markdown 代码块。
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
