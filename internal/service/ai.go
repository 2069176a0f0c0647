package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/config"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"
)

// Assistant drafts report text and digests risk reports.
type Assistant interface {
	GenerateDraft(ctx context.Context, t model.ReportType, field, keywords string) (string, error)
	SummarizeHazards(ctx context.Context, reports []model.Report) (string, error)
}

// AIService calls an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *AIService) chat(ctx context.Context, system, user string) (string, error) {
	if s.baseURL == "" {
		return "", ErrAINotReady
	}
	body := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// GenerateDraft 按文书类型和目标栏目生成规范的监理用语
func (s *AIService) GenerateDraft(ctx context.Context, t model.ReportType, field, keywords string) (string, error) {
	schema := report.Lookup(t)
	label := field
	for _, f := range schema.Fields {
		if f.Key == field {
			label = f.Label
			break
		}
	}
	system := fmt.Sprintf(`你是资深的建设工程监理工程师，熟悉《建设工程监理规范》GB/T 50319。
请为"%s"撰写"%s"栏目的正式内容：用语规范、条理清晰，可直接填入文书。
只输出正文，不要标题、不要 Markdown。`, schema.Label, label)

	out, err := s.chat(ctx, system, "现场记录要点："+keywords)
	if err != nil {
		return "", fmt.Errorf("generate draft: %w", err)
	}
	return out, nil
}

// SummarizeHazards 对待处理的重大事项做风险研判
func (s *AIService) SummarizeHazards(ctx context.Context, reports []model.Report) (string, error) {
	system := `你是监理企业的安全总监。根据各项目部上报的重大事项和危大工程记录，
用不超过 200 字给出风险研判：先点明最紧迫的风险，再给出督办建议。只输出纯文本。`

	var b strings.Builder
	for i, r := range reports {
		fmt.Fprintf(&b, "%d. [%s] 项目:%s 日期:%s 填报人:%s\n%s\n", i+1, report.Label(r.Type), r.ProjectID, r.Date, r.AuthorName, r.Content)
	}
	out, err := s.chat(ctx, system, b.String())
	if err != nil {
		return "", fmt.Errorf("summarize hazards: %w", err)
	}
	return out, nil
}
