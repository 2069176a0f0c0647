package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/6045054-web/CHENGHUI/internal/config"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, status int, reply string, got *chatRequest) *AIService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k-test", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return NewAIService(config.AIConfig{BaseURL: srv.URL + "/", APIKey: "k-test", Model: "qwen-plus"})
}

func TestGenerateDraft(t *testing.T) {
	var req chatRequest
	ai := chatServer(t, http.StatusOK, "  已要求施工单位立即整改。\n", &req)

	out, err := ai.GenerateDraft(context.Background(), model.NoticeType, "requirements", `{"findings":"临边未防护"}`)
	require.NoError(t, err)
	assert.Equal(t, "已要求施工单位立即整改。", out)

	assert.Equal(t, "qwen-plus", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "监理通知单")
	assert.Contains(t, req.Messages[1].Content, "临边未防护")
}

func TestSummarizeHazards(t *testing.T) {
	var req chatRequest
	ai := chatServer(t, http.StatusOK, "深基坑需督办", &req)

	out, err := ai.SummarizeHazards(context.Background(), []model.Report{
		{Type: model.MajorEventType, ProjectID: "P1", Date: "2025-03-08", AuthorName: "李四", Content: "基坑位移超限"},
	})
	require.NoError(t, err)
	assert.Equal(t, "深基坑需督办", out)
	assert.Contains(t, req.Messages[1].Content, "重大事项直报")
	assert.Contains(t, req.Messages[1].Content, "基坑位移超限")
}

func TestChatErrors(t *testing.T) {
	ai := chatServer(t, http.StatusInternalServerError, "", nil)
	_, err := ai.GenerateDraft(context.Background(), model.DailyLogType, "supervision", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm status 500")

	unset := NewAIService(config.AIConfig{})
	_, err = unset.SummarizeHazards(context.Background(), nil)
	assert.ErrorIs(t, err, ErrAINotReady)
}
