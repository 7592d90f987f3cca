package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"ai-support-chat-be/internal/controller"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	lastReq *dto.SendChatRequest
}

func (s *stubChatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	s.lastReq = req
	score := 1.0
	return &dto.SendChatResponse{
		Answer:    "Hola, ¿en qué puedo ayudarte?",
		Sources:   []assistant.SourceInfo{{SourceID: "manual_01", Score: &score}},
		SessionId: req.SessionId,
	}, nil
}

func newChatApp(svc *stubChatService, accessKey string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	controller.NewChatController(svc, accessKey).RegisterRoutes(api)
	return app
}

func postChat(t *testing.T, app *fiber.App, body string, bearer string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/chat/v1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return resp.StatusCode, envelope
}

func TestSendChatEndpoint(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, "")

	status, envelope := postChat(t, app, `{"message":"hola","session_id":"sess-1"}`, "")

	require.Equal(t, 200, status)
	assert.Equal(t, true, envelope["success"])

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Hola, ¿en qué puedo ayudarte?", data["answer"])
	assert.Equal(t, "sess-1", data["session_id"])

	sources, ok := data["sources"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 1)
	source := sources[0].(map[string]interface{})
	assert.Equal(t, "manual_01", source["source_id"])
	assert.Equal(t, 1.0, source["score"])

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "hola", svc.lastReq.Message)
	assert.Equal(t, "sess-1", svc.lastReq.SessionId)
}

func TestSendChatValidatesBody(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, "")

	status, envelope := postChat(t, app, `{"session_id":"sess-1"}`, "")

	assert.Equal(t, 400, status)
	assert.Equal(t, false, envelope["success"])
	assert.Nil(t, svc.lastReq)
}

func TestSendChatRequiresApiKey(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, "topsecret")

	status, _ := postChat(t, app, `{"message":"hola","session_id":"sess-1"}`, "")
	assert.Equal(t, 401, status)
	assert.Nil(t, svc.lastReq)

	status, _ = postChat(t, app, `{"message":"hola","session_id":"sess-1"}`, "wrong")
	assert.Equal(t, 401, status)

	status, _ = postChat(t, app, `{"message":"hola","session_id":"sess-1"}`, "topsecret")
	assert.Equal(t, 200, status)
	require.NotNil(t, svc.lastReq)
}
