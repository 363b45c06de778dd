package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/infrastructure/cache"
	"github.com/johnquangdev/atlas/internal/infrastructure/external/magiclink"
	httpmw "github.com/johnquangdev/atlas/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/atlas/internal/infrastructure/lock"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	"github.com/johnquangdev/atlas/internal/usecase/auth"
	"github.com/johnquangdev/atlas/internal/usecase/chat"
	"github.com/johnquangdev/atlas/internal/usecase/dashboard"
	"github.com/johnquangdev/atlas/internal/usecase/document"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
	"github.com/johnquangdev/atlas/internal/usecase/note"
	"github.com/johnquangdev/atlas/internal/usecase/task"
	"github.com/johnquangdev/atlas/internal/usecase/webhook"
	"github.com/johnquangdev/atlas/pkg/config"
	"github.com/johnquangdev/atlas/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/atlas/pkg/validator"
)

const (
	testToken     = "test-token"
	webhookSecret = "hook-secret"
	meetingReply  = `{"title":"Sync","summary":"Done","action_items":[{"task":"Ship","assignee":"Ana","due":null}],"decisions":[],"key_topics":["launch"]}`
)

type staticSessions struct {
	user *entities.User
}

func (s staticSessions) ValidateSession(_ context.Context, token string) (*entities.User, error) {
	if token == testToken {
		return s.user, nil
	}
	return nil, stdErrors.New("invalid token")
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Info    string            `json:"info"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
}

type apiFixture struct {
	e         *echo.Echo
	user      *entities.User
	users     *fakes.Users
	tasks     *fakes.Tasks
	meetings  *fakes.Meetings
	docs      *fakes.Documents
	completer *fakes.Completer
	mailer    *fakes.Mailer
}

func newAPIFixture(t *testing.T, checks map[string]HealthCheck) *apiFixture {
	t.Helper()
	logger := zap.NewNop()
	tasks := &fakes.Tasks{}
	f := &apiFixture{
		user:      entities.NewUser("owner@example.com"),
		users:     &fakes.Users{},
		tasks:     tasks,
		meetings:  fakes.NewMeetings(tasks),
		docs:      &fakes.Documents{},
		completer: &fakes.Completer{Reply: meetingReply},
		mailer:    &fakes.Mailer{},
	}
	require.NoError(t, f.users.Create(context.Background(), f.user))

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test", FrontendURL: "http://app.test/"}}

	aiSvc := ai.NewAIService(f.completer, nil, "Sam", 4096, logger)
	authSvc := auth.NewService(
		f.users,
		&fakes.Sessions{},
		magiclink.NewManager(store, time.Minute),
		f.mailer,
		jwt.NewManager("access", "refresh", time.Minute, time.Hour),
		"http://api.test",
		nil,
		logger,
	)
	meetingSvc := meeting.NewMeetingService(f.meetings, f.tasks, aiSvc, nil, logger)
	chatSvc := chat.NewService(aiSvc, chat.NewContextBuilder(f.meetings, f.tasks, f.docs, logger), nil, &fakes.Chat{}, logger)

	f.e = echo.New()
	f.e.Validator = pkgvalidator.New()
	f.e.HTTPErrorHandler = HTTPErrorHandler(logger)

	router := NewRouter(
		cfg,
		Handlers{
			Auth:      NewAuth(authSvc, logger, cfg),
			Meeting:   NewMeetingHandler(meetingSvc, logger),
			Task:      NewTaskHandler(task.NewService(f.tasks, f.meetings, nil, logger), logger),
			Document:  NewDocumentHandler(document.NewService(f.docs, nil, nil, 1024, logger), logger),
			Note:      NewNoteHandler(note.NewService(&fakes.Notes{}), logger),
			Chat:      NewChatHandler(chatSvc, logger),
			Dashboard: NewDashboardHandler(dashboard.NewService(f.meetings, f.tasks, logger), logger),
			Webhook: NewWebhookHandler(
				webhook.NewGranolaService(f.users, meetingSvc, aiSvc, lock.NewLocalLocker(), "", logger),
				logger,
			),
		},
		httpmw.EchoAuth(staticSessions{user: f.user}),
		httpmw.BearerSecret(webhookSecret),
		checks,
	)
	router.Setup(f.e)
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body string, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}
	return f.serve(t, req)
}

func (f *apiFixture) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	rec, _ := f.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	f = newAPIFixture(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return stdErrors.New("connection refused") },
	})
	rec, _ = f.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestErrorHandler_UnknownRouteAndMissingAuth(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodGet, "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_NOT_FOUND), env.Code)

	rec, env = f.do(t, http.MethodGet, "/v1/tasks", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_UNAUTHENTICATED), env.Code)
	assert.Equal(t, "Missing authorization token", env.Message)
}

func TestAuth_MagicLinkRoundTrip(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/magic-link", `{"email":"New@Example.com"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", env.Message)

	link, ok := f.mailer.Sent["new@example.com"]
	require.True(t, ok)
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)

	rec, env = f.do(t, http.MethodPost, "/v1/auth/verify", `{"token":"`+token+`"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeData(t, env, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "new@example.com", resp.User.Email)

	// tokens are single use
	rec, env = f.do(t, http.MethodPost, "/v1/auth/verify", `{"token":"`+token+`"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_AUTH_MAGIC_LINK_INVALID), env.Code)
}

func TestAuth_Validation(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/magic-link", `{"email":"not-an-email"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A valid email is required", env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/auth/verify", `{}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", env.Details["token"])

	rec, env = f.do(t, http.MethodPost, "/v1/auth/verify", `{"token":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_INVALID_PAYLOAD), env.Code)
}

func TestAuth_CallbackRedirects(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, _ := f.do(t, http.MethodGet, "/v1/auth/callback?token=bogus", "", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://app.test/login?error=auth_failed", rec.Header().Get(echo.HeaderLocation))

	rec, _ = f.do(t, http.MethodPost, "/v1/auth/magic-link", `{"email":"owner@example.com"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	u, err := url.Parse(f.mailer.Sent["owner@example.com"])
	require.NoError(t, err)

	rec, _ = f.do(t, http.MethodGet, "/v1/auth/callback?token="+url.QueryEscape(u.Query().Get("token")), "", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://app.test/", rec.Header().Get(echo.HeaderLocation))

	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
		assert.True(t, c.HttpOnly)
	}
	assert.ElementsMatch(t, []string{accessTokenCookie, refreshTokenCookie}, names)
}

func TestAuth_Me(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/me", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeData(t, env, &me)
	assert.Equal(t, f.user.ID.String(), me.User.ID)
}

func TestMeeting_Process(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/meetings/process", `{"transcript":42}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgTranscriptRequired, env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/meetings/process", `{"transcript":"   "}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgTranscriptEmpty, env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/meetings/process", `{"transcript":"Ana: ship it","date":"yesterday"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = f.do(t, http.MethodPost, "/v1/meetings/process", `{"transcript":"Ana: ship it","date":"2026-03-02T10:00:00Z"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Title         string    `json:"title"`
		Date          time.Time `json:"date"`
		RawTranscript string    `json:"raw_transcript"`
		ActionItems   []struct {
			Task string `json:"task"`
		} `json:"action_items"`
	}
	decodeData(t, env, &out)
	assert.Equal(t, "Sync", out.Title)
	assert.Equal(t, "Ana: ship it", out.RawTranscript)
	assert.True(t, out.Date.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))
	require.Len(t, out.ActionItems, 1)
	assert.Empty(t, f.meetings.Items, "processing alone does not save")
}

func TestMeeting_CreateGetDelete(t *testing.T) {
	f := newAPIFixture(t, nil)

	body := `{"title":"Planning","raw_transcript":"x","action_items":[{"task":"Book room","assignee":"Lee"}]}`
	rec, env := f.do(t, http.MethodPost, "/v1/meetings", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID    string `json:"id"`
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	decodeData(t, env, &created)
	require.NotEmpty(t, created.ID)
	require.Len(t, f.tasks.Items, 1)

	rec, _ = f.do(t, http.MethodGet, "/v1/meetings/"+created.ID, "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/v1/meetings/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/v1/meetings/"+created.ID, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_MEETING_NOT_FOUND), env.Code)

	rec, _ = f.do(t, http.MethodGet, "/v1/meetings/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTask_Lifecycle(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/tasks", `{"title":"Write report","priority":"urgent"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "oneof", env.Details["priority"])

	rec, env = f.do(t, http.MethodPost, "/v1/tasks", `{"title":"Write report","priority":"high"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, "high", created.Priority)

	rec, _ = f.do(t, http.MethodPatch, "/v1/tasks/"+created.ID, `{"status":"done"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = f.do(t, http.MethodGet, "/v1/tasks?open=true", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decodeData(t, env, &list)
	assert.Empty(t, list.Data)

	rec, _ = f.do(t, http.MethodGet, "/v1/tasks?open=maybe", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/v1/tasks?page_size=1000", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/v1/tasks/"+created.ID, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/v1/tasks/"+created.ID, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_TASK_NOT_FOUND), env.Code)
}

func multipartUpload(t *testing.T, filename string, content []byte, title string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if title != "" {
		require.NoError(t, w.WriteField("title", title))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	return req
}

func TestDocument_Upload(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.serve(t, multipartUpload(t, "notes.txt", []byte("hello world"), ""))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc struct {
		Title    string  `json:"title"`
		FileType string  `json:"file_type"`
		Content  *string `json:"content"`
		HasFile  bool    `json:"has_file"`
	}
	decodeData(t, env, &doc)
	assert.Equal(t, "notes", doc.Title)
	assert.Equal(t, "txt", doc.FileType)
	require.NotNil(t, doc.Content)
	assert.Equal(t, "hello world", *doc.Content)
	assert.False(t, doc.HasFile)

	rec, env = f.serve(t, multipartUpload(t, "tool.exe", []byte{0x4d, 0x5a, 0x90, 0x00, 0x03}, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_DOCUMENT_TYPE_REJECTED), env.Code)

	rec, env = f.serve(t, multipartUpload(t, "", nil, "Title only"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgDocumentTitleNeeded, env.Message)

	rec, env = f.serve(t, multipartUpload(t, "big.txt", bytes.Repeat([]byte("a"), 2048), ""))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "1024", env.Details["max_bytes"])
}

func TestChat_Send(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/chat", `{"messages":"hi"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgMessagesRequired, env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/chat", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgMessagesRequired, env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/chat", `{"messages":[]}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecaseErrors.MsgMessagesEmpty, env.Message)

	f.completer.Reply = "Start with the report."
	rec, env = f.do(t, http.MethodPost, "/v1/chat", `{"messages":[{"role":"user","content":"What first?"}]}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reply struct {
		Response string `json:"response"`
	}
	decodeData(t, env, &reply)
	assert.Equal(t, "Start with the report.", reply.Response)

	rec, _ = f.do(t, http.MethodGet, "/v1/chat/history?limit=0", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_Granola(t *testing.T) {
	f := newAPIFixture(t, nil)
	payload := `{"title":"Standup","transcript":"Ana: ship it"}`

	rec, env := f.do(t, http.MethodPost, "/v1/webhooks/granola", payload, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int(appErrors.ErrorCode_WEBHOOK_UNAUTHORIZED), env.Code)
	assert.Equal(t, "Unauthorized", env.Message)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/granola", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+webhookSecret)
	rec, _ = f.serve(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result webhook.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Sync", result.Title)
	assert.Equal(t, 1, result.ActionItemsCount)
	require.Len(t, f.meetings.Items, 1)
	assert.Equal(t, f.user.ID, f.meetings.Items[0].UserID)
}

func TestDashboard(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, _ := f.do(t, http.MethodPost, "/v1/tasks", `{"title":"Open one"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := f.do(t, http.MethodGet, "/v1/dashboard", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary struct {
		OpenTaskCount int64 `json:"open_task_count"`
	}
	decodeData(t, env, &summary)
	assert.Equal(t, int64(1), summary.OpenTaskCount)
}

func TestNote_CreateAndUpdate(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, env := f.do(t, http.MethodPost, "/v1/notes", `{"title":"Ideas"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content is required", env.Message)

	rec, env = f.do(t, http.MethodPost, "/v1/notes", `{"title":"Ideas","content":"ship weekly","tags":["Work"," "]}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	decodeData(t, env, &created)
	require.NotEmpty(t, created.ID)

	rec, env = f.do(t, http.MethodPut, "/v1/notes/"+created.ID, `{"title":"Ideas v2","content":"ship daily"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Title string `json:"title"`
	}
	decodeData(t, env, &updated)
	assert.Equal(t, "Ideas v2", updated.Title)
}
