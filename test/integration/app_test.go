package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	handler "github.com/vncsmyrnk/fanvote/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/fanvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
	"github.com/vncsmyrnk/fanvote/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	VoteSvc     ports.VoteService
	SummarySvc  ports.SummaryService
	DBContainer testcontainers.Container
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

func setupTestApp(t *testing.T, mode string) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	contestantRepo := repo.NewContestantRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	summaryRepo := repo.NewSummaryRepository(db)
	blogRepo := repo.NewBlogRepository(db)
	commentRepo := repo.NewCommentRepository(db)

	policy, err := services.NewAdmissionPolicy(mode, voteRepo)
	require.NoError(t, err)

	voteSvc := services.NewVoteService(contestantRepo, voteRepo, policy, nil, logger, 5*time.Second)
	contestantSvc := services.NewContestantService(contestantRepo, nil, logger)
	blogSvc := services.NewBlogService(blogRepo, commentRepo, nil, logger)
	summarySvc := services.NewSummaryService(contestantRepo, summaryRepo)
	authSvc := services.NewAuthService(testAdminSecret, time.Hour)

	router := handler.NewHandler(handler.RouterConfig{
		VoteHandler:  handler.NewVoteHandler(voteSvc, summarySvc),
		BlogHandler:  handler.NewBlogHandler(blogSvc),
		AdminHandler: handler.NewAdminHandler(contestantSvc, blogSvc),
		AuthHandler:  handler.NewAuthHandler(authSvc),
		AuthService:  authSvc,
		Logger:       logger,
		Version:      "test",
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		VoteSvc:     voteSvc,
		SummarySvc:  summarySvc,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// do sends a JSON request and decodes the response envelope.
func (app *TestApp) do(t *testing.T, method, path string, payload any, token string) (int, apiResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
