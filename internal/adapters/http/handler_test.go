package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/config"
	"github.com/ozgur/shipmate/internal/core/domain"
	"github.com/ozgur/shipmate/internal/metrics"
)

type stubConfigService struct {
	entries  []domain.Entry
	contents map[string]string
	written  map[string]string
	readonly map[string]bool
}

func (s *stubConfigService) ListFiles(context.Context) []domain.Entry {
	return s.entries
}

func (s *stubConfigService) ReadFile(_ context.Context, name string) (string, error) {
	content, ok := s.contents[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, domain.ErrNotFound)
	}
	return content, nil
}

func (s *stubConfigService) WriteFile(_ context.Context, name, content string) error {
	if s.readonly[name] {
		return fmt.Errorf("%q: %w", name, domain.ErrReadonly)
	}
	if _, ok := s.contents[name]; !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrNotFound)
	}
	if s.written == nil {
		s.written = map[string]string{}
	}
	s.written[name] = content
	return nil
}

type stubContainerService struct {
	containers []domain.Container
	details    map[string]domain.ContainerDetails
	actionErr  error
}

func (s *stubContainerService) ListContainers(context.Context) ([]domain.Container, error) {
	return s.containers, nil
}

func (s *stubContainerService) ContainerDetails(_ context.Context, id string) (domain.ContainerDetails, error) {
	d, ok := s.details[id]
	if !ok {
		return domain.ContainerDetails{}, fmt.Errorf("%s: %w", id, domain.ErrNoSuchContainer)
	}
	return d, nil
}

func (s *stubContainerService) ExecuteAction(_ context.Context, action domain.Action, id string) (string, error) {
	if s.actionErr != nil {
		return "", s.actionErr
	}
	return "container " + action.String() + "ed", nil
}

func testApp(cfgSvc *stubConfigService, ctrSvc *stubContainerService) *fiber.App {
	return NewApp(config.ServerConfig{}, cfgSvc, ctrSvc, metrics.New(), zap.NewNop())
}

func decodeBody(t *testing.T, resp io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp).Decode(out))
}

func TestListFilesEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{
		entries: []domain.Entry{
			{Name: "nginx.conf", Description: "web server", Readonly: true},
			{Name: "dotfiles/fish/config.fish", Description: "shell", Category: "dotfiles"},
		},
	}, &stubContainerService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/configs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body FileListResponse
	decodeBody(t, resp.Body, &body)
	require.Len(t, body.Files, 2)
	assert.Equal(t, "nginx.conf", body.Files[0].Name)
	assert.True(t, body.Files[0].Readonly)
	assert.Equal(t, "dotfiles", body.Files[1].Category)
}

func TestReadFileEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{
		contents: map[string]string{"dotfiles/fish/config.fish": "set -x EDITOR vim"},
	}, &stubContainerService{})

	// Logical names with slashes ride the wildcard segment.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/configs/dotfiles/fish/config.fish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body FileContentResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "set -x EDITOR vim", body.Content)
}

func TestReadFileEndpoint_NotFound(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/configs/ghost.conf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWriteFileEndpoint(t *testing.T) {
	svc := &stubConfigService{contents: map[string]string{"app.conf": "old"}}
	app := testApp(svc, &stubContainerService{})

	req := httptest.NewRequest("POST", "/api/configs/app.conf",
		strings.NewReader(`{"content":"new content"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body WriteResponse
	decodeBody(t, resp.Body, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "new content", svc.written["app.conf"])
}

func TestWriteFileEndpoint_Readonly(t *testing.T) {
	app := testApp(&stubConfigService{
		contents: map[string]string{"locked.conf": "x"},
		readonly: map[string]bool{"locked.conf": true},
	}, &stubContainerService{})

	req := httptest.NewRequest("POST", "/api/configs/locked.conf",
		strings.NewReader(`{"content":"y"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWriteFileEndpoint_BadBody(t *testing.T) {
	app := testApp(&stubConfigService{contents: map[string]string{"app.conf": "x"}}, &stubContainerService{})

	req := httptest.NewRequest("POST", "/api/configs/app.conf", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListContainersEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{
		containers: []domain.Container{
			{ID: "abc", Name: "web", State: "running", Status: "Up 2 hours"},
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/containers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ContainerListResponse
	decodeBody(t, resp.Body, &body)
	require.Len(t, body.Containers, 1)
	assert.Equal(t, "web", body.Containers[0].Name)
}

func TestContainerDetailsEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{
		details: map[string]domain.ContainerDetails{
			"abc": {ID: "abc", Name: "web", Image: "nginx", State: "running"},
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/containers/abc/details", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ContainerDetailsResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "nginx", body.Details.Image)
}

func TestContainerDetailsEndpoint_NotFound(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/containers/ghost/details", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestActionEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/containers/abc/restart", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ActionResponse
	decodeBody(t, resp.Body, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "container restarted", body.Message)
}

func TestActionEndpoint_FailureExposesStderr(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{
		actionErr: &domain.CommandError{
			Verb: "start", ID: "ghost",
			Stderr: "Error response from daemon: No such container: ghost",
		},
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/containers/ghost/start", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No such container: ghost")
}

func TestHealthz(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := testApp(&stubConfigService{}, &stubContainerService{})

	// Generate one request so a counter exists.
	_, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "shipmate_http_requests_total")
}
