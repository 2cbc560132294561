package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/models"
	"pool_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseRole     string
	parseErr      error
	setRoleErr    error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	role := m.parseRole
	if role == "" {
		role = models.RoleUser
	}
	return service.Identity{UserID: m.parseID, Role: role}, m.parseErr
}
func (m *mockAuth) SetRole(username, role string) error {
	return m.setRoleErr
}

type mockTelemetry struct {
	latest     models.ReadingSnapshot
	latestErr  error
	ingestErr  error
	lastIngest models.SensorReading
	ingested   int
}

func (m *mockTelemetry) Ingest(ctx context.Context, r models.SensorReading) (models.ReadingSnapshot, error) {
	m.ingested++
	m.lastIngest = r
	if m.ingestErr != nil {
		return models.ReadingSnapshot{}, m.ingestErr
	}
	return models.ReadingSnapshot{Reading: r}, nil
}
func (m *mockTelemetry) Latest(ctx context.Context) (models.ReadingSnapshot, error) {
	return m.latest, m.latestErr
}

type mockAlertLog struct {
	resp      []models.AlertRecord
	err       error
	cleared   int64
	clearErr  error
	clearCall int
	lastList  service.LogFilter
}

func (m *mockAlertLog) Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	return rec, m.err
}
func (m *mockAlertLog) List(ctx context.Context, f service.LogFilter) ([]models.AlertRecord, error) {
	m.lastList = f
	return m.resp, m.err
}
func (m *mockAlertLog) Recent(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	return m.resp, m.err
}
func (m *mockAlertLog) Clear(ctx context.Context) (int64, error) {
	m.clearCall++
	return m.cleared, m.clearErr
}

type mockAlertFeed struct {
	mu       sync.Mutex
	groups   []models.GroupedAlert
	err      error
	lastOpts service.FeedOptions
	calls    int
}

func (m *mockAlertFeed) View(ctx context.Context, opts service.FeedOptions) ([]models.GroupedAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastOpts = opts
	return m.groups, m.err
}

// snapshot returns call count and last options; the websocket handler calls View from its own goroutine.
func (m *mockAlertFeed) snapshot() (int, service.FeedOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.lastOpts
}

type mockThresholds struct {
	ranges       []models.ThresholdRange
	settings     models.ThresholdSettings
	err          error
	saveErr      error
	lastSaved    models.ThresholdSettings
	lastSaveUser int
	lastGetUser  int
}

func (m *mockThresholds) Get(ctx context.Context, userID int) ([]models.ThresholdRange, error) {
	m.lastGetUser = userID
	return m.ranges, m.err
}
func (m *mockThresholds) Settings(ctx context.Context, userID int) (models.ThresholdSettings, error) {
	return m.settings, m.err
}
func (m *mockThresholds) Save(ctx context.Context, userID int, s models.ThresholdSettings) error {
	m.lastSaveUser = userID
	m.lastSaved = s
	return m.saveErr
}
func (m *mockThresholds) Active(ctx context.Context, userID int) (alerts.Thresholds, error) {
	return alerts.DefaultThresholds(), m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWithOptions(s, Options{})
}

func newTestRouterWithOptions(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// newAuthedRequest builds a request carrying a bearer token; an empty body sends none.
func newAuthedRequest(method, target, body string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
