package handlers

import (
	"context"
	"net/http"
	"time"

	"car_chronicle/internal/models"
	"car_chronicle/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseAccount  string
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseAccount, m.parseErr
}

type mockLedger struct {
	registerResp models.VehicleRecord
	registerErr  error
	appendResp   models.VehicleRecord
	appendErr    error
	getResp      models.VehicleRecord
	getErr       error
	logsResp     []models.LogEntry
	logsErr      error
	byOwnerResp  []string
	byOwnerErr   error
	listResp     []models.VehicleRecord
	listErr      error

	lastCaller string
	lastParams service.RegisterParams
	lastVIN    string
	lastLogs   []models.LogEntry
	lastOwner  string
}

func (m *mockLedger) RegisterVehicle(ctx context.Context, caller string, p service.RegisterParams) (models.VehicleRecord, error) {
	m.lastCaller = caller
	m.lastParams = p
	return m.registerResp, m.registerErr
}
func (m *mockLedger) AppendLogs(ctx context.Context, caller, vin string, logs []models.LogEntry) (models.VehicleRecord, error) {
	m.lastCaller = caller
	m.lastVIN = vin
	m.lastLogs = logs
	return m.appendResp, m.appendErr
}
func (m *mockLedger) GetRecord(ctx context.Context, vin string) (models.VehicleRecord, error) {
	m.lastVIN = vin
	return m.getResp, m.getErr
}
func (m *mockLedger) GetLogs(ctx context.Context, vin string) ([]models.LogEntry, error) {
	m.lastVIN = vin
	return m.logsResp, m.logsErr
}
func (m *mockLedger) RecordsByOwner(ctx context.Context, owner string) ([]string, error) {
	m.lastOwner = owner
	return m.byOwnerResp, m.byOwnerErr
}
func (m *mockLedger) ListAll(ctx context.Context) ([]models.VehicleRecord, error) {
	return m.listResp, m.listErr
}

type mockInsurance struct {
	premiumPaying    bool
	premiumPayingErr error
	covered          bool
	coveredErr       error
	purchaseErr      error
	claimPaid        int64
	claimErr         error

	lastAccount string
	lastPremium int64
}

func (m *mockInsurance) IsPremiumPaying(ctx context.Context, account string) (bool, error) {
	m.lastAccount = account
	return m.premiumPaying, m.premiumPayingErr
}
func (m *mockInsurance) HasActiveCoverage(ctx context.Context, account string) (bool, error) {
	m.lastAccount = account
	return m.covered, m.coveredErr
}
func (m *mockInsurance) Purchase(ctx context.Context, account string, requestedPremium int64) error {
	m.lastAccount = account
	m.lastPremium = requestedPremium
	return m.purchaseErr
}
func (m *mockInsurance) FileClaim(ctx context.Context, account string) (int64, error) {
	m.lastAccount = account
	return m.claimPaid, m.claimErr
}

type mockHealth struct {
	health    models.HealthCategory
	healthErr error
	value     int64
	valueErr  error
}

func (m *mockHealth) Classify(ctx context.Context, vin string) (models.HealthCategory, error) {
	return m.health, m.healthErr
}
func (m *mockHealth) MarketValue(ctx context.Context, vin string) (int64, error) {
	return m.value, m.valueErr
}

type mockNotifications struct {
	resp     []models.Notification
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockNotifications) List(ctx context.Context, f service.NotificationFilter) ([]models.Notification, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
