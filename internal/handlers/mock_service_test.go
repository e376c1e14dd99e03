package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sensoringest"
	"sensoringest/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

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
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCertification struct {
	cert      service.Certificate
	err       error
	encoded   []byte
	encodeErr error

	lastUpload   service.Upload
	lastBase     service.Upload
	lastOperator int
}

func (m *mockCertification) Certify(ctx context.Context, up service.Upload, operatorID int) (service.Certificate, error) {
	m.lastUpload = up
	m.lastOperator = operatorID
	return m.cert, m.err
}
func (m *mockCertification) Append(ctx context.Context, base, newer service.Upload, operatorID int) (service.Certificate, error) {
	m.lastBase = base
	m.lastUpload = newer
	m.lastOperator = operatorID
	return m.cert, m.err
}
func (m *mockCertification) Encode(c service.Certificate) ([]byte, error) {
	return m.encoded, m.encodeErr
}

type mockBatch struct {
	items []service.BatchItem
	err   error
	names []string
}

func (m *mockBatch) CertifyBatch(ctx context.Context, uploads []service.Upload, operatorID int, progress func(service.BatchItem)) ([]service.BatchItem, error) {
	for _, u := range uploads {
		m.names = append(m.names, u.Name)
	}
	return m.items, m.err
}

type mockRunLog struct {
	mu          sync.Mutex
	resp        []sensoringest.CertificationRun
	err         error
	calls       int
	lastFrom    time.Time
	lastTo      time.Time
	lastOutcome string
}

func (m *mockRunLog) List(ctx context.Context, f service.RunFilter) ([]sensoringest.CertificationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastOutcome = f.Outcome
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{})
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
