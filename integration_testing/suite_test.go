package integration_testing

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUsername = "testuser"
	testPassword = "testpass"
)

type IntegrationTestSuite struct {
	suite.Suite

	env        *Environment
	httpClient *http.Client
}

func TestIntegrationTestSuite(t *testing.T) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("SKIP_DOCKER_TESTS set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	s.env, err = NewEnvironment(context.Background(), EnvironmentParams{
		AdminUsername:     testUsername,
		AdminPasswordHash: string(passwordHash),
		ExportPath:        "../testdata/workouts.csv",
	})
	if err != nil {
		s.T().Skipf("integration environment not available: %s", err)
	}

	s.httpClient = &http.Client{Timeout: 10 * time.Second}
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.env != nil {
		s.env.Cleanup()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.env.FlushRedis(context.Background()))
}

func (s *IntegrationTestSuite) newRequest(ctx context.Context, method, path string) *http.Request {
	return s.newRequestWithBody(ctx, method, path, nil)
}

func (s *IntegrationTestSuite) newRequestWithBody(ctx context.Context, method, path string, body io.Reader) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	return req
}
