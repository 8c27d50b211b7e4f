package auth_test

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/keycard/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for credential service end-to-end
 * tests: image build, container setup and shared assertions.
 */

const (
	testImageName = "keycard-auth-test:latest"

	testSecret = "e2e-secret-0123456789abcdef-0123456789abcdef"
	testPass   = "P@ss1"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards. The suite only runs when GO_TEST_INTEGRATION is set.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		fmt.Fprintln(os.Stdout, "skipping e2e suite: GO_TEST_INTEGRATION not set")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building credential service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up credential service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// baseEnv is the container environment shared by every test.
func baseEnv() map[string]string {
	return map[string]string{
		"AUTH_JWT_SECRET":  testSecret,
		"AUTH_ISSUER":      "keycard-e2e",
		"AUTH_AUDIENCE":    "keycard-api",
		"AUTH_ACCESS_TTL":  "2s",
		"AUTH_REFRESH_TTL": "1h",
		"ENV":              "test",
		"LOG_LEVEL":        "info",
		"LOG_FORMAT":       "json",
	}
}

// relaxedLimits avoids tripping the production limits with rapid test traffic.
func relaxedLimits() map[string]string {
	return map[string]string{
		"RATELIMIT_CREDENTIAL_REQUESTS":    "1000",
		"RATELIMIT_CREDENTIAL_BURST":       "1000",
		"RATELIMIT_AUTHENTICATED_REQUESTS": "1000",
		"RATELIMIT_AUTHENTICATED_BURST":    "1000",
		"RATELIMIT_ACCOUNT_REQUESTS":       "1000",
		"RATELIMIT_ACCOUNT_BURST":          "1000",
	}
}

// setupAuthContainer starts the service with relaxed rate limits and
// returns its base URL.
func setupAuthContainer(t *testing.T) string {
	t.Helper()
	env := baseEnv()
	maps.Copy(env, relaxedLimits())
	return startContainer(t, env)
}

// setupAuthContainerWithDefaultRateLimits starts the service with the
// production rate limits, for tests that check limiting itself.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// registerUser creates a User account with the shared test password.
func registerUser(t *testing.T, client *authsdk.SDKClient, username string) {
	t.Helper()
	st, err := client.Register(t.Context(), authsdk.RegistrationRequest{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: testPass,
	})
	require.NoError(t, err)
	require.True(t, st.OK(), "registration failed: %s", st.Message)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertAPIError checks err is an *APIError with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
