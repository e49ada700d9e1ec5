package reimage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/metalfog/fogctl/internal/config"
	"github.com/metalfog/fogctl/internal/remote"
)

// mockService is a mock implementation of the Service interface.
type mockService struct {
	mock.Mock
}

func (m *mockService) ResolveHost(ctx context.Context, shortName string) (int, error) {
	args := m.Called(ctx, shortName)
	return args.Int(0), args.Error(1)
}

func (m *mockService) ResolveImage(ctx context.Context, machineType, osType, osVersion string) (int, error) {
	args := m.Called(ctx, machineType, osType, osVersion)
	return args.Int(0), args.Error(1)
}

func (m *mockService) SetImage(ctx context.Context, hostID, imageID int) error {
	args := m.Called(ctx, hostID, imageID)
	return args.Error(0)
}

func (m *mockService) ScheduleDeploy(ctx context.Context, hostID int, hostName string) (int, error) {
	args := m.Called(ctx, hostID, hostName)
	return args.Int(0), args.Error(1)
}

func (m *mockService) CancelTask(ctx context.Context, taskID int) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *mockService) WaitForDeploy(ctx context.Context, taskID int, hostName string, interval time.Duration, maxAttempts int, timeout time.Duration) error {
	args := m.Called(ctx, taskID, hostName, interval, maxAttempts, timeout)
	return args.Error(0)
}

// mockExecutor is a mock implementation of remote.Executor.
type mockExecutor struct {
	mock.Mock
	hostname string
}

func (m *mockExecutor) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockExecutor) Run(ctx context.Context, command string, timeout time.Duration) error {
	args := m.Called(ctx, command, timeout)
	return args.Error(0)
}

func (m *mockExecutor) Output(ctx context.Context, command string) (string, error) {
	args := m.Called(ctx, command)
	return args.String(0), args.Error(1)
}

func (m *mockExecutor) OS(ctx context.Context) (remote.OSIdentity, error) {
	args := m.Called(ctx)
	return args.Get(0).(remote.OSIdentity), args.Error(1)
}

func (m *mockExecutor) Hostname() string {
	return m.hostname
}

func (m *mockExecutor) ShortName() string {
	return remote.ShortHostname(m.hostname)
}

func (m *mockExecutor) IPAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// mockPower is a mock implementation of remote.PowerController.
type mockPower struct {
	mock.Mock
}

func (m *mockPower) PowerOff(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockPower) PowerOn(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// testConfig returns an enabled configuration with budgets small enough for
// fast tests.
func testConfig() *config.Config {
	return &config.Config{
		Endpoint:     "https://fog.example.com/fog",
		APIToken:     "a",
		UserToken:    "u",
		MachineTypes: "smithi",
		Timeouts: &config.Timeouts{
			DeployWait:           time.Second,
			DeployPollInterval:   time.Millisecond,
			DeployMaxAttempts:    5,
			SSHWait:              250 * time.Millisecond,
			SSHPollInterval:      time.Millisecond,
			SentinelWait:         250 * time.Millisecond,
			SentinelPollInterval: time.Millisecond,
			SentinelRunTimeout:   100 * time.Millisecond,
			FreshnessWindow:      5 * time.Second,
		},
	}
}
