package reimage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metalfog/fogctl/internal/remote"
)

func TestFixHostname_RewritesHostsAndHostname(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("Output", mock.Anything, "hostname").Return("donor01\n", nil)
	exec.On("Output", mock.Anything, "grep donor01 /etc/hosts").
		Return("10.0.0.5\tdonor01 donor01.front.sepia.ceph.com\n10.0.0.5\tdonor01-alias\n", nil)
	exec.On("Run", mock.Anything, "sudo hostname node7", time.Duration(0)).Return(nil).Twice()
	exec.On("Run", mock.Anything, "sudo sed -i -e 's/donor01/node7/g' /etc/hosts", time.Duration(0)).Return(nil).Once()
	exec.On("IPAddress", mock.Anything).Return("10.0.1.7", nil)
	exec.On("Run", mock.Anything, "sudo sed -i -e 's/10.0.0.5/10.0.1.7/g' /etc/hosts", time.Duration(0)).Return(nil).Once()
	exec.On("Run", mock.Anything, "sudo sed -i -e 's/donor01/node7/g' /etc/hostname", time.Duration(0)).Return(nil).Once()

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	require.NoError(t, r.fixHostname(context.Background()))
	exec.AssertExpectations(t)
}

func TestFixHostname_NoHostsMatch(t *testing.T) {
	// grep finds nothing: only the tolerated /etc/hostname pass runs.
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("Output", mock.Anything, "hostname").Return("donor01\n", nil)
	exec.On("Output", mock.Anything, "grep donor01 /etc/hosts").
		Return("", errors.New("exit status 1"))
	exec.On("Run", mock.Anything, "sudo sed -i -e 's/donor01/node7/g' /etc/hostname", time.Duration(0)).Return(nil).Once()
	exec.On("Run", mock.Anything, "sudo hostname node7", time.Duration(0)).Return(nil).Once()

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	require.NoError(t, r.fixHostname(context.Background()))
	exec.AssertExpectations(t)
	exec.AssertNotCalled(t, "IPAddress", mock.Anything)
}

func TestFixHostname_ToleratesFallbackFailures(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("Output", mock.Anything, "hostname").Return("node7\n", nil)
	exec.On("Output", mock.Anything, "grep node7 /etc/hosts").
		Return("", errors.New("exit status 1"))
	exec.On("Run", mock.Anything, "sudo sed -i -e 's/node7/node7/g' /etc/hostname", time.Duration(0)).
		Return(errors.New("sed: no such file")).Once()
	exec.On("Run", mock.Anything, "sudo hostname node7", time.Duration(0)).
		Return(errors.New("permission denied")).Once()

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	require.NoError(t, r.fixHostname(context.Background()))
}

func TestFixHostname_ReadFailure(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("Output", mock.Anything, "hostname").Return("", errors.New("session closed"))

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	err := r.fixHostname(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current hostname")
}

func TestVerifyInstalledOS_Match(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("OS", mock.Anything).Return(remote.OSIdentity{Name: "CentOS", Version: "8.stream"}, nil)

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	require.NoError(t, r.verifyInstalledOS(context.Background()))
}

func TestVerifyInstalledOS_Mismatch(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("OS", mock.Anything).Return(remote.OSIdentity{Name: "ubuntu", Version: "22.04"}, nil)

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	err := r.verifyInstalledOS(context.Background())

	var mismatch *OSMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "node7", mismatch.Host)
	assert.Equal(t, remote.OSIdentity{Name: "centos", Version: "8.stream"}, mismatch.Expected)
	assert.Equal(t, remote.OSIdentity{Name: "ubuntu", Version: "22.04"}, mismatch.Actual)
}

func TestVerifyInstalledOS_DetectionFailure(t *testing.T) {
	exec := &mockExecutor{hostname: "node7.front.sepia.ceph.com"}
	exec.On("OS", mock.Anything).Return(remote.OSIdentity{}, errors.New("connection reset"))

	r := newTestReimager(t, &mockService{}, exec, &mockPower{})
	err := r.verifyInstalledOS(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect installed OS")
}
