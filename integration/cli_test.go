//go:build integration

package integration_test

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

// decodeLast decodes the last JSON document in out. Log lines written by the
// binary come first, the command result last.
func decodeLast(t *testing.T, out string, v any) {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(out))

	var last json.RawMessage
	for {
		var doc json.RawMessage
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err, "output is not valid json: %s", out)
		last = doc
	}

	require.NotEmpty(t, last, "no json document in output")
	require.NoError(t, json.Unmarshal(last, v))
}

func TestSessionLifecycle(t *testing.T) {
	g := newGateway(t)

	istat := initInfra(t, "session")
	defer istat.Close(t.Context())

	istat.PrepareGateway(g)
	istat.PrepareConfig(t)

	// before login
	out, err := istat.Run(t, "status")
	require.NoError(t, err)

	var info business.SessionInfo
	decodeLast(t, out, &info)
	assert.False(t, info.LoggedIn)

	// login
	_, err = istat.Run(t, "login", username, "--password", password)
	require.NoError(t, err)

	fi, err := os.Stat(filepath.Join(istat.Procdir, "credentials.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	out, err = istat.Run(t, "status")
	require.NoError(t, err)
	decodeLast(t, out, &info)
	assert.True(t, info.LoggedIn)
	assert.Equal(t, username, info.Subject)
	assert.Equal(t, "CUSTOMER", info.Role)
	assert.True(t, info.HasRefreshToken)

	out, err = istat.Run(t, "whoami")
	require.NoError(t, err)

	var me marketplace.User
	decodeLast(t, out, &me)
	assert.Equal(t, username, me.Username)

	// a rejected token is refreshed once and the request replayed
	g.Revoke()

	out, err = istat.Run(t, "tasks", "get", "7")
	require.NoError(t, err)

	var task marketplace.Task
	decodeLast(t, out, &task)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, int32(1), g.refreshCalls.Load())

	// logout
	_, err = istat.Run(t, "logout")
	require.NoError(t, err)

	out, err = istat.Run(t, "status")
	require.NoError(t, err)
	decodeLast(t, out, &info)
	assert.False(t, info.LoggedIn)
}

func TestSessionExpired(t *testing.T) {
	g := newGateway(t)

	istat := initInfra(t, "expired")
	defer istat.Close(t.Context())

	istat.PrepareGateway(g)
	istat.PrepareConfig(t)

	_, err := istat.Run(t, "login", username, "--password", password)
	require.NoError(t, err)

	g.Revoke()
	g.RejectRefresh()

	_, err = istat.Run(t, "tasks", "get", "7")
	require.Error(t, err)
	assert.Equal(t, int32(1), g.refreshCalls.Load())

	// the failed refresh ends the session
	out, err := istat.Run(t, "status")
	require.NoError(t, err)

	var info business.SessionInfo
	decodeLast(t, out, &info)
	assert.False(t, info.LoggedIn)
}

func TestLogin(t *testing.T) {
	g := newGateway(t)

	istat := initInfra(t, "login")
	defer istat.Close(t.Context())

	istat.PrepareGateway(g)
	istat.PrepareConfig(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "missing password",
			args:    []string{"login", username},
			wantErr: true,
		}, {
			name:    "wrong password",
			args:    []string{"login", username, "--password", "nope"},
			wantErr: true,
		}, {
			name:    "yaml output",
			args:    []string{"login", username, "--password", password, "-o", "yaml"},
			wantErr: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := istat.Run(t, tc.args...)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, "logged in as "+username)
		})
	}
}

func TestValKeyStore(t *testing.T) {
	g := newGateway(t)

	istat := initInfra(t, "valkey")
	defer istat.Close(t.Context())

	istat.PrepareGateway(g)
	istat.PrepareValKey(t)
	istat.PrepareConfig(t)

	_, err := istat.Run(t, "login", username, "--password", password)
	require.NoError(t, err)

	out, err := istat.Run(t, "status")
	require.NoError(t, err)

	var info business.SessionInfo
	decodeLast(t, out, &info)
	assert.True(t, info.LoggedIn)
	assert.NoFileExists(t, filepath.Join(istat.Procdir, "credentials.yaml"))
}
