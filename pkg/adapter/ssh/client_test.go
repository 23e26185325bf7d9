package ssh

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Config{Host: "10.0.0.5", Username: "deploy", PrivateKeyPath: "/keys/id_ed25519"})
	assert.Equal(t, uint16(22), c.cfg.Port)
	assert.Equal(t, 10*time.Second, c.cfg.ConnectTimeout)
}

func TestRunCommandFailsWhenNotDialed(t *testing.T) {
	c := New(Config{Host: "10.0.0.5", Username: "deploy", PrivateKeyPath: "/keys/id_ed25519"})
	_, _, err := c.RunCommand(context.Background(), "echo hi")
	assert.Error(t, err)
}

func TestConnectivityPollerFailsFastOnUnroutableHost(t *testing.T) {
	// A real key, so Dial gets past key loading and fails on the network.
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := gossh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600))

	poller := NewConnectivityPoller(Config{
		Host:           "203.0.113.1", // TEST-NET-3, guaranteed unreachable
		Username:       "deploy",
		PrivateKeyPath: keyPath,
		ConnectTimeout: 200 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := poller.Poll(ctx)
	assert.False(t, result.Ready)
	assert.NotEmpty(t, result.Message)
}
