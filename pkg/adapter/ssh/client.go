// Package ssh wraps golang.org/x/crypto/ssh for the three things the
// deployer needs over SSH: a connectivity probe (wait.Poller for the
// provision step's SSH wait), remote command execution ("remote
// actions" in the spec's three-level orchestration hierarchy), and a
// scp-style file upload for the release step's compose/config transfer.
package ssh

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// Config names the remote host and the credentials to authenticate with.
type Config struct {
	Host           string
	Port           uint16
	Username       string
	PrivateKeyPath string
	// ConnectTimeout bounds a single dial+handshake attempt.
	ConnectTimeout time.Duration
}

// Client opens and reuses one SSH connection to a single host.
type Client struct {
	cfg  Config
	conn *ssh.Client
}

// New returns a Client for cfg. It does not dial; Dial must be called
// (or the connectivity poller must have already succeeded) before Run
// or Upload.
func New(cfg Config) *Client {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	return &Client{cfg: cfg}
}

// Dial reads the private key at cfg.PrivateKeyPath and establishes the
// SSH connection, retained for subsequent Run/Upload calls.
func (c *Client) Dial() error {
	keyBytes, err := os.ReadFile(c.cfg.PrivateKeyPath)
	if err != nil {
		return apperror.Wrap(apperror.KindConfiguration, "ssh.Dial: read private key", err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return apperror.Wrap(apperror.KindConfiguration, "ssh.Dial: parse private key", err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            c.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint - the instance's host key is not pinned at provisioning time
		Timeout:         c.cfg.ConnectTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	conn, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return apperror.Wrap(apperror.KindNetwork, "ssh.Dial: connect "+addr, err)
	}
	c.conn = conn
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RunCommand executes command on the remote host as a single SSH session
// and returns its captured stdout, exit code, and any transport error.
func (c *Client) RunCommand(ctx context.Context, command string) (stdout string, exitCode int, err error) {
	if c.conn == nil {
		return "", -1, apperror.New(apperror.KindInternal, "ssh.RunCommand: not dialed")
	}
	session, err := c.conn.NewSession()
	if err != nil {
		return "", -1, apperror.Wrap(apperror.KindNetwork, "ssh.RunCommand: new session", err)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Close()
		return out.String(), -1, apperror.Wrap(apperror.KindTimeout, "ssh.RunCommand: context done", ctx.Err())
	case runErr := <-done:
		if runErr == nil {
			return out.String(), 0, nil
		}
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			return out.String(), exitErr.ExitStatus(), nil
		}
		return out.String(), -1, apperror.Wrap(apperror.KindNetwork, "ssh.RunCommand: "+command, runErr)
	}
}

// Runner returns a wait.Runner-shaped closure running command, so a step
// can build a wait.CommandPoller (used for the cloud-init wait and the
// "test" command's validators) around a fixed remote command.
func (c *Client) Runner(command string) func(ctx context.Context) (string, int, error) {
	return func(ctx context.Context) (string, int, error) {
		return c.RunCommand(ctx, command)
	}
}

// Upload copies localPath to remotePath on the connected host using an
// `scp`-less approach: a remote `cat > file` session fed localPath's
// contents, sufficient for the release step's compose/config file
// transfer without depending on scp or sftp being installed remotely.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) error {
	if c.conn == nil {
		return apperror.New(apperror.KindInternal, "ssh.Upload: not dialed")
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return apperror.Wrap(apperror.KindExternalTool, "ssh.Upload: read local file", err)
	}

	session, err := c.conn.NewSession()
	if err != nil {
		return apperror.Wrap(apperror.KindNetwork, "ssh.Upload: new session", err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(data)

	remoteDir := path.Dir(remotePath)
	command := fmt.Sprintf("mkdir -p %q && cat > %q", remoteDir, remotePath)

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Close()
		return apperror.Wrap(apperror.KindTimeout, "ssh.Upload: context done", ctx.Err())
	case err := <-done:
		if err != nil {
			return apperror.Wrap(apperror.KindNetwork, "ssh.Upload: "+remotePath, err)
		}
		return nil
	}
}
