package sshx

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
)

const defaultDialTimeout = 30 * time.Second

// Options describes one SSH/SFTP connection.
//
// Password and Key may both be set: the key is offered first and the
// password kept as a second auth method, matching server setups that accept
// either. The same password doubles as the key passphrase (see KeyParser).
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Key      *Credential
	Timeout  time.Duration
}

// Session owns an SSH transport and the SFTP channel opened on top of it.
// The channel never outlives the transport; Close releases both together
// and is safe to call more than once.
type Session struct {
	addr string

	sshClient  *ssh.Client
	sftpClient *sftp.Client

	closeOnce sync.Once
	closeErr  error
}

// Dial opens the transport, authenticates and starts the SFTP channel.
// Failures are classified into exactly one of common.ErrHostUnreachable,
// common.ErrAuthFailed or common.ErrProtocol; none of them are worth
// retrying, so the caller should stop the run.
func Dial(ctx context.Context, log logging.Logger, opts Options) (*Session, error) {
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	var auth []ssh.AuthMethod
	if opts.Key != nil {
		auth = append(auth, ssh.PublicKeys(opts.Key.Signer))
	}
	if opts.Password != "" {
		auth = append(auth, ssh.Password(opts.Password))
	}

	sshCfg := &ssh.ClientConfig{
		User: opts.User,
		Auth: auth,
		// The platform configuration carries no host key material, so
		// verification is not possible here.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	log.Debug(ctx, "connecting", "addr", addr, "user", opts.User, "key", opts.Key != nil)

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot reach %s, check the hostname and port (%v)",
			common.ErrHostUnreachable, addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	cc, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		_ = conn.Close()
		return nil, classifyHandshakeError(err, addr)
	}
	_ = conn.SetDeadline(time.Time{})

	sshClient := ssh.NewClient(cc, chans, reqs)

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("%w: opening SFTP channel to %s, check the hostname and port (%v)",
			common.ErrProtocol, addr, err)
	}

	log.Info(ctx, "connected", "addr", addr)

	return &Session{addr: addr, sshClient: sshClient, sftpClient: sftpClient}, nil
}

// classifyHandshakeError separates credential rejections from other
// handshake failures. x/crypto/ssh reports auth failures only through the
// error text, so the match is on its stable message.
func classifyHandshakeError(err error, addr string) error {
	msg := err.Error()
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") {
		return fmt.Errorf("%w: %s rejected the credentials, check the user, password or private key and the host settings (%v)",
			common.ErrAuthFailed, addr, err)
	}
	return fmt.Errorf("%w: SSH handshake with %s failed, check the hostname and port (%v)",
		common.ErrProtocol, addr, err)
}

// Upload transfers one local file to remotePath in a single pass. Partial
// writes are not resumed; callers re-send the whole file on retry.
func (s *Session) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	local, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer local.Close()

	remote, err := s.sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", remotePath, err)
	}

	if _, err := io.Copy(remote, local); err != nil {
		_ = remote.Close()
		return fmt.Errorf("write %s: %w", remotePath, err)
	}

	// Close flushes outstanding writes; its error is a failed upload.
	if err := remote.Close(); err != nil {
		return fmt.Errorf("close %s: %w", remotePath, err)
	}

	return nil
}

// Close releases the SFTP channel, then the transport. Subsequent calls
// return the result of the first one.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.sftpClient != nil {
			s.closeErr = s.sftpClient.Close()
		}
		if s.sshClient != nil {
			if err := s.sshClient.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// Addr returns the remote address this session is connected to.
func (s *Session) Addr() string {
	return s.addr
}
