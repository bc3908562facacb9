package ftpclient

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/jlaffaye/ftp"
)

const defaultPort = "21"

// Session is the part of an FTP control connection a fetch uses.
type Session interface {
	Login(user, password string) error
	ChangeDir(path string) error
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

// DialFunc opens a session to addr (host:port).
type DialFunc func(ctx context.Context, addr string) (Session, error)

type serverConn struct {
	*ftp.ServerConn
}

// Retr starts a binary transfer. Closing the response reads the server's
// transfer-complete reply.
func (c serverConn) Retr(path string) (io.ReadCloser, error) {
	return c.ServerConn.Retr(path)
}

// Dialer returns a DialFunc backed by github.com/jlaffaye/ftp. A zero
// timeout leaves the dial bounded only by ctx.
func Dialer(timeout time.Duration) DialFunc {
	return func(ctx context.Context, addr string) (Session, error) {
		opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
		if timeout > 0 {
			opts = append(opts, ftp.DialWithTimeout(timeout))
		}
		conn, err := ftp.Dial(addr, opts...)
		if err != nil {
			return nil, err
		}
		return serverConn{conn}, nil
	}
}

func hostAddr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, defaultPort)
}
