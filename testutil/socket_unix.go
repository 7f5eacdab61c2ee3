//go:build !windows

package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

// GarbageSocket is a unix socket which answers every connection with bytes
// that are not a MySQL handshake. A client that reports a protocol error
// rather than "connection refused" has dialed the socket.
type GarbageSocket struct {
	Path     string
	listener net.Listener
}

// ListenGarbageSocket listens on name inside a fresh directory. The socket is
// closed when the test finishes.
func ListenGarbageSocket(t *testing.T, name string) *GarbageSocket {
	t.Helper()

	// t.TempDir() paths easily exceed the sun_path limit on macOS.
	dir, err := os.MkdirTemp("", "jsondef")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	listener, err := net.Listen("unix", filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	sock := &GarbageSocket{Path: listener.Addr().String(), listener: listener}
	go sock.serve()
	return sock
}

func (s *GarbageSocket) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte("not a mysql server\n"))
		conn.Close()
	}
}
