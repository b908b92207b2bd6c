package server

import (
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
)

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted connections,
// the same way http.Server.ListenAndServe does.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

func newListener(address string) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("Error listening for TCP connections on %s: %v", address, err)
	}

	if casted, ok := ln.(*net.TCPListener); ok {
		return tcpKeepAliveListener{casted}, nil
	}
	glog.Warning("net.Listen(\"tcp\", addr) didn't return a TCPListener; keep-alive is left to the OS defaults")
	return ln, nil
}
