package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Mounter attaches the application root
type Mounter interface {
	Mount(ctx context.Context) error
}

// MountFunc adapts a function to Mounter
type MountFunc func(ctx context.Context) error

func (f MountFunc) Mount(ctx context.Context) error { return f(ctx) }

// HTTPMounter serves a handler on an address once mounted.
// The server shuts down when the mount context is done.
type HTTPMounter struct {
	Addr    string
	Handler http.Handler
	done    chan error
	addr    net.Addr
}

func (m *HTTPMounter) Mount(ctx context.Context) error {
	listener, err := net.Listen("tcp", m.Addr)
	if err != nil {
		return err
	}
	m.addr = listener.Addr()
	m.done = make(chan error, 1)
	server := &http.Server{Handler: m.Handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	go func() {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		m.done <- err
	}()
	return nil
}

// Address returns the listening address, nil before Mount
func (m *HTTPMounter) Address() net.Addr {
	return m.addr
}

// Done returns a channel receiving the serve result, nil before Mount
func (m *HTTPMounter) Done() <-chan error {
	return m.done
}
