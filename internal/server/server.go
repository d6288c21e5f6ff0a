package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/miekg/dns"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultTTL = 60

// Server answers decomposition requests over DNS and, optionally, HTTP.
type Server struct {
	opts       *options
	udpServer  *dns.Server
	tcpServer  *dns.Server
	httpServer *http.Server
}

// New creates a server from the supplied options.
func New(opts ...Option) (*Server, error) {
	o := &options{
		ttl:     defaultTTL,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.parser == nil {
		return nil, fmt.Errorf("no parser configured")
	}
	if o.bind == "" {
		return nil, fmt.Errorf("no bind address configured")
	}
	s := &Server{opts: o}
	handler := dns.HandlerFunc(s.handleDNS)
	s.udpServer = &dns.Server{Addr: o.bind, Net: "udp", Handler: handler}
	s.tcpServer = &dns.Server{Addr: o.bind, Net: "tcp", Handler: handler}
	if o.httpBind != "" {
		s.httpServer = &http.Server{
			Addr:              o.httpBind,
			Handler:           s.httpHandler(),
			ReadHeaderTimeout: o.timeout,
		}
	}
	return s, nil
}

// Start listens on UDP, TCP and HTTP until ctx is done or a listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 3)
	go func() {
		errCh <- s.udpServer.ListenAndServe()
	}()
	go func() {
		errCh <- s.tcpServer.ListenAndServe()
	}()
	if s.httpServer != nil {
		go func() {
			logutil.GetLogger(ctx).Info("http api listening", zap.String("addr", s.httpServer.Addr))
			err := s.httpServer.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return
			}
			errCh <- err
		}()
	}
	select {
	case <-ctx.Done():
		s.shutdown()
		return ctx.Err()
	case err := <-errCh:
		s.shutdown()
		return err
	}
}

func (s *Server) shutdown() {
	_ = s.udpServer.Shutdown()
	_ = s.tcpServer.Shutdown()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}
}
