/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ortuman/c2sgate/auth"
	streamerror "github.com/ortuman/c2sgate/errors"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/router"
	"github.com/ortuman/c2sgate/transport"
	"github.com/pborman/uuid"
	"golang.org/x/net/netutil"
)

var listenerProvider = net.Listen

type server struct {
	cfg           *Config
	router        *router.Router
	authenticator auth.Authenticator
	ln            net.Listener
	listening     uint32
	acceptDoneCh  chan struct{}

	mu      sync.RWMutex
	streams map[string]*inStream
}

func (s *server) start() error {
	bindAddr := s.cfg.Transport.BindAddress
	port := s.cfg.Transport.Port
	address := bindAddr + ":" + strconv.Itoa(port)

	ln, err := listenerProvider("tcp", address)
	if err != nil {
		return err
	}
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	log.Infof("%s: listening at %s", s.cfg.ID, ln.Addr().String())

	s.acceptDoneCh = make(chan struct{})
	atomic.StoreUint32(&s.listening, 1)
	go s.listenSocketConn(ln)
	return nil
}

func (s *server) listenSocketConn(ln net.Listener) {
	defer close(s.acceptDoneCh)

	for atomic.LoadUint32(&s.listening) == 1 {
		conn, err := ln.Accept()
		if err == nil {
			go s.startStream(transport.NewSocketTransport(conn, transport.SocketConfig{
				KeepAlive: s.cfg.KeepAlive,
			}))
			continue
		}
		if atomic.LoadUint32(&s.listening) == 1 {
			log.Warnf("%s: accept failed: %v", s.cfg.ID, err)
		}
	}
}

func (s *server) addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *server) shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&s.listening, 1, 0) {
		return nil
	}
	if err := s.ln.Close(); err != nil {
		return err
	}
	select {
	case <-s.acceptDoneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	// disconnect all active streams
	s.mu.RLock()
	stms := make([]*inStream, 0, len(s.streams))
	for _, stm := range s.streams {
		stms = append(stms, stm)
	}
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, stm := range stms {
		wg.Add(1)
		go func(stm *inStream) {
			defer wg.Done()
			stm.Disconnect(streamerror.ErrSystemShutdown)
		}(stm)
	}
	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()
	select {
	case <-doneCh:
		log.Infof("%s: shutdown complete (%d streams closed)", s.cfg.ID, len(stms))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *server) startStream(tr transport.Transport) {
	cfg := &streamConfig{
		domains:        s.cfg.Domains,
		connectTimeout: s.cfg.ConnectTimeout,
		maxStanzaSize:  s.cfg.MaxStanzaSize,
		transport:      tr,
		authenticator:  s.authenticator,
		router:         s.router,
		onDisconnect:   s.unregisterStream,
	}
	// register before the stream starts reading
	s.mu.Lock()
	stm := newStream(s.nextID(), cfg)
	s.streams[stm.ID()] = stm
	reportConnectionRegistered()
	s.mu.Unlock()

	log.Infof("registered c2s stream... (id: %s, remote: %v)", stm.ID(), tr.RemoteAddr())
}

func (s *server) unregisterStream(stm *inStream) {
	s.mu.Lock()
	delete(s.streams, stm.ID())
	s.mu.Unlock()

	reportConnectionUnregistered()
	log.Infof("unregistered c2s stream... (id: %s)", stm.ID())
}

func (s *server) streamCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams)
}

func (s *server) nextID() string {
	return fmt.Sprintf("c2s:%s:%s", s.cfg.ID, uuid.New())
}
