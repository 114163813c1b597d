/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ortuman/c2sgate/auth"
	"github.com/ortuman/c2sgate/bus"
	streamerror "github.com/ortuman/c2sgate/errors"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/router"
	"github.com/ortuman/c2sgate/runqueue"
	"github.com/ortuman/c2sgate/session"
	"github.com/ortuman/c2sgate/xmpp"
	"github.com/ortuman/c2sgate/xmpp/jid"
	"github.com/pborman/uuid"
)

const (
	negotiating uint32 = iota
	authenticating
	authenticated
	bound
	sessionEstablished
	disconnected
)

type inStream struct {
	cfg       *streamConfig
	router    *router.Router
	sess      *session.Session
	id        string
	connectTm *time.Timer
	state     uint32
	runQueue  *runqueue.RunQueue
	ctx       context.Context
	cancel    context.CancelFunc
	doneCh    chan struct{}

	// accessed from run queue only
	streamOpened bool
	host         string

	mu                sync.RWMutex
	jid               *jid.JID
	authenticated     bool
	pendingSessionAck bool
	subs              []bus.Subscription
	boundJID          *jid.JID
}

func newStream(id string, config *streamConfig) *inStream {
	ctx, cancel := context.WithCancel(context.Background())
	s := &inStream{
		cfg:      config,
		router:   config.router,
		id:       id,
		runQueue: runqueue.New(id),
		ctx:      ctx,
		cancel:   cancel,
		doneCh:   make(chan struct{}),
	}
	s.sess = session.New(id, &session.Config{
		Transport:     config.transport,
		MaxStanzaSize: config.maxStanzaSize,
	})
	if config.connectTimeout > 0 {
		s.connectTm = time.AfterFunc(config.connectTimeout, s.connectTimeout)
	}
	go s.doRead() // start reading...

	return s
}

// ID returns stream identifier.
func (s *inStream) ID() string {
	return s.id
}

// JID returns the stream associated JID, or nil if not yet authenticated.
func (s *inStream) JID() *jid.JID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jid
}

// IsAuthenticated returns whether or not the stream has been authenticated.
func (s *inStream) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Disconnect disconnects remote peer by closing the underlying TCP socket connection.
func (s *inStream) Disconnect(err error) {
	if s.getState() == disconnected {
		return
	}
	waitCh := make(chan struct{})
	s.runQueue.Run(func() {
		s.disconnect(err)
		close(waitCh)
	})
	select {
	case <-waitCh:
	case <-s.doneCh:
	}
}

func (s *inStream) connectTimeout() {
	s.runQueue.Run(func() { s.disconnect(streamerror.ErrConnectionTimeout) })
}

func (s *inStream) handleElement(elem xmpp.XElement) {
	if elem.Name() == xmpp.StreamName {
		s.handleStreamStart(elem)
		return
	}
	if !s.streamOpened {
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	t0 := time.Now()

	// clients cannot spoof their sender address
	if j := s.JID(); j != nil && s.IsAuthenticated() {
		stamped := xmpp.NewElementFromElement(elem)
		stamped.SetFrom(j.String())
		elem = stamped
	}
	switch elem.Name() {
	case "auth":
		s.handleAuth(elem)
	case xmpp.IQName:
		s.handleIQ(elem)
	case xmpp.MessageName, xmpp.PresenceName:
		s.handleStanza(elem)
	default:
		s.disconnectWithStreamError(streamerror.ErrUnsupportedStanzaType)
		return
	}
	reportIncomingRequest(elem.Name(), elem.Type(), time.Since(t0))
}

func (s *inStream) handleStreamStart(elem xmpp.XElement) {
	if elem.Attributes().Count() == 0 {
		// closing stream tag
		s.disconnectClosingSession(true)
		return
	}
	if s.streamOpened {
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	host := elem.To()
	if !s.isServedDomain(host) {
		s.disconnectWithStreamError(streamerror.ErrHostUnknown)
		return
	}
	if j := s.JID(); j != nil && j.Domain() != host {
		s.disconnectWithStreamError(streamerror.ErrHostUnknown)
		return
	}
	s.host = host

	version := elem.Version()
	if elem.Attributes().Has("version") && version != "1.0" {
		s.disconnectWithStreamError(streamerror.ErrUnsupportedVersion)
		return
	}
	from := elem.From()
	if len(from) > 0 {
		if _, err := jid.Parse(from); err != nil {
			s.disconnectWithStreamError(streamerror.ErrInvalidFrom)
			return
		}
	}
	ns := elem.Namespace()
	if len(ns) == 0 {
		ns = jabberClientNamespace
	}
	resp := xmpp.NewElementName(xmpp.StreamName)
	resp.SetNamespace(ns)
	resp.SetAttribute("xmlns:stream", streamNamespace)
	resp.SetFrom(host)
	resp.SetID(uuid.New())
	resp.SetLanguage("en")
	if len(version) > 0 {
		resp.SetVersion(version)
	}
	resp.SetTo(from)

	s.streamOpened = true
	if err := s.sess.Open(resp); err != nil {
		log.Error(err)
		s.disconnectClosingSession(false)
		return
	}
	features := xmpp.NewElementName("stream:features")
	if !s.IsAuthenticated() {
		features.AppendElements(s.unauthenticatedFeatures())
		s.setState(authenticating)
	} else {
		features.AppendElements(s.authenticatedFeatures())
	}
	s.writeElement(features)
}

func (s *inStream) unauthenticatedFeatures() []xmpp.XElement {
	mechanisms := xmpp.NewElementNamespace("mechanisms", s.cfg.authenticator.Namespace())
	for _, name := range s.cfg.authenticator.Mechanisms() {
		mechanisms.AppendElement(xmpp.NewElementName("mechanism").SetText(name))
	}
	return []xmpp.XElement{mechanisms}
}

func (s *inStream) authenticatedFeatures() []xmpp.XElement {
	bind := xmpp.NewElementNamespace("bind", bindNamespace)
	bind.AppendElement(xmpp.NewElementName("required"))

	// [rfc6121] offer session feature for backward compatibility
	sessElem := xmpp.NewElementNamespace("session", sessionNamespace)

	return []xmpp.XElement{bind, sessElem}
}

func (s *inStream) handleAuth(elem xmpp.XElement) {
	if s.IsAuthenticated() {
		s.disconnectWithStreamError(streamerror.ErrNotAllowed)
		return
	}
	if elem.Namespace() != s.cfg.authenticator.Namespace() {
		s.disconnectWithStreamError(streamerror.ErrMalformedRequest)
		return
	}
	username, err := s.cfg.authenticator.Process(s.ctx, elem)
	if err != nil {
		s.failAuthentication(err)
		return
	}
	userJID, err := jid.New(username, s.host, "")
	if err != nil {
		log.Warnf("c2s: invalid account name %q: %v", username, err)
		s.failAuthentication(auth.ErrSASLNotAuthorized)
		return
	}
	sub, err := s.router.Subscribe(s.ctx, userJID, s.onBusMessage)
	if err != nil {
		log.Errorf("c2s: failed to subscribe %s: %v", userJID.String(), err)
		s.disconnectWithStreamError(streamerror.ErrInternalServerError)
		return
	}
	s.mu.Lock()
	s.jid = userJID
	s.authenticated = true
	s.pendingSessionAck = true
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	// cancel connection timeout timer
	if s.connectTm != nil {
		s.connectTm.Stop()
		s.connectTm = nil
	}
	reportAuthentication(true)
	log.Infof("authenticated stream... (%s)", userJID.String())

	s.writeElement(xmpp.NewElementNamespace("success", s.cfg.authenticator.Namespace()))

	// authentication restarts the stream
	s.sess.ResetParser()
	s.streamOpened = false
	s.setState(authenticated)
}

func (s *inStream) failAuthentication(err error) {
	reportAuthentication(false)

	saslErr, ok := err.(*auth.SASLError)
	if !ok {
		log.Error(err)
		saslErr = auth.ErrSASLTemporaryAuthFailure.(*auth.SASLError)
	}
	s.writeElement(saslErr.Element())
}

func (s *inStream) handleIQ(elem xmpp.XElement) {
	if !s.IsAuthenticated() {
		s.disconnectWithStreamError(streamerror.ErrNotAuthorized)
		return
	}
	switch s.getState() {
	case authenticated:
		iq, err := xmpp.NewIQFromElement(elem)
		if err != nil || !iq.IsSet() {
			s.disconnectWithStreamError(streamerror.ErrBadRequest)
			return
		}
		s.bindResource(iq)

	case bound:
		if first := elem.Elements().First(); first != nil && first.Name() == "session" && first.Namespace() == sessionNamespace {
			s.establishSession(elem)
			return
		}
		s.router.Route(s.ctx, elem)

	default:
		s.router.Route(s.ctx, elem)
	}
}

func (s *inStream) bindResource(iq *xmpp.IQ) {
	bind := iq.Elements().ChildNamespace("bind", bindNamespace)
	if bind == nil {
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	var resource string
	if resourceElem := bind.Elements().Child("resource"); resourceElem != nil {
		resource = resourceElem.Text()
	}
	if len(resource) == 0 {
		resource = uuid.New()
	}
	userJID, err := s.JID().WithResource(resource)
	if err != nil {
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	switch err := s.router.Bind(userJID); err {
	case nil:
		break
	case router.ErrConflict:
		s.disconnectWithStreamError(streamerror.ErrConflict)
		return
	default:
		log.Error(err)
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	s.mu.Lock()
	s.jid = userJID
	s.boundJID = userJID
	s.mu.Unlock()

	// stanzas addressed to the full JID are delivered as well
	sub, err := s.router.Subscribe(s.ctx, userJID, s.onBusMessage)
	if err != nil {
		log.Errorf("c2s: failed to subscribe %s: %v", userJID.String(), err)
		s.disconnectWithStreamError(streamerror.ErrInternalServerError)
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	//...notify successful binding
	result := xmpp.NewIQType(iq.ID(), xmpp.ResultType)
	result.SetTo(userJID.String())

	boundElem := xmpp.NewElementNamespace("bind", bindNamespace)
	boundElem.AppendElement(xmpp.NewElementName("jid").SetText(userJID.String()))
	result.AppendElement(boundElem)

	s.setState(bound)
	s.writeElement(result)
}

func (s *inStream) establishSession(elem xmpp.XElement) {
	iq, err := xmpp.NewIQFromElement(elem)
	if err != nil {
		s.disconnectWithStreamError(streamerror.ErrBadRequest)
		return
	}
	s.mu.Lock()
	s.pendingSessionAck = false
	s.mu.Unlock()

	s.setState(sessionEstablished)
	s.writeElement(iq.ResultIQ())
}

func (s *inStream) handleStanza(elem xmpp.XElement) {
	if !s.IsAuthenticated() {
		s.disconnectWithStreamError(streamerror.ErrNotAuthorized)
		return
	}
	s.router.Route(s.ctx, elem)
}

func (s *inStream) onBusMessage(msg *bus.Message) {
	payload := string(msg.Payload)
	s.runQueue.Run(func() { s.deliver(payload) })
}

func (s *inStream) deliver(payload string) {
	if s.getState() == disconnected {
		return
	}
	s.mu.Lock()
	unmask := s.pendingSessionAck
	s.pendingSessionAck = false
	s.mu.Unlock()

	if unmask && s.getState() == bound {
		s.setState(sessionEstablished)
	}
	if err := s.sess.SendString(payload); err != nil {
		log.Warnf("c2s: delivery failed: %v", err)
		return
	}
	reportOutgoingDelivery()
}

func (s *inStream) doRead() {
	elem, err := s.sess.Receive()
	if err == nil {
		s.runQueue.Run(func() { s.readElement(elem) })
	} else {
		s.runQueue.Run(func() {
			if s.getState() == disconnected {
				return
			}
			s.handleSessionError(err)
		})
	}
}

func (s *inStream) handleSessionError(err error) {
	switch e := err.(type) {
	case *streamerror.Error:
		s.disconnectWithStreamError(e)
	default:
		if err != io.EOF {
			log.Error(err)
		}
		s.disconnectClosingSession(false)
	}
}

func (s *inStream) writeElement(elem xmpp.XElement) {
	if err := s.sess.Send(elem); err != nil {
		log.Warnf("c2s: %v", err)
	}
}

func (s *inStream) readElement(elem xmpp.XElement) {
	if elem != nil {
		s.handleElement(elem)
	}
	if s.getState() != disconnected {
		go s.doRead() // Keep reading...
	}
}

func (s *inStream) disconnect(err error) {
	if s.getState() == disconnected {
		return
	}
	switch err {
	case nil:
		s.disconnectClosingSession(true)
	default:
		if stmErr, ok := err.(*streamerror.Error); ok {
			s.disconnectWithStreamError(stmErr)
		} else {
			log.Error(err)
			s.disconnectClosingSession(false)
		}
	}
}

func (s *inStream) disconnectWithStreamError(err *streamerror.Error) {
	if !s.streamOpened {
		hdr := xmpp.NewElementName(xmpp.StreamName).
			SetNamespace(jabberClientNamespace).
			SetAttribute("xmlns:stream", streamNamespace).
			SetFrom(s.host).
			SetID(uuid.New()).
			SetVersion("1.0")
		_ = s.sess.Open(hdr)
		s.streamOpened = true
	}
	reportStreamError(err.Reason())
	s.writeElement(err.Element())
	s.disconnectClosingSession(true)
}

func (s *inStream) disconnectClosingSession(closeSession bool) {
	if s.getState() == disconnected {
		return
	}
	if s.connectTm != nil {
		s.connectTm.Stop()
		s.connectTm = nil
	}
	if closeSession {
		_ = s.sess.Close()
	}
	s.mu.Lock()
	subs, boundJID := s.subs, s.boundJID
	s.subs, s.boundJID = nil, nil
	s.mu.Unlock()

	// release bus subscriptions and bound identity
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Warnf("c2s: failed to unsubscribe %s: %v", sub.Topic(), err)
		}
	}
	if boundJID != nil {
		s.router.Unbind(boundJID)
	}
	s.setState(disconnected)
	s.cancel()
	_ = s.cfg.transport.Close()

	// notify disconnection
	if s.cfg.onDisconnect != nil {
		s.cfg.onDisconnect(s)
	}
	close(s.doneCh)

	s.runQueue.Stop(nil) // stop processing messages
}

func (s *inStream) isServedDomain(domain string) bool {
	for _, d := range s.cfg.domains {
		if d == domain {
			return true
		}
	}
	return false
}

func (s *inStream) setState(state uint32) {
	atomic.StoreUint32(&s.state, state)
}

func (s *inStream) getState() uint32 {
	return atomic.LoadUint32(&s.state)
}
