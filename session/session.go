/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package session

import (
	stdxml "encoding/xml"
	"io"
	"net"
	"sync"
	"sync/atomic"

	streamerror "github.com/ortuman/c2sgate/errors"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/pool"
	"github.com/ortuman/c2sgate/transport"
	"github.com/ortuman/c2sgate/xmpp"
	"github.com/pkg/errors"
)

const xmlHeader = `<?xml version="1.0"?>`

var bufPool = pool.NewBufferPool()

// A Config structure is used to configure an XMPP session.
type Config struct {
	// Transport provides the underlying session transport
	// that will be used to send and received elements.
	Transport transport.Transport

	// MaxStanzaSize defines the maximum stanza size that
	// can be read from the session transport.
	MaxStanzaSize int
}

// Session represents the XML stream between a connected client and the server.
// It owns the transport and the streaming parser.
type Session struct {
	id     string
	tr     transport.Transport
	pr     *xmpp.Parser
	opened uint32
	closed uint32

	wMu sync.Mutex
}

// New creates a new session instance.
func New(id string, config *Config) *Session {
	return &Session{
		id: id,
		tr: config.Transport,
		pr: xmpp.NewParser(config.Transport, xmpp.SocketStream, config.MaxStanzaSize),
	}
}

// ID returns session identifier.
func (s *Session) ID() string {
	return s.id
}

// Open sends the XML declaration followed by the stream opening tag.
// Open may be called once per stream restart.
func (s *Session) Open(stream xmpp.XElement) error {
	atomic.StoreUint32(&s.opened, 1)

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	buf.WriteString(xmlHeader)
	stream.ToXML(buf, false)
	return s.write(buf.String())
}

// IsOpened returns whether the stream opening tag has already been sent.
func (s *Session) IsOpened() bool {
	return atomic.LoadUint32(&s.opened) == 1
}

// Close closes session sending the proper XMPP payload.
// Is responsibility of the caller to close underlying transport.
func (s *Session) Close() error {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return errors.New("session already closed")
	}
	return s.write("</stream:stream>")
}

// Send writes an XML element to the underlying session transport.
func (s *Session) Send(elem xmpp.XElement) error {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	elem.ToXML(buf, true)
	return s.write(buf.String())
}

// SendString writes a raw serialized payload to the underlying session transport.
func (s *Session) SendString(str string) error {
	return s.write(str)
}

// ResetParser discards current parsing state. Next received element
// is expected to belong to a brand new XML stream.
func (s *Session) ResetParser() {
	s.pr.Reset()
}

// Receive returns next incoming session element.
//
// A closing stream tag is reported as a stream element with no attributes.
// Parsing and transport failures are translated into stream errors; io.EOF is
// returned when the peer went away.
func (s *Session) Receive() (xmpp.XElement, error) {
	elem, err := s.pr.ParseElement()
	if err != nil {
		if err == xmpp.ErrStreamClosedByPeer {
			log.Debugf("RECV(%s): </stream:stream>", s.id)
			return xmpp.NewElementName(xmpp.StreamName), nil
		}
		return nil, mapErrorToStreamError(err)
	}
	if elem != nil {
		log.Debugf("RECV(%s): %v", s.id, elem)
	}
	return elem, nil
}

func (s *Session) write(str string) error {
	s.wMu.Lock()
	defer s.wMu.Unlock()

	log.Debugf("SEND(%s): %s", s.id, str)
	_, err := s.tr.WriteString(str)
	return errors.Wrapf(err, "session %s: write failed", s.id)
}

func mapErrorToStreamError(err error) error {
	switch err {
	case io.EOF, io.ErrUnexpectedEOF, transport.ErrClosed:
		return io.EOF
	case xmpp.ErrTooLargeStanza:
		return streamerror.ErrPolicyViolation
	}
	switch e := err.(type) {
	case net.Error:
		if e.Timeout() {
			return streamerror.ErrConnectionTimeout
		}
	case *stdxml.SyntaxError:
		return streamerror.ErrInvalidXML
	}
	return err
}
