/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package router

import (
	"context"

	"github.com/ortuman/c2sgate/bus"
	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/pool"
	"github.com/ortuman/c2sgate/xmpp"
	"github.com/ortuman/c2sgate/xmpp/jid"
)

var bufPool = pool.NewBufferPool()

// Router represents an XMPP stanza router.
//
// Client stanzas are published onto the ingress bus keyed by their sender address,
// and processed stanzas are read back from the delivery bus keyed by recipient stream.
// Keeping both directions apart prevents a stream from reading its own stanzas back.
type Router struct {
	reg      *Registry
	ingress  bus.Bus
	delivery bus.Bus
}

// New returns a new router instance.
func New(ingress, delivery bus.Bus) *Router {
	return &Router{
		reg:      NewRegistry(),
		ingress:  ingress,
		delivery: delivery,
	}
}

// Registry returns the router known identities registry.
func (r *Router) Registry() *Registry {
	return r.reg
}

// Bind registers a stream full JID.
func (r *Router) Bind(j *jid.JID) error {
	if err := r.reg.Bind(j); err != nil {
		return err
	}
	log.Infof("bound stream... (%s)", j.String())
	return nil
}

// Unbind releases a stream full JID.
func (r *Router) Unbind(j *jid.JID) {
	r.reg.Unbind(j)
	log.Infof("unbound stream... (%s)", j.String())
}

// Route publishes a stanza under its sender topic.
// Publication errors are logged and never reported back.
func (r *Router) Route(ctx context.Context, elem xmpp.XElement) {
	topic := elem.From()
	if len(topic) == 0 {
		log.Warnf("router: discarding %s element with no sender", elem.Name())
		return
	}
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	elem.ToXML(buf, true)
	payload := append([]byte(nil), buf.Bytes()...)

	if err := r.ingress.Publish(ctx, topic, payload); err != nil {
		log.Errorf("router: failed to publish %s element: %v", elem.Name(), err)
	}
}

// Subscribe opens a delivery subscription over the topic associated to a JID.
func (r *Router) Subscribe(ctx context.Context, j *jid.JID, h bus.Handler) (bus.Subscription, error) {
	return r.delivery.Subscribe(ctx, j.String(), h)
}
