/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package xmpp

// SetName sets XML node name.
func (e *Element) SetName(name string) *Element {
	e.name = name
	return e
}

// SetText sets XML node text value.
func (e *Element) SetText(text string) *Element {
	e.text = text
	return e
}

// SetAttribute sets an XML node attribute (label=value)
func (e *Element) SetAttribute(label, value string) *Element {
	e.attrs.setAttribute(label, value)
	return e
}

// SetNamespace sets 'xmlns' node attribute.
func (e *Element) SetNamespace(namespace string) *Element { return e.SetAttribute("xmlns", namespace) }

// SetID sets 'id' node attribute.
func (e *Element) SetID(identifier string) *Element { return e.SetAttribute("id", identifier) }

// SetLanguage sets 'xml:lang' node attribute.
func (e *Element) SetLanguage(language string) *Element { return e.SetAttribute("xml:lang", language) }

// SetFrom sets 'from' node attribute.
// Stanzas read from an authenticated stream get it overwritten with the stream address.
func (e *Element) SetFrom(from string) *Element { return e.SetAttribute("from", from) }

// SetTo sets 'to' node attribute.
func (e *Element) SetTo(to string) *Element { return e.SetAttribute("to", to) }

// SetType sets 'type' node attribute.
func (e *Element) SetType(tp string) *Element { return e.SetAttribute("type", tp) }

// SetVersion sets 'version' node attribute.
func (e *Element) SetVersion(version string) *Element { return e.SetAttribute("version", version) }

// AppendElement appends a new sub element.
func (e *Element) AppendElement(element XElement) *Element {
	e.elements.append(element)
	return e
}

// AppendElements appends an array of sub elements.
func (e *Element) AppendElements(elements []XElement) *Element {
	e.elements.append(elements...)
	return e
}

// RemoveElements removes all sub elements named name.
func (e *Element) RemoveElements(name string) *Element {
	e.elements.remove(name)
	return e
}
