package node

// The wire format evolved from XML, so the same semantic field shows up in
// several encodings depending on the endpoint and its vintage. An attribute
// may arrive as "@key" or as a bare scalar child "key"; a text value may
// arrive as "$valor", "value", "@value", or as the node itself being scalar.
// These accessors reconcile all of them.

// valueKeys is the fixed probe order for element text.
var valueKeys = [...]string{"$valor", "value", "@value"}

// Attribute returns the textual form of the named attribute, probing the
// "@key" child first and the bare "key" child second. The bare form only
// counts when the child is itself a scalar; an object or array child under
// that name is a nested element, not an attribute.
func (n *Node) Attribute(key string) (string, bool) {
	if at := n.Child("@" + key); at.IsScalar() {
		return at.Text(), true
	}
	if bare := n.Child(key); bare.IsScalar() {
		return bare.Text(), true
	}
	return "", false
}

// Value returns the textual form of the node's element text. A scalar node is
// its own value; otherwise the legacy child encodings are probed in fixed
// priority order.
func (n *Node) Value() (string, bool) {
	if n.IsScalar() {
		return n.Text(), true
	}
	for _, key := range valueKeys {
		if child := n.Child(key); child.IsScalar() {
			return child.Text(), true
		}
	}
	return "", false
}

// Len returns the element count of the node treated as a list. A bare object
// is an implicit one-element list: the wire collapses single-element arrays
// to the bare element. Null and nil count zero.
func (n *Node) Len() int {
	switch n.Kind() {
	case Array:
		return len(n.items)
	case Null:
		return 0
	default:
		return 1
	}
}

// At returns the i-th element of the node treated as a list, or nil when the
// index is out of range. A non-array node is its own element zero.
func (n *Node) At(i int) *Node {
	if n.Kind() == Array {
		if i < 0 || i >= len(n.items) {
			return nil
		}
		return n.items[i]
	}
	if n.IsNull() || i != 0 {
		return nil
	}
	return n
}

// Elements returns the node's list elements in order.
func (n *Node) Elements() []*Node {
	size := n.Len()
	out := make([]*Node, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, n.At(i))
	}
	return out
}
