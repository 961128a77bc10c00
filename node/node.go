// Package node models the semi-structured documents returned by the service
// as a small closed variant: null, scalar, object, or array. The accessors
// never guess a default; a value that cannot be determined is reported as
// absent, not as an empty string or zero.
package node

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	Null Kind = iota
	Scalar
	Object
	Array
)

// Node is one decoded document node. The zero value and the nil pointer both
// behave as a null node, so probe chains never need nil checks.
type Node struct {
	kind   Kind
	text   string
	fields map[string]*Node
	items  []*Node
}

// Decode parses a JSON document body into a Node tree. Number literals keep
// their wire text, so "41.380" round-trips as "41.380".
func Decode(body []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fromValue(raw), nil
}

func fromValue(v any) *Node {
	switch val := v.(type) {
	case nil:
		return &Node{kind: Null}
	case string:
		return &Node{kind: Scalar, text: val}
	case json.Number:
		return &Node{kind: Scalar, text: val.String()}
	case bool:
		if val {
			return &Node{kind: Scalar, text: "true"}
		}
		return &Node{kind: Scalar, text: "false"}
	case map[string]any:
		fields := make(map[string]*Node, len(val))
		for k, child := range val {
			fields[k] = fromValue(child)
		}
		return &Node{kind: Object, fields: fields}
	case []any:
		items := make([]*Node, len(val))
		for i, child := range val {
			items[i] = fromValue(child)
		}
		return &Node{kind: Array, items: items}
	default:
		// encoding/json never produces other types
		return &Node{kind: Null}
	}
}

// Kind returns the node's shape. A nil node is Null.
func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

// IsNull reports whether the node is null (or nil).
func (n *Node) IsNull() bool { return n.Kind() == Null }

// IsScalar reports whether the node is a scalar.
func (n *Node) IsScalar() bool { return n.Kind() == Scalar }

// IsObject reports whether the node is an object.
func (n *Node) IsObject() bool { return n.Kind() == Object }

// IsArray reports whether the node is an array.
func (n *Node) IsArray() bool { return n.Kind() == Array }

// Text returns the textual form of a scalar node, or "" for any other shape.
// Use Value or Attribute when absence must be distinguished from empty.
func (n *Node) Text() string {
	if n == nil || n.kind != Scalar {
		return ""
	}
	return n.text
}

// Child returns the named child of an object node, or nil.
func (n *Node) Child(key string) *Node {
	if n == nil || n.kind != Object {
		return nil
	}
	return n.fields[key]
}

// Has reports whether an object node carries the named child, null included.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != Object {
		return false
	}
	_, ok := n.fields[key]
	return ok
}
