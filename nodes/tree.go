// Package nodes provides views of node graphs: shader, geometry and compositor trees.
//
// A Tree holds its nodes and links in linked lists. Nodes hold their input and output
// sockets in lists too, and links point at their endpoint nodes and sockets. All of it
// is read lazily from the file.
package nodes

import (
	"github.com/arloliu/blend/view"
)

// Tree is a bNodeTree.
type Tree struct {
	view.View
}

func NewTree(v view.View) Tree { return Tree{View: v} }

// Name returns the tree name without the type code prefix. Trees embedded in a
// material carry an empty or generated name.
func (t Tree) Name() string {
	id, err := t.Embedded("id")
	if err != nil {
		return ""
	}
	if s := id.Text("name"); len(s) > 2 {
		return s[2:]
	}

	return ""
}

// TypeName returns the tree type, e.g. "ShaderNodeTree".
func (t Tree) TypeName() string { return t.Text("idname") }

// Nodes returns the nodes in list order. A truncated list returns the nodes read so far
// along with the diagnostic.
func (t Tree) Nodes() ([]Node, error) {
	vs, err := t.list("nodes", "bNode")
	out := make([]Node, len(vs))
	for i, v := range vs {
		out[i] = Node{View: v}
	}

	return out, err
}

// Links returns the links in list order.
func (t Tree) Links() ([]Link, error) {
	vs, err := t.list("links", "bNodeLink")
	out := make([]Link, len(vs))
	for i, v := range vs {
		out[i] = Link{View: v}
	}

	return out, err
}

func (t Tree) list(field, elem string) ([]view.View, error) {
	if !t.Valid() {
		return nil, nil
	}
	l, err := view.ListBaseOf(t.View, field, elem)
	if err != nil {
		return nil, err
	}

	return l.Collect()
}

// Node returns the first node with the given name.
func (t Tree) Node(name string) (Node, bool) {
	ns, _ := t.Nodes()
	for _, n := range ns {
		if n.Name() == name {
			return n, true
		}
	}

	return Node{}, false
}

// NodesOfType returns the nodes with the given type name, e.g. "ShaderNodeOutputMaterial".
func (t Tree) NodesOfType(typeName string) []Node {
	ns, _ := t.Nodes()
	var out []Node
	for _, n := range ns {
		if n.TypeName() == typeName {
			out = append(out, n)
		}
	}

	return out
}

// LinkTo returns the link feeding an input socket. Unconnected sockets report false.
func (t Tree) LinkTo(socket Socket) (Link, bool) {
	links, _ := t.Links()
	for _, l := range links {
		to, err := l.ToSocket()
		if err == nil && to.Valid() && to.Position() == socket.Position() {
			return l, true
		}
	}

	return Link{}, false
}

// LinksFrom returns the links leaving a node.
func (t Tree) LinksFrom(node Node) []Link {
	links, _ := t.Links()
	var out []Link
	for _, l := range links {
		from, err := l.FromNode()
		if err == nil && from.Valid() && from.Position() == node.Position() {
			out = append(out, l)
		}
	}

	return out
}

// Link is a bNodeLink connecting an output socket to an input socket.
type Link struct {
	view.View
}

func (l Link) FromNode() (Node, error) {
	v, err := l.Pointer("fromnode")
	return Node{View: v}, err
}

func (l Link) ToNode() (Node, error) {
	v, err := l.Pointer("tonode")
	return Node{View: v}, err
}

func (l Link) FromSocket() (Socket, error) {
	v, err := l.Pointer("fromsock")
	return Socket{View: v}, err
}

func (l Link) ToSocket() (Socket, error) {
	v, err := l.Pointer("tosock")
	return Socket{View: v}, err
}
