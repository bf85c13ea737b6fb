package nodes

import (
	"github.com/arloliu/blend/view"
)

// Node is a bNode.
type Node struct {
	view.View
}

func (n Node) Name() string { return n.Text("name") }

// TypeName returns the node type, e.g. "ShaderNodeBsdfPrincipled".
func (n Node) TypeName() string { return n.Text("idname") }

// Location returns the editor position. Newer files store it as location[2].
func (n Node) Location() [2]float32 {
	if n.HasField("location") {
		var out [2]float32
		copy(out[:], n.Float32s("location", 2))

		return out
	}

	return [2]float32{n.Float32("locx"), n.Float32("locy")}
}

func (n Node) Inputs() ([]Socket, error)  { return n.sockets("inputs") }
func (n Node) Outputs() ([]Socket, error) { return n.sockets("outputs") }

func (n Node) sockets(field string) ([]Socket, error) {
	if !n.Valid() {
		return nil, nil
	}
	l, err := view.ListBaseOf(n.View, field, "bNodeSocket")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	out := make([]Socket, len(vs))
	for i, v := range vs {
		out[i] = Socket{View: v}
	}

	return out, err
}

// Input returns the input socket with the given identifier or, failing that, name.
func (n Node) Input(key string) (Socket, bool) {
	ins, _ := n.Inputs()
	return findSocket(ins, key)
}

// Output returns the output socket with the given identifier or name.
func (n Node) Output(key string) (Socket, bool) {
	outs, _ := n.Outputs()
	return findSocket(outs, key)
}

func findSocket(sockets []Socket, key string) (Socket, bool) {
	for _, s := range sockets {
		if s.Identifier() == key {
			return s, true
		}
	}
	for _, s := range sockets {
		if s.Name() == key {
			return s, true
		}
	}

	return Socket{}, false
}

// Data returns the datablock a node references, e.g. the image of a texture node.
// Nodes without one return an invalid view.
func (n Node) Data() (view.View, error) {
	if !n.HasField("id") {
		return view.View{}, nil
	}

	v, err := n.Pointer("id")

	return v.Concrete(), err
}

// Socket is a bNodeSocket.
type Socket struct {
	view.View
}

func (s Socket) Identifier() string { return s.Text("identifier") }
func (s Socket) Name() string       { return s.Text("name") }
func (s Socket) TypeName() string   { return s.Text("idname") }

// DefaultValue returns the value used when the socket is unconnected.
func (s Socket) DefaultValue() (Value, error) {
	v, err := s.Pointer("default_value")
	if err != nil || !v.Valid() {
		return Value{}, err
	}

	return valueOf(v), nil
}
