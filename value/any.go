package value

import "fmt"

// AnyObject is the opaque "any host object" escape hatch named in spec.md
// §2.1: it lets host-side Go values cross into the value domain without
// the core dispatch machinery needing to know their concrete type.
//
// A wrapped value may opt into attribute access by implementing
// hasAttrsHost; AnyObject itself only adapts that optional host interface
// to the value package's HasAttrs contract (there is no metamethod
// adapter), grounded on the teacher's lang/machine/value.go
// pattern of small, optional capability interfaces.
type AnyObject struct {
	Val      any
	TypeName string
}

var (
	_ Value    = (*AnyObject)(nil)
	_ HasAttrs = (*AnyObject)(nil)
)

// hasAttrsHost is the optional interface a wrapped host value may
// implement to support x.attr reads through an AnyObject.
type hasAttrsHost interface {
	Attr(name string) (Value, error)
	AttrNames() []string
}

func NewAnyObject(v any, typeName string) *AnyObject {
	return &AnyObject{Val: v, TypeName: typeName}
}

func (a *AnyObject) String() string { return fmt.Sprintf("#<%s %v>", a.TypeName, a.Val) }
func (a *AnyObject) Type() string   { return a.TypeName }

func (a *AnyObject) Attr(name string) (Value, error) {
	if h, ok := a.Val.(hasAttrsHost); ok {
		return h.Attr(name)
	}
	return nil, NoSuchAttrError(name)
}

func (a *AnyObject) AttrNames() []string {
	if h, ok := a.Val.(hasAttrsHost); ok {
		return h.AttrNames()
	}
	return nil
}
