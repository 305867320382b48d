package value

import "fmt"

// Class is a mutable namespace: a method table, a constant table, a
// superclass link, and a lazily-created singleton class for "class
// methods" (definesmethod). Setting IsModule marks it as a module rather
// than a class, per spec.md's value-domain list ("classes/modules").
type Class struct {
	NameV     string
	Super     *Class
	IsModule  bool
	Methods   map[Symbol]*Method
	Constants map[string]Value
	ClassVars map[Symbol]Value

	singleton *Class
	metamap   *Hash
}

var (
	_ Value       = (*Class)(nil)
	_ HasAttrs    = (*Class)(nil)
	_ HasMetamap  = (*Class)(nil)
)

// NewClass returns a new class named name, subclassing super (nil for
// Object/BasicObject-equivalent roots).
func NewClass(name string, super *Class) *Class {
	return &Class{
		NameV:     name,
		Super:     super,
		Methods:   make(map[Symbol]*Method),
		Constants: make(map[string]Value),
		ClassVars: make(map[Symbol]Value),
	}
}

func (c *Class) String() string { return c.NameV }
func (c *Class) Type() string {
	if c.IsModule {
		return "Module"
	}
	return "Class"
}

// Singleton returns (creating if necessary) this class's singleton class,
// the home of methods defined via definesmethod on this class object.
func (c *Class) Singleton() *Class {
	if c.singleton == nil {
		c.singleton = NewClass("#<Class:"+c.NameV+">", c.Super)
	}
	return c.singleton
}

// LookupMethod resolves name by walking from c up the superclass chain,
// consulting the singleton class first so definesmethod-defined methods
// take precedence, as in the reference method-resolution order.
func (c *Class) LookupMethod(name Symbol) (*Method, *Class) {
	if c.singleton != nil {
		if m, found := c.singleton.Methods[name]; found {
			return m, c.singleton
		}
	}
	for k := c; k != nil; k = k.Super {
		if m, found := k.Methods[name]; found {
			return m, k
		}
	}
	return nil, nil
}

// LookupClassVar resolves a class variable by walking the superclass
// chain, per spec.md §4.7's description of getclassvariable.
func (c *Class) LookupClassVar(name Symbol) (Value, bool) {
	for k := c; k != nil; k = k.Super {
		if v, found := k.ClassVars[name]; found {
			return v, true
		}
	}
	return nil, false
}

func (c *Class) Attr(name string) (Value, error) {
	if v, ok := c.Constants[name]; ok {
		return v, nil
	}
	return nil, nil
}

func (c *Class) AttrNames() []string {
	names := make([]string, 0, len(c.Constants))
	for n := range c.Constants {
		names = append(names, n)
	}
	return names
}

func (c *Class) Metamap() *Hash      { return c.metamap }
func (c *Class) SetMetamap(m *Hash)  { c.metamap = m }

// Object is an instance of a Class: an instance-variable table plus a
// pointer to its class.
type Object struct {
	Class *Class
	IVars map[Symbol]Value
}

var (
	_ Value        = (*Object)(nil)
	_ HasAttrs     = (*Object)(nil)
	_ HasSetField  = (*Object)(nil)
)

func NewObject(class *Class) *Object {
	return &Object{Class: class, IVars: make(map[Symbol]Value)}
}

func (o *Object) String() string {
	return fmt.Sprintf("#<%s>", o.Class.NameV)
}
func (o *Object) Type() string { return o.Class.NameV }

func (o *Object) Attr(name string) (Value, error) {
	if v, ok := o.IVars[Symbol(name)]; ok {
		return v, nil
	}
	if m, _ := o.Class.LookupMethod(Symbol(name)); m != nil {
		return m, nil
	}
	return nil, nil
}

func (o *Object) SetField(name string, v Value) error {
	o.IVars[Symbol(name)] = v
	return nil
}

// GetIVar/SetIVar give the getinstancevariable/setinstancevariable opcodes
// direct, attribute-protocol-free access to instance state.
func (o *Object) GetIVar(name Symbol) Value {
	if v, ok := o.IVars[name]; ok {
		return v
	}
	return Nil
}

func (o *Object) SetIVar(name Symbol, v Value) { o.IVars[name] = v }
