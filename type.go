package trackable

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const tagName = "attr"

// TypeConfig controls registration of a model type.
type TypeConfig struct {
	Logger *zap.Logger // default: zap.NewNop()
	Strict bool        // fail registration instead of skipping attributes that cannot be tracked
}

// Attribute describes a persisted attribute declared with an `attr` tag.
type Attribute struct {
	Name     string // payload key and column name
	Field    string // Go struct field name
	Setter   string // setter method name on the model pointer
	Kind     Kind   // zero when the attribute is not tracked
	ReadOnly bool
	Tracked  bool

	index []int
}

// Type holds the class-level tracking state of the model type M.
type Type[M any] struct {
	name   string
	table  string
	rtype  reflect.Type
	logger *zap.Logger

	attrs     []Attribute
	byName    map[string]int
	originals map[string]reflect.Value // setters before interception
	setters   map[string]*setter[M]
}

var registry = struct {
	mu    sync.Mutex
	types map[reflect.Type]any
}{types: map[reflect.Type]any{}}

// Register installs dirty tracking on every declared attribute of M.
// Registering M again returns the existing Type and ignores cfg.
//
// A declared attribute is an exported field of M (or of a struct embedded in M)
// tagged `attr:"name"`. Its setter is the method Set<Field> on *M unless the tag
// names another with `setter=<Method>`. Attributes without a setter, or tagged
// `readonly`, are not tracked.
func Register[M any](cfg TypeConfig) (*Type[M], error) {
	rt := reflect.TypeFor[M]()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if t, ok := registry.types[rt]; ok {
		return t.(*Type[M]), nil
	}

	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrNotTrackable, rt)
	}
	if !reflect.PointerTo(rt).Implements(trackerType) {
		return nil, fmt.Errorf("%w: %v", ErrNotTrackable, rt)
	}
	// New allocates a zero M, so the tracker must not sit behind a nil pointer.
	for _, f := range reflect.VisibleFields(rt) {
		if f.Anonymous && f.Type.Kind() == reflect.Pointer && f.Type.Implements(trackerType) {
			return nil, fmt.Errorf("%w: %v embeds %v by pointer", ErrNotTrackable, rt, f.Type)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	table, err := resolveTableName(rt)
	if err != nil {
		return nil, err
	}

	t := &Type[M]{
		name:      rt.String(),
		table:     table,
		rtype:     rt,
		logger:    cfg.Logger.With(zap.String("model", rt.String())),
		attrs:     declaredAttributes(rt),
		originals: map[string]reflect.Value{},
		setters:   map[string]*setter[M]{},
	}
	t.byName = make(map[string]int, len(t.attrs))
	for i, a := range t.attrs {
		t.byName[a.Name] = i
	}
	if err := t.installTrackingForAllDeclaredAttributes(cfg.Strict); err != nil {
		return nil, err
	}
	registry.types[rt] = t
	return t, nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level variables.
func MustRegister[M any](cfg TypeConfig) *Type[M] {
	t, err := Register[M](cfg)
	if err != nil {
		panic(err)
	}
	return t
}

var trackerType = reflect.TypeFor[Tracker]()

func declaredAttributes(rt reflect.Type) []Attribute {
	var attrs []Attribute
	seen := map[string]bool{}
	for _, f := range reflect.VisibleFields(rt) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		a, ok := parseTag(f, tag)
		if !ok || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		attrs = append(attrs, a)
	}
	return attrs
}

func parseTag(f reflect.StructField, tag string) (Attribute, bool) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" || name == "-" {
		return Attribute{}, false
	}
	a := Attribute{Name: name, Field: f.Name, Setter: "Set" + f.Name, index: f.Index}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "readonly":
			a.ReadOnly = true
		case strings.HasPrefix(opt, "setter="):
			a.Setter = strings.TrimPrefix(opt, "setter=")
		}
	}
	return a, true
}

func (t *Type[M]) installTrackingForAllDeclaredAttributes(strict bool) error {
	for i := range t.attrs {
		if t.attrs[i].Name == "" {
			continue
		}
		if err := t.installTrackingForAttribute(i, strict); err != nil {
			return err
		}
	}
	return nil
}

func (t *Type[M]) installTrackingForAttribute(i int, strict bool) error {
	a := &t.attrs[i]
	if _, ok := t.setters[a.Name]; ok {
		return nil
	}
	if a.ReadOnly {
		return nil
	}
	method, ok := reflect.PointerTo(t.rtype).MethodByName(a.Setter)
	if !ok {
		a.ReadOnly = true
		return nil
	}

	mt := method.Type // receiver is In(0)
	if mt.NumIn() != 2 || mt.IsVariadic() || !simpleResult(mt) {
		return t.skip(strict, a, fmt.Errorf("%w: %s.%s has type %v", ErrSetterSignature, t.name, a.Setter, mt))
	}
	kind, ok := KindOf(mt.In(1))
	if !ok {
		return t.skip(strict, a, fmt.Errorf("%w: %s.%s takes %v", ErrUnsupportedKind, t.name, a.Setter, mt.In(1)))
	}
	s, ok := intercept[M](kind, a.Name, method.Func)
	if !ok {
		return t.skip(strict, a, fmt.Errorf("%w: %s.%s kind %v", ErrUnsupportedKind, t.name, a.Setter, kind))
	}

	t.originals[a.Name] = method.Func
	t.setters[a.Name] = s
	a.Kind = kind
	a.Tracked = true
	return nil
}

func (t *Type[M]) skip(strict bool, a *Attribute, err error) error {
	if strict {
		return err
	}
	t.logger.Debug("attribute not tracked", zap.String("attribute", a.Name), zap.Error(err))
	return nil
}

var errorType = reflect.TypeFor[error]()

func simpleResult(mt reflect.Type) bool {
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	default:
		return false
	}
}

// Name returns the Go type name of M.
func (t *Type[M]) Name() string {
	return t.name
}

// TableName returns the table the model persists to.
func (t *Type[M]) TableName() string {
	return t.table
}

// Attributes returns the declared attributes in field order.
func (t *Type[M]) Attributes() []Attribute {
	return slices.Clone(t.attrs)
}

// Tracked reports whether assignments to name are tracked.
func (t *Type[M]) Tracked(name string) bool {
	_, ok := t.setters[name]
	return ok
}

// Set assigns v to the attribute name of m through its tracked setter.
// v must be assignable to the setter's parameter or share its category.
func (t *Type[M]) Set(m *M, name string, v any) error {
	s, ok := t.setters[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNotTracked, t.name, name)
	}
	return s.assign(m, v)
}

// Setter returns the tracked setter of name as a typed function.
// T must be the category's Go type (e.g. int32) or the setter's exact parameter type.
func Setter[T, M any](t *Type[M], name string) (func(*M, T) error, error) {
	s, ok := t.setters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotTracked, t.name, name)
	}
	if f, ok := s.typed.(func(*M, T) error); ok {
		return f, nil
	}
	if reflect.TypeFor[T]() != s.param {
		return nil, fmt.Errorf("%w: %s wants %s, got %s", ErrTypeMismatch, name, s.param, reflect.TypeFor[T]())
	}
	return func(m *M, v T) error {
		return s.call(m, reflect.ValueOf(&v).Elem())
	}, nil
}
