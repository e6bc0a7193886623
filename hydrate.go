package trackable

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Payload is a decoded, loosely typed object (e.g. the result of unmarshaling
// a JSON object into map[string]any).
type Payload map[string]any

// Null is an explicit "no object" marker. NewOrNil returns nil for it.
var Null = null{}

type null struct{}

// Hydrator is implemented by models that map payload keys beyond what the
// `attr` tags decode. Hydrate runs after tag decoding and before the instance
// is marked clean.
type Hydrator interface {
	Hydrate(p Payload) error
}

// New creates an instance of M hydrated from p and marked clean.
// A nil payload yields an instance with zero values.
func (t *Type[M]) New(p Payload) (*M, error) {
	m := new(M)
	if err := t.hydrate(m, p); err != nil {
		return nil, err
	}
	any(m).(Tracker).MarkClean()
	return m, nil
}

// NewMany creates one instance per payload, in order. onEach, if non-nil, is
// called with each instance once it is hydrated and clean, before the next
// payload is processed.
func (t *Type[M]) NewMany(ps []Payload, onEach func(*M)) ([]*M, error) {
	out := make([]*M, 0, len(ps))
	for i, p := range ps {
		m, err := t.New(p)
		if err != nil {
			return nil, fmt.Errorf("trackable: payload %d: %w", i, err)
		}
		out = append(out, m)
		if onEach != nil {
			onEach(m)
		}
	}
	return out, nil
}

// NewOrNil is like New but returns nil for an absent payload or Null.
func (t *Type[M]) NewOrNil(v any) (*M, error) {
	switch p := v.(type) {
	case nil, null:
		return nil, nil
	case Payload:
		if p == nil {
			return nil, nil
		}
		return t.New(p)
	case map[string]any:
		if p == nil {
			return nil, nil
		}
		return t.New(p)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidPayload, v)
	}
}

func (t *Type[M]) hydrate(m *M, p Payload) error {
	if p == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           m,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("trackable: failed to hydrate %s: %w", t.name, err)
	}
	if h, ok := any(m).(Hydrator); ok {
		if err := h.Hydrate(p); err != nil {
			return fmt.Errorf("trackable: failed to hydrate %s: %w", t.name, err)
		}
	}
	return nil
}

// Changes returns the current values of m's dirty attributes keyed by
// attribute name. Dirty names without a declared field are omitted.
func (t *Type[M]) Changes(m *M) map[string]any {
	names := any(m).(Tracker).DirtyAttributes()
	rv := reflect.ValueOf(m).Elem()
	out := make(map[string]any, len(names))
	for _, name := range names {
		i, ok := t.byName[name]
		if !ok {
			continue
		}
		f, err := rv.FieldByIndexErr(t.attrs[i].index)
		if err != nil {
			continue // nil embedded pointer
		}
		out[name] = f.Interface()
	}
	return out
}
