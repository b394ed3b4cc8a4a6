package admin

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
)

// Registry indexes the administrable resources by key.
type Registry struct {
	ordered []*Resource
	byKey   map[string]*Resource
}

// NewRegistry validates and indexes resources. Keys must be unique and every
// parent or reference must point at a registered resource.
func NewRegistry(resources ...*Resource) (*Registry, error) {
	registry := &Registry{byKey: make(map[string]*Resource, len(resources))}
	for _, res := range resources {
		if res.Key == "" || res.Table == "" {
			return nil, eris.New("resource key and table are required")
		}
		if _, exists := registry.byKey[res.Key]; exists {
			return nil, eris.Errorf("duplicate resource key %q", res.Key)
		}
		if res.newRecord == nil {
			return nil, eris.Errorf("resource %q has no model", res.Key)
		}
		registry.byKey[res.Key] = res
		registry.ordered = append(registry.ordered, res)
	}

	for _, res := range registry.ordered {
		if res.Parent != nil {
			if _, ok := registry.byKey[res.Parent.Resource]; !ok {
				return nil, eris.Errorf("resource %q has unknown parent %q", res.Key, res.Parent.Resource)
			}
			if _, ok := res.Field(res.Parent.Field); !ok {
				return nil, eris.Errorf("resource %q has no parent field %q", res.Key, res.Parent.Field)
			}
		}
		for _, field := range res.Fields {
			if field.Kind != KindRef {
				continue
			}
			if _, ok := registry.byKey[field.Ref]; !ok {
				return nil, eris.Errorf("field %s.%s references unknown resource %q", res.Key, field.Key, field.Ref)
			}
		}
	}

	return registry, nil
}

// MustRegistry is NewRegistry for static resource tables.
func MustRegistry(resources ...*Resource) *Registry {
	registry, err := NewRegistry(resources...)
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the resource registered under key.
func (r *Registry) Get(key string) (*Resource, error) {
	res, ok := r.byKey[key]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownResource, "resource %q", key)
	}
	return res, nil
}

// All returns the resources in registration order.
func (r *Registry) All() []*Resource {
	out := make([]*Resource, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// TopLevel returns the resources that have their own list screen entry.
func (r *Registry) TopLevel() []*Resource {
	var out []*Resource
	for _, res := range r.ordered {
		if res.Parent == nil {
			out = append(out, res)
		}
	}
	return out
}

// Children returns the resources edited inline under key.
func (r *Registry) Children(key string) []*Resource {
	var out []*Resource
	for _, res := range r.ordered {
		if res.Parent != nil && res.Parent.Resource == key {
			out = append(out, res)
		}
	}
	return out
}

func idString(value any) string {
	switch v := value.(type) {
	case nil:
		return "?"
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
