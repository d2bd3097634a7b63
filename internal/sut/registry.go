package sut

import "fmt"

// Registry is the fixed, ordered set of SUTs for a run. It is immutable
// after construction; output columns follow registry order.
type Registry struct {
	order []string
	byUID map[string]SUT
}

func NewRegistry(suts ...SUT) (*Registry, error) {
	if len(suts) == 0 {
		return nil, fmt.Errorf("no SUTs given")
	}
	r := &Registry{byUID: make(map[string]SUT, len(suts))}
	for _, s := range suts {
		uid := s.UID()
		if uid == "" {
			return nil, fmt.Errorf("SUT with empty uid")
		}
		if _, ok := r.byUID[uid]; ok {
			return nil, fmt.Errorf("duplicate SUT uid %q", uid)
		}
		r.order = append(r.order, uid)
		r.byUID[uid] = s
	}
	return r, nil
}

// UIDs returns the SUT uids in configured order. The caller must not
// modify the returned slice.
func (r *Registry) UIDs() []string {
	return r.order
}

func (r *Registry) Get(uid string) (SUT, bool) {
	s, ok := r.byUID[uid]
	return s, ok
}

func (r *Registry) Len() int {
	return len(r.order)
}
