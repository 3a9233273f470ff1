package matcher

// Children returns the direct sub-matchers of m. References are leaves.
func Children(m Matcher) []Matcher {
	switch m := m.(type) {
	case *Sequence:
		return m.Items
	case *Alternate:
		return m.Options
	case *Subset:
		return m.Set
	case *Repeat:
		return []Matcher{m.Inner}
	case *Container:
		return []Matcher{m.Contents}
	case *Call:
		return []Matcher{m.Params}
	case *CaptureConst:
		return nonNil(m.Inner)
	case *CaptureContext:
		return nonNil(m.Inner)
	case *CaptureArray:
		return []Matcher{m.Inner}
	case *CaptureObject:
		return []Matcher{m.Inner}
	case *CaptureNamed:
		return []Matcher{m.Inner}
	case *CaptureTransform:
		return []Matcher{m.Inner}
	case *CaptureReduce:
		return []Matcher{m.Inner}
	case *CaptureUnit:
		return []Matcher{m.Inner}
	case *CaptureContent:
		return []Matcher{m.Inner}
	}
	return nil
}

func nonNil(m Matcher) []Matcher {
	if m == nil {
		return nil
	}
	return []Matcher{m}
}

// withChildren returns a shallow copy of m with its sub-matchers replaced.
// children must have the shape returned by Children(m).
func withChildren(m Matcher, children []Matcher) Matcher {
	first := func() Matcher {
		if len(children) == 0 {
			return nil
		}
		return children[0]
	}
	switch m := m.(type) {
	case *Sequence:
		return &Sequence{Items: children}
	case *Alternate:
		return &Alternate{Options: children}
	case *Subset:
		return &Subset{Set: children, Min: m.Min, Max: m.Max}
	case *Repeat:
		return &Repeat{Inner: first(), Min: m.Min, Max: m.Max}
	case *Container:
		return &Container{Type: m.Type, Contents: first()}
	case *Call:
		return &Call{Name: m.Name, Params: first()}
	case *CaptureConst:
		return &CaptureConst{Value: m.Value, Inner: first()}
	case *CaptureContext:
		return &CaptureContext{Inner: first()}
	case *CaptureArray:
		return &CaptureArray{Inner: first()}
	case *CaptureObject:
		return &CaptureObject{Inner: first()}
	case *CaptureNamed:
		return &CaptureNamed{Name: m.Name, Inner: first()}
	case *CaptureTransform:
		return &CaptureTransform{Inner: first(), Fn: m.Fn}
	case *CaptureReduce:
		return &CaptureReduce{Inner: first(), Seed: m.Seed, Fn: m.Fn}
	case *CaptureUnit:
		return &CaptureUnit{Inner: first()}
	case *CaptureContent:
		return &CaptureContent{Inner: first()}
	}
	return m
}

// Walk visits m and its descendants in pre-order. Returning false from
// visit skips the children of that node. References are not followed.
func Walk(m Matcher, visit func(Matcher) bool) {
	if m == nil || !visit(m) {
		return
	}
	for _, child := range Children(m) {
		Walk(child, visit)
	}
}

// Rewrite rebuilds m bottom-up, replacing every node by fn of the node
// with its rewritten children. Nodes are copied only when a child changed.
func Rewrite(m Matcher, fn func(Matcher) (Matcher, error)) (Matcher, error) {
	children := Children(m)
	if len(children) > 0 {
		rewritten := make([]Matcher, len(children))
		changed := false
		for i, child := range children {
			r, err := Rewrite(child, fn)
			if err != nil {
				return nil, err
			}
			rewritten[i] = r
			changed = changed || r != child
		}
		if changed {
			m = withChildren(m, rewritten)
		}
	}
	return fn(m)
}
