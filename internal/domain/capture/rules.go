package capture

// rule is one named alternative in an ordered precedence chain.
type rule[In, Out any] struct {
	name  string
	match func(In) (Out, bool)
}

// firstMatch evaluates rules in order and returns the result of the first one
// that matches, along with its name. ok is false when nothing matched.
func firstMatch[In, Out any](rules []rule[In, Out], in In) (out Out, name string, ok bool) {
	for _, r := range rules {
		if v, matched := r.match(in); matched {
			return v, r.name, true
		}
	}
	return out, "", false
}
