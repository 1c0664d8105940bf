package utils

// document carries both renderings of the listing text. Most rules look at
// flat; a few need the line structure of raw.
type document struct {
	raw  string
	flat string
}

func newDocument(text string) *document {
	return &document{raw: text, flat: Flatten(text)}
}

// rule is one extraction strategy for a field. ok=false means "no match",
// never an error.
type rule[T any] func(doc *document) (T, bool)

// firstMatch evaluates rules in priority order and returns the first hit.
func firstMatch[T any](doc *document, rules ...rule[T]) (T, bool) {
	for _, r := range rules {
		if v, ok := attempt(doc, r); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// attempt runs a single rule. A panicking rule counts as a miss so one broken
// field never takes the rest of the listing down with it.
func attempt[T any](doc *document, r rule[T]) (v T, ok bool) {
	defer func() {
		if recover() != nil {
			var zero T
			v, ok = zero, false
		}
	}()
	return r(doc)
}

// guarded runs fn and reports a miss if it panics.
func guarded[T any](fn func() T) (v T, ok bool) {
	defer func() {
		if recover() != nil {
			var zero T
			v, ok = zero, false
		}
	}()
	return fn(), true
}

func ptr[T any](v T) *T {
	return &v
}
