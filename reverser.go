package bchain

import (
	"sort"

	"github.com/advdv/bchain/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser keeps track of named patterns and  allows building URLS.
type Reverser struct {
	pats map[string]pathpattern.Pattern
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{make(map[string]pathpattern.Pattern)}
}

// Reverse reverses the named pattern into a url.
func (r Reverser) Reverse(name string, vals ...string) (string, error) {
	return r.reverse(pathpattern.Pattern{}, name, vals...)
}

func (r Reverser) reverse(prefix pathpattern.Pattern, name string, vals ...string) (string, error) {
	pat, ok := r.pats[name]
	if !ok {
		names := lo.Keys(r.pats)
		sort.Strings(names)

		return "", errors.Newf("no pattern named: %q, got: %v", name, names)
	}

	res, err := pathpattern.Build(pathpattern.Join(prefix, pat), vals...)
	if err != nil {
		return "", errors.Wrap(err, "failed to build")
	}

	return res, nil
}

// Named is a convenience method that panics if naming the pattern fails.
func (r Reverser) Named(name string, pat pathpattern.Pattern) {
	if err := r.NamedPattern(name, pat.String()); err != nil {
		panic("bchain: " + err.Error())
	}
}

// NamedPattern will parse 's' as a path pattern and store it under name.
func (r Reverser) NamedPattern(name, s string) error {
	if name == "" {
		return errors.New("empty pattern name")
	}

	if _, exists := r.pats[name]; exists {
		return errors.Newf("pattern with name %q already exists", name)
	}

	r.pats[name] = pathpattern.Parse(s)

	return nil
}
