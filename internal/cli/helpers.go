package cli

import (
	"fmt"
	"strings"
)

const (
	SubmissionKind = "submission"
	EmployerKind   = "employer"
)

var pluralKinds = map[string]string{
	SubmissionKind: "submissions",
	EmployerKind:   "employers",
}

// resource is a KIND or KIND/ID command argument. Plural kinds are accepted.
type resource struct {
	Kind string
	ID   string
}

func parseResource(arg string) (resource, error) {
	kind, id, _ := strings.Cut(arg, "/")
	for singular, plural := range pluralKinds {
		if kind == plural {
			kind = singular
		}
	}
	if _, ok := pluralKinds[kind]; !ok {
		return resource{}, fmt.Errorf("invalid resource kind: %s", kind)
	}
	return resource{Kind: kind, ID: id}, nil
}

func (r resource) String() string {
	if r.ID == "" {
		return r.plural()
	}
	return r.Kind + "/" + r.ID
}

func (r resource) plural() string {
	return pluralKinds[r.Kind]
}

// expect checks the kind and, when withID is set, that an id was given.
func (r resource) expect(kind string, withID bool) error {
	if r.Kind != kind {
		return fmt.Errorf("unsupported resource kind: %s", r.Kind)
	}
	if withID && r.ID == "" {
		return fmt.Errorf("%s id is required, use %s/ID", r.Kind, r.Kind)
	}
	return nil
}
