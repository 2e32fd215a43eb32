package commands

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Reserved names are shell builtins; no namespace or command may use them.
var Reserved = []string{"..", "/", "?", "exit", "quit", "help", "ls", "man"}

// BuildError reports a catalogue that cannot be turned into a tree.
type BuildError struct {
	Method string
	Msg    string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("method %s: %s", e.Method, e.Msg)
}

// rule is one row of the placement table.
type rule struct {
	variant Variant
	splice  int
	quiet   bool
}

// classify picks the command variant for a method.
func classify(kind schema.ServiceKind, m *schema.Method) rule {
	switch {
	case kind == schema.ServiceCRUD && m.ShortName() == "create":
		return rule{Create, 0, true}
	case kind == schema.ServiceCRUD && m.ShortName() == "update":
		return rule{Update, 1, true}
	case kind == schema.ServiceCRUD && m.ShortName() == "delete":
		return rule{Delete, NoSplice, true}
	case kind == schema.ServiceConfig && m.ShortName() == "update":
		return rule{ConfigUpdate, 0, true}
	case m.Filterable:
		return rule{Query, NoSplice, false}
	default:
		return rule{Call, NoSplice, false}
	}
}

// Build places every method of cat under its service's namespace and
// returns the root.
func Build(cat *schema.Catalogue) (*Namespace, error) {
	root := &Namespace{}
	for _, m := range cat.Methods {
		svc, ok := cat.Service(m)
		if !ok {
			return nil, &BuildError{Method: m.Name, Msg: fmt.Sprintf("unknown service %q", m.ServiceName())}
		}
		ns, err := place(root, svc, m)
		if err != nil {
			return nil, err
		}

		name := m.ShortName()
		if err := checkName(ns, m, name); err != nil {
			return nil, err
		}

		r := classify(svc.Kind, m)
		if r.splice != NoSplice && r.splice < len(m.Accepts) {
			if _, ok := m.Accepts[r.splice].(*schema.ObjectNode); !ok {
				return nil, &BuildError{Method: m.Name, Msg: fmt.Sprintf("argument %d (%s) must be an object", r.splice+1, m.Accepts[r.splice].Info().Name)}
			}
		}
		cmd := &Command{
			Name:         name,
			Method:       m,
			Variant:      r.variant,
			Splice:       r.splice,
			Quiet:        r.quiet,
			Parent:       ns,
			EditorMethod: m,
		}
		if r.variant == Update {
			em, err := schema.WithOptionalPayload(m, 1)
			if err != nil {
				return nil, &BuildError{Method: m.Name, Msg: err.Error()}
			}
			cmd.EditorMethod = em
		}
		ns.add(cmd)
	}
	return root, nil
}

// place finds or creates the namespace path of svc.
func place(root *Namespace, svc *schema.Service, m *schema.Method) (*Namespace, error) {
	if strings.TrimSpace(svc.Namespace) == "" {
		return nil, &BuildError{Method: m.Name, Msg: fmt.Sprintf("service %s has no namespace", svc.Name)}
	}
	ns := root
	for _, name := range strings.Split(svc.Namespace, ".") {
		if name == "" {
			return nil, &BuildError{Method: m.Name, Msg: fmt.Sprintf("invalid namespace %q", svc.Namespace)}
		}
		child, ok := ns.Lookup(name)
		if !ok {
			if err := checkName(ns, m, name); err != nil {
				return nil, err
			}
			next := &Namespace{Name: name, Parent: ns}
			ns.add(next)
			ns = next
			continue
		}
		next, isNS := child.(*Namespace)
		if !isNS {
			return nil, &BuildError{Method: m.Name, Msg: fmt.Sprintf("namespace %q conflicts with command %s", name, child.(*Command).Method.Name)}
		}
		ns = next
	}
	ns.Description = svc.Description
	return ns, nil
}

func checkName(ns *Namespace, m *schema.Method, name string) error {
	for _, r := range Reserved {
		if name == r {
			return &BuildError{Method: m.Name, Msg: fmt.Sprintf("name %q is reserved", name)}
		}
	}
	if _, exists := ns.Lookup(name); exists {
		return &BuildError{Method: m.Name, Msg: fmt.Sprintf("duplicate name %q in namespace %q", name, strings.Join(ns.Path(), " "))}
	}
	return nil
}
