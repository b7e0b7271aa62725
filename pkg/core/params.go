package core

import (
	"fmt"
	"strings"
)

// Parameter is one positional value with the type it binds as.
type Parameter struct {
	Value any
	Type  DataType
}

// Parameters collects positional parameters in placeholder order.
type Parameters struct {
	list []Parameter
}

// Add appends a parameter.
func (p *Parameters) Add(value any, typ DataType) {
	p.list = append(p.list, Parameter{Value: value, Type: typ})
}

// Len returns the number of collected parameters.
func (p *Parameters) Len() int { return len(p.list) }

// List returns a copy of the collected parameters.
func (p *Parameters) List() []Parameter {
	out := make([]Parameter, len(p.list))
	copy(out, p.list)
	return out
}

// Values returns the raw parameter values, unbound.
func (p *Parameters) Values() []any {
	out := make([]any, len(p.list))
	for i, param := range p.list {
		out[i] = param.Value
	}
	return out
}

// Bind converts every value through its data type into driver arguments.
func (p *Parameters) Bind() ([]any, error) {
	args := make([]any, len(p.list))
	for i, param := range p.list {
		v, err := param.Type.Bind(param.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to bind parameter %d: %w", i+1, err)
		}
		args[i] = v
	}
	return args, nil
}

// String renders the parameters for logs, e.g. ["u1", 3, null].
func (p *Parameters) String() string {
	parts := make([]string, len(p.list))
	for i, param := range p.list {
		if s, ok := param.Value.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
			continue
		}
		parts[i] = param.Type.Format(param.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
