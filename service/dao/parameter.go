package dao

// Parameter narrows a List call. Value holds a string or a []string.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter returns a parameter matching any of values.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns the accepted values, nil for an unsupported Value type.
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
