package types

// Candidate is one generated or revised attempt at the requested field values.
// Iteration 0 is the initial draft; repairs create new Candidates with
// increasing iteration numbers, never mutating earlier ones.
type Candidate struct {
	Fields    map[string]string `json:"fields"`
	Iteration int               `json:"iteration"`
}

// Field returns the value for the given field key, or "" if absent.
func (c *Candidate) Field(key string) string {
	if c == nil {
		return ""
	}
	return c.Fields[key]
}

// Clone returns a deep copy of the candidate.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	fields := make(map[string]string, len(c.Fields))
	for k, v := range c.Fields {
		fields[k] = v
	}
	return &Candidate{Fields: fields, Iteration: c.Iteration}
}
