package scoring

// Property is a JSON-Schema style field descriptor.
type Property struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Items       *SchemaItem `json:"items,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
}

type SchemaItem struct {
	Type string   `json:"type"`
	Enum []string `json:"enum,omitempty"`
}

// Schema is the compiled, read-only view of a question list that drives the
// form renderer. Required preserves question order.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// CompileSchema derives the form schema from an ordered question list.
// It is total over input that passed ValidateQuestions.
func CompileSchema(questions []Question) Schema {
	s := Schema{
		Type:       "object",
		Properties: make(map[string]Property, len(questions)),
		Required:   []string{},
	}

	for _, q := range questions {
		p := Property{Title: q.Title, Description: q.HelpText}

		switch q.Type {
		case TypeSelect, TypeRadio:
			p.Type = "string"
			p.Enum = append([]string(nil), q.Options...)
			p.Default = q.Options[0]
		case TypeMultiSelect, TypeCheckbox:
			p.Type = "array"
			p.Items = &SchemaItem{Type: "string", Enum: append([]string(nil), q.Options...)}
			p.Default = []string{}
		case TypeNumber:
			p.Type = "number"
			min := 0.0
			if q.Min != nil {
				min = *q.Min
			}
			p.Minimum = &min
		default:
			p.Type = "string"
		}

		s.Properties[q.ID] = p
		if q.Required {
			s.Required = append(s.Required, q.ID)
		}
	}

	return s
}

// RequiredSet returns the required ids as a set.
func (s Schema) RequiredSet() map[string]bool {
	set := make(map[string]bool, len(s.Required))
	for _, id := range s.Required {
		set[id] = true
	}
	return set
}
