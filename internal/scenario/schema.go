package scenario

import "github.com/invopop/jsonschema"

// Schema reflects the Scenario struct into a JSON Schema document, the same
// way the pack's gascity cmd/genschema publishes a reflected schema as
// documentation for a hand-validated format. It is published contract for
// scenario authors (see "cityflux schema"); it is not consulted at runtime —
// ParseAndValidate enforces the format directly with hand-written checks,
// since the corpus carries no runtime JSON-schema instance validator to run
// a document against a *jsonschema.Schema.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	s := r.Reflect(&Scenario{})
	s.Title = "Scenario"
	s.Description = "A named diff over baseline city assets: POIs to add or update, plus need-bias tags."
	return s
}
