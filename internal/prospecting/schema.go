// internal/prospecting/schema.go
package prospecting

// batchSchema validates the parsed model output before any record is
// trusted. A single invalid record fails the whole batch; this orchestrator
// never returns a partially-malformed result.
const batchSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["companyName", "websiteUrl", "contact", "needsAnalysis", "hireProbability"],
		"properties": {
			"companyName":   {"type": "string", "minLength": 1},
			"websiteUrl":    {"type": "string", "minLength": 1},
			"needsAnalysis": {"type": "string", "minLength": 1},
			"hireProbability": {"type": "number"},
			"contact": {
				"type": "object",
				"required": ["name", "title", "email"],
				"properties": {
					"name":  {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"email": {"type": "string", "minLength": 3}
				}
			}
		}
	}
}`
