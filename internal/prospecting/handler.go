// internal/prospecting/handler.go
package prospecting

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"prospector/internal/aijson"
	apperrors "prospector/internal/common/errors"
	"prospector/internal/common/genai"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
	"prospector/internal/models"
)

// Handler turns a (service, sector, location) triple into a prompt, runs the
// grounded AI search and maps the response into typed prospect records. The
// caller decides whether to persist the batch.
type Handler struct {
	config    *Config
	generator genai.Generator
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

func NewHandler(config *Config, gen genai.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: gen,
		logger:    log.With(map[string]interface{}{"component": "prospecting"}),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Execute runs one search. Validation failures are reported immediately; a
// malformed response or any invalid record fails the batch as a whole.
func (h *Handler) Execute(ctx context.Context, input *Input) ([]models.Prospect, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	prompt := h.buildPrompt(input)
	raw, err := h.generator.GenerateText(ctx, genai.Request{
		Prompt:   prompt,
		Grounded: true,
	})
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("collaborator_error").Inc()
		return nil, apperrors.NewCollaboratorUnavailableError("genai", err)
	}

	batch, err := h.parseBatch(raw, input)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	// Stable sort keeps input order for equal probabilities.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].HireProbability > batch[j].HireProbability
	})

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	metrics.ProspectsReturned.Observe(float64(len(batch)))
	h.logger.Info("search completed", map[string]interface{}{
		"sector":    input.Sector,
		"location":  input.Location,
		"prospects": len(batch),
	})

	return batch, nil
}

func (h *Handler) validate(input *Input) error {
	var missing []string
	if strings.TrimSpace(input.Service.Name) == "" {
		missing = append(missing, "service")
	}
	if strings.TrimSpace(input.Sector) == "" {
		missing = append(missing, "sector")
	}
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing: " + strings.Join(missing, ", "))
	}
	return nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(
		"Busca %d clientes potenciales. Tu objetivo es encontrar empresas reales y activas del sector '%s' en '%s' que se beneficiarían de mi servicio: '%s'.",
		h.config.ResultTarget, input.Sector, input.Location, input.Service.Name))

	parts = append(parts,
		"Para cada empresa, utiliza Google Search para buscar en LinkedIn y encontrar el perfil de un gerente, director o un tomador de decisiones relevante. Es CRÍTICO que obtengas la dirección de correo electrónico de contacto de esta persona. Incluye únicamente empresas para las que encuentres ese email.")

	if h.config.MinProbability > 0 {
		parts = append(parts, fmt.Sprintf(
			"Incluye únicamente empresas cuya probabilidad de contratación estimes por encima de %d.",
			h.config.MinProbability))
	}

	parts = append(parts,
		"Devuelve los resultados únicamente como un array JSON válido, sin ningún otro texto o explicación. La estructura de cada objeto debe ser la siguiente:",
		`{
  "companyName": "string",
  "websiteUrl": "string (URL del sitio web de la empresa)",
  "contact": {
    "name": "string (Nombre completo del gerente o director encontrado)",
    "title": "string (Cargo exacto del contacto, ej: 'Gerente de Marketing')",
    "email": "string (Email de contacto VÁLIDO Y OBLIGATORIO)"
  },
  "needsAnalysis": "string (Análisis breve y específico de por qué esta empresa necesitaría el servicio '`+input.Service.Name+`')",
  "hireProbability": "number (0-100, probabilidad estimada de contratación)"
}`,
		"Asegúrate de que la respuesta sea un JSON puro. No incluyas marcadores como ```json.")

	return strings.Join(parts, "\n\n")
}

// parseBatch extracts, schema-validates and types the model output, then
// assigns ids and timestamps and clamps probabilities.
func (h *Handler) parseBatch(raw string, input *Input) ([]models.Prospect, error) {
	extracted, err := aijson.ExtractArray(raw)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(batchSchema),
		gojsonschema.NewBytesLoader(extracted),
	)
	if err != nil {
		return nil, apperrors.NewMalformedAIResponseError("schema validation errored: "+err.Error(), raw)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, apperrors.NewMalformedAIResponseError(
			"records failed validation: "+strings.Join(issues, "; "), raw)
	}

	var records []record
	if err := json.Unmarshal(extracted, &records); err != nil {
		return nil, apperrors.NewMalformedAIResponseError("decode failed: "+err.Error(), raw)
	}

	added := h.now().UTC()
	batch := make([]models.Prospect, 0, len(records))
	for _, rec := range records {
		p := models.Prospect{
			ID:              h.newID(),
			CompanyName:     rec.CompanyName,
			WebsiteURL:      rec.WebsiteURL,
			Contact:         rec.Contact,
			NeedsAnalysis:   rec.NeedsAnalysis,
			HireProbability: int(math.Round(rec.HireProbability)),
			Sector:          input.Sector,
			Location:        input.Location,
			DateAdded:       added,
		}
		p.ClampProbability()
		batch = append(batch, p)
	}
	return batch, nil
}
