// internal/outreach/handler.go
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"prospector/internal/aijson"
	apperrors "prospector/internal/common/errors"
	"prospector/internal/common/genai"
	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
	"prospector/internal/mailbox"
	"prospector/internal/models"
	"prospector/internal/repository"
)

// Handler drafts outreach emails with the AI collaborator and records every
// success in the repository as it completes, so a crash mid-batch loses only
// the unprocessed tail.
type Handler struct {
	config    *Config
	generator genai.Generator
	repo      *repository.Repository
	drafts    mailbox.DraftCreator // nil when no mailbox is connected
	logger    logger.Logger
}

func NewHandler(config *Config, gen genai.Generator, repo *repository.Repository, drafts mailbox.DraftCreator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: gen,
		repo:      repo,
		drafts:    drafts,
		logger:    log.With(map[string]interface{}{"component": "outreach"}),
	}
}

// DraftEmail generates one subject/body pair for a prospect. The collaborator
// runs without search grounding; the reply must be a JSON object with exactly
// the subject and body keys.
func (h *Handler) DraftEmail(ctx context.Context, prospect models.Prospect, service models.Service, profile models.Profile) (*Draft, error) {
	if !profile.IsComplete() {
		return nil, apperrors.NewValidationError("profile name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	raw, err := h.generator.GenerateText(ctx, genai.Request{
		Prompt: h.buildPrompt(prospect, service, profile),
	})
	if err != nil {
		return nil, apperrors.NewCollaboratorUnavailableError("genai", err)
	}

	extracted, err := aijson.ExtractObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(extracted, &fields); err != nil {
		return nil, apperrors.NewMalformedAIResponseError("decode failed: "+err.Error(), raw)
	}
	if _, ok := fields["subject"]; !ok {
		return nil, apperrors.NewMalformedAIResponseError("missing subject key", raw)
	}
	if _, ok := fields["body"]; !ok {
		return nil, apperrors.NewMalformedAIResponseError("missing body key", raw)
	}
	if len(fields) != 2 {
		return nil, apperrors.NewMalformedAIResponseError("object must have exactly subject and body keys", raw)
	}

	var draft Draft
	if err := json.Unmarshal(extracted, &draft); err != nil {
		return nil, apperrors.NewMalformedAIResponseError("decode failed: "+err.Error(), raw)
	}
	if draft.Subject == "" || draft.Body == "" {
		return nil, apperrors.NewMalformedAIResponseError("empty subject or body", raw)
	}
	return &draft, nil
}

// DraftBatch generates emails for every prospect. Items run in input order;
// one failing prospect never aborts the batch, it is counted and skipped.
// Each success is pushed to the connected mailbox (when present) and then
// persisted before the summary advances. Cancellation is honored between
// items: iterations already dispatched still finish and persist.
func (h *Handler) DraftBatch(ctx context.Context, prospects []models.Prospect, service models.Service, profile models.Profile, onProgress ProgressFunc) (*BatchSummary, error) {
	if !profile.IsComplete() {
		return nil, apperrors.NewValidationError("profile name is required")
	}
	if onProgress == nil {
		onProgress = func(string) {}
	}

	summary := &BatchSummary{Total: len(prospects)}
	if len(prospects) == 0 {
		return summary, nil
	}

	if h.config.Concurrency > 1 {
		h.runBounded(ctx, prospects, service, profile, onProgress, summary)
	} else {
		h.runSequential(ctx, prospects, service, profile, onProgress, summary)
	}

	onProgress(fmt.Sprintf("%d de %d emails generados y guardados. %d fallaron.",
		summary.Succeeded, summary.Total, summary.Failed))
	h.logger.Info("batch drafting finished", map[string]interface{}{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"total":     summary.Total,
	})
	return summary, nil
}

func (h *Handler) runSequential(ctx context.Context, prospects []models.Prospect, service models.Service, profile models.Profile, onProgress ProgressFunc, summary *BatchSummary) {
	for i, prospect := range prospects {
		if ctx.Err() != nil {
			summary.Failed += len(prospects) - i
			return
		}

		onProgress(fmt.Sprintf("Generando email %d de %d para %s...",
			i+1, len(prospects), prospect.CompanyName))

		if h.draftOne(ctx, prospect, service, profile) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
}

// runBounded is the opt-in concurrent variant. Progress lines still appear at
// the start of each item's own lifecycle; only inter-item interleaving changes.
func (h *Handler) runBounded(ctx context.Context, prospects []models.Prospect, service models.Service, profile models.Profile, onProgress ProgressFunc, summary *BatchSummary) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, h.config.Concurrency)
	)

	for i, prospect := range prospects {
		if ctx.Err() != nil {
			mu.Lock()
			summary.Failed += len(prospects) - i
			mu.Unlock()
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, prospect models.Prospect) {
			defer wg.Done()
			defer func() { <-sem }()

			mu.Lock()
			onProgress(fmt.Sprintf("Generando email %d de %d para %s...",
				i+1, len(prospects), prospect.CompanyName))
			mu.Unlock()

			ok := h.draftOne(ctx, prospect, service, profile)

			mu.Lock()
			if ok {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
			mu.Unlock()
		}(i, prospect)
	}

	wg.Wait()
}

// draftOne generates, optionally pushes to the mailbox, and persists one
// email. A mailbox push failure counts the item as failed even though the
// text generation itself succeeded.
func (h *Handler) draftOne(ctx context.Context, prospect models.Prospect, service models.Service, profile models.Profile) bool {
	draft, err := h.DraftEmail(ctx, prospect, service, profile)
	if err != nil {
		metrics.DraftsTotal.WithLabelValues("failed").Inc()
		h.logger.Warn("draft generation failed", map[string]interface{}{
			"company": prospect.CompanyName,
			"error":   err.Error(),
		})
		return false
	}

	if h.drafts != nil {
		err := h.drafts.CreateDraft(ctx, mailbox.Message{
			To:      prospect.Contact.Email,
			Subject: draft.Subject,
			Body:    draft.Body,
		})
		if err != nil {
			metrics.DraftsTotal.WithLabelValues("mailbox_failed").Inc()
			h.logger.Warn("mailbox draft failed", map[string]interface{}{
				"company": prospect.CompanyName,
				"error":   err.Error(),
			})
			return false
		}
	}

	h.repo.AddEmail(ctx, prospect, service, EncodeBody(draft))
	metrics.DraftsTotal.WithLabelValues("success").Inc()
	return true
}

func (h *Handler) buildPrompt(prospect models.Prospect, service models.Service, profile models.Profile) string {
	var parts []string

	parts = append(parts,
		"Actúa como un experto en redacción de correos de ventas B2B en español.",
		"Tu tarea es redactar un borrador de correo electrónico profesional y altamente personalizado.")

	parts = append(parts, "**Información del destinatario:**",
		fmt.Sprintf("- Empresa: %s", prospect.CompanyName),
		fmt.Sprintf("- Contacto: %s (%s)", prospect.Contact.Name, prospect.Contact.Title),
		fmt.Sprintf("- Análisis de su necesidad: %s", prospect.NeedsAnalysis))

	parts = append(parts, "**Información del remitente (mi perfil):**",
		fmt.Sprintf("- Nombre: %s", profile.Name),
		fmt.Sprintf("- Email: %s", profile.ContactEmail),
		fmt.Sprintf("- Web: %s", profile.WebsiteURL),
		fmt.Sprintf("- Mi servicio: %s", service.Name),
		fmt.Sprintf("- Descripción del servicio: %s", service.Description))

	parts = append(parts, "**Instrucciones para el correo:**",
		fmt.Sprintf("1. **Asunto:** Crea un asunto corto, intrigante y personalizado. Por ejemplo: \"Idea para %s\" o \"Colaboración potencial con %s\".", prospect.CompanyName, prospect.CompanyName),
		"2. **Cuerpo del correo:**",
		fmt.Sprintf("   - Comienza con un saludo personalizado a %s seguido de dos puntos (ej: \"Estimado/a %s:\"). En español se usan dos puntos después del saludo, no una coma.", prospect.Contact.Name, prospect.Contact.Name),
		fmt.Sprintf("   - Menciona brevemente que conoces su empresa, %s.", prospect.CompanyName),
		"   - Basándote en el 'análisis de necesidad', demuestra que entiendes un posible desafío u oportunidad que tienen.",
		fmt.Sprintf("   - Presenta tu servicio ('%s') como la solución a ese desafío. Usa la descripción del servicio para explicar el beneficio clave en 1-2 frases.", service.Name),
		"   - Termina con una llamada a la acción clara y de bajo compromiso, como \"¿Tendría 15 minutos la próxima semana para una breve llamada?\".",
		"   - Añade una despedida cordial como \"Atentamente,\".",
		fmt.Sprintf("   - Deja un salto de línea después de la despedida y antes de firmar con el nombre del remitente (%s).", profile.Name),
		"3. **Formato de salida:** Tu respuesta DEBE SER EXCLUSIVAMENTE un objeto JSON válido, sin texto ni marcadores de formato antes o después. El objeto debe tener exactamente dos claves: \"subject\" (string) y \"body\" (string).")

	return strings.Join(parts, "\n")
}
