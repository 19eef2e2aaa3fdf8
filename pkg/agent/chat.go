package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xhad/sanket/internal/models"
)

// Ask answers a question about a bill as the 'Sarkari Mitra' assistant.
// Failures are returned as displayable text.
func (a *Agent) Ask(ctx context.Context, billText, question string, lang models.Language) string {
	billText = strings.TrimSpace(billText)
	question = strings.TrimSpace(question)
	if billText == "" || question == "" {
		return "Please provide both the bill text and a question."
	}

	answer, err := a.generate(ctx, chatPrompt(a.chatContext(ctx, billText, question), question, responseLanguage(lang)))
	if err != nil {
		if models.KindOf(err) == models.KindConfiguration {
			return generatorNotConfigured
		}
		a.logger.Error("chat generation failed", "error", err)
		return "Sorry, I could not answer that right now. Please try again."
	}
	return answer
}

// chatContext returns the chunks nearest to the question when a chunk index
// is wired, and otherwise the start of the bill text.
func (a *Agent) chatContext(ctx context.Context, billText, question string) string {
	fallback := truncate(billText, chatContextLimit)
	if a.config.Index == nil || a.config.Embedder == nil || a.config.Chunker == nil {
		return fallback
	}

	billID := billTextID(billText)
	chunked := a.config.Chunker.Process([]models.BillDocument{{ID: billID, Content: billText}})
	if len(chunked) == 0 || len(chunked[0].Chunks) == 0 {
		return fallback
	}

	if err := a.config.Index.Store(ctx, chunked, a.config.Embedder); err != nil {
		a.logger.Warn("chunk indexing failed, using bill prefix", "error", err)
		return fallback
	}

	vectors, err := a.config.Embedder.CreateEmbedding(ctx, []string{question})
	if err != nil || len(vectors) == 0 {
		a.logger.Warn("question embedding failed, using bill prefix", "error", err)
		return fallback
	}

	chunks, err := a.config.Index.Query(ctx, billID, vectors[0], chatChunks)
	if err != nil || len(chunks) == 0 {
		a.logger.Warn("chunk query failed, using bill prefix", "error", err)
		return fallback
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}

// billTextID identifies a bill by its content so repeated questions reuse the
// same indexed chunks.
func billTextID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}

func chatPrompt(billContext, question, language string) string {
	return fmt.Sprintf(`You are 'Sarkari Mitra', a friendly assistant who helps citizens understand government bills.
Answer the question using only the bill text below. If the answer is not in the text, say so honestly.
Reply in %s and keep the answer short.

Bill text:
"%s"

Question: %s`, language, billContext, question)
}
