package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PaperRAG/internal/domain"
)

// maxDegradedContext bounds the raw-excerpt fallback answer.
const maxDegradedContext = 1200

// Chat answers a question against a session's chunks. The first pass
// answers strictly from the retrieved context; the second pass asks the
// model to explain that answer in plain language. When the model is
// unavailable both passes degrade to a marked excerpt of the retrieved
// context.
func (p *Pipeline) Chat(ctx context.Context, sessionID, message string) (domain.ChatReply, error) {
	chunks, err := p.sessions.GetChunks(sessionID)
	if err != nil {
		return domain.ChatReply{}, err
	}

	relevant := p.retriever.Retrieve(chunks, message)
	contextText := strings.Join(relevant, "\n")

	prompt := fmt.Sprintf("Relevant paper content:\n%s\n\nQuestion: %s\nAnswer: ", contextText, message)
	ragReply, err := p.summarizer.Answer(ctx, prompt)
	if err != nil {
		if !errors.Is(err, domain.ErrSummarizationUnavailable) {
			return domain.ChatReply{}, err
		}
		p.warn("chat model unavailable, returning raw context", "session_id", sessionID, "error", err)
		return domain.ChatReply{RAGReply: degradedContext(contextText)}, nil
	}

	explainPrompt := fmt.Sprintf(
		"Explain the following answer about a scientific paper in simple terms:\n%s", ragReply)
	gptReply, err := p.summarizer.Answer(ctx, explainPrompt)
	if err != nil {
		p.warn("explanation pass failed", "session_id", sessionID, "error", err)
		gptReply = ragReply
	}

	return domain.ChatReply{RAGReply: ragReply, GPTReply: gptReply}, nil
}

// degradedContext marks and bounds the retrieved context used as a
// stand-in answer.
func degradedContext(contextText string) string {
	if len(contextText) > maxDegradedContext {
		contextText = contextText[:maxDegradedContext] + "..."
	}
	return degradedMarker + "\n\n" + contextText
}
