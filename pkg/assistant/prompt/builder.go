package prompt

import (
	"fmt"
	"strings"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/pkg/assistant/retrieval"
	"shop-assistant-be/pkg/llm"
)

const systemPreamble = `You are a helpful storefront assistant. Answer the customer using ONLY the store context below. If the context does not cover the question, say so briefly and suggest contacting support. Keep answers short and conversational.

=== STORE CONTEXT ===
`

// Builder assembles the bounded message list for one inference call.
// CharBudget caps the total prompt size; when the budget is tight the
// oldest history and the lowest ranked context are dropped first.
type Builder struct {
	CharBudget int
}

func NewBuilder(charBudget int) *Builder {
	if charBudget <= 0 {
		charBudget = 6000
	}
	return &Builder{CharBudget: charBudget}
}

// Build returns the system context message followed by the retained
// history, ending with the current user turn. History is trimmed oldest
// first, context lowest-ranked first.
func (b *Builder) Build(results []*retrieval.Result, history []*entity.ChatMessage, userText string) []llm.Message {
	budget := b.CharBudget

	// The current turn is never trimmed.
	budget -= len(userText)

	context := b.renderContext(results, &budget)

	// Walk history newest to oldest, keeping what fits.
	var kept []*entity.ChatMessage
	for i := len(history) - 1; i >= 0; i-- {
		cost := len(history[i].Text)
		if budget-cost < 0 {
			break
		}
		budget -= cost
		kept = append(kept, history[i])
	}

	messages := []llm.Message{{Role: "system", Content: context}}
	for i := len(kept) - 1; i >= 0; i-- {
		messages = append(messages, llm.Message{Role: kept[i].Role, Content: kept[i].Text})
	}
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: userText})
	return messages
}

func (b *Builder) renderContext(results []*retrieval.Result, budget *int) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	*budget -= len(systemPreamble)

	if len(results) == 0 {
		sb.WriteString("(no store content matched this question)\n")
		return sb.String()
	}

	for i, r := range results {
		block := renderResult(i+1, r)
		if *budget-len(block) < 0 {
			break
		}
		*budget -= len(block)
		sb.WriteString(block)
	}
	return sb.String()
}

func renderResult(n int, r *retrieval.Result) string {
	switch r.ContentType {
	case constant.ContentTypeProduct:
		return fmt.Sprintf("[%d] PRODUCT: %s (category: %s, price: %.2f)\n%s\n\n",
			n, r.Product.Name, r.Product.Category, r.Product.Price, r.Product.Description)
	case constant.ContentTypeFAQ:
		return fmt.Sprintf("[%d] FAQ: %s\n%s\n\n", n, r.FAQ.Question, r.FAQ.Answer)
	case constant.ContentTypeKnowledge:
		return fmt.Sprintf("[%d] %s (%s): %s\n%s\n\n",
			n, strings.ToUpper(r.Knowledge.Type), r.Knowledge.Category, r.Knowledge.Title, r.Knowledge.Content)
	}
	return ""
}
