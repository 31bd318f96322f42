package response

import (
	"fmt"
	"strings"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/pkg/assistant/retrieval"
)

const excerptLimit = 280

// Fallback builds the deterministic reply used when inference cannot
// serve the turn. With retrieval context the top hit is excerpted so the
// customer still gets a grounded answer; otherwise the static notice.
func Fallback(results []*retrieval.Result) string {
	if len(results) == 0 {
		return constant.AssistantUnavailableNotice
	}

	top := results[0]
	switch top.ContentType {
	case constant.ContentTypeProduct:
		return fmt.Sprintf("I found %q (%.2f) in our %s range: %s",
			top.Product.Name, top.Product.Price, top.Product.Category, excerpt(top.Product.Description))
	case constant.ContentTypeFAQ:
		return excerpt(top.FAQ.Answer)
	case constant.ContentTypeKnowledge:
		return fmt.Sprintf("%s: %s", top.Knowledge.Title, excerpt(top.Knowledge.Content))
	}
	return constant.AssistantUnavailableNotice
}

func excerpt(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	cut := string(runes[:excerptLimit])
	if idx := strings.LastIndex(cut, " "); idx > excerptLimit/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
