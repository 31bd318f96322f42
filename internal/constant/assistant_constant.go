package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	ContentTypeProduct   = "product"
	ContentTypeFAQ       = "faq"
	ContentTypeKnowledge = "knowledge"

	KnowledgeTypeInstruction = "instruction"
	KnowledgeTypePolicy      = "policy"
	KnowledgeTypeGuide       = "guide"
	KnowledgeTypeGeneral     = "general"

	// Returned in the chat response on the turn that creates a session.
	// Never written into history.
	SessionGreeting = "Hi! I can help you find products, answer questions about orders and shipping, or point you to the right guide. What are you looking for?"

	// AssistantUnavailableNotice is the static fallback when the model is
	// down and retrieval produced no usable context either.
	AssistantUnavailableNotice = "Our assistant is taking a short break right now. You can still browse the catalog, and a human will answer store questions at support@ — please try the chat again in a few minutes."

	ActionPullModel = "pullModel"
)

// SupportedLanguages is the fixed list exposed on the status endpoint.
var SupportedLanguages = []string{"en", "id", "es", "de"}

// FeatureFlags declared to the storefront chat widget.
var FeatureFlags = map[string]bool{
	"text_chat":       true,
	"voice_input":     true,
	"voice_output":    false,
	"multi_language":  true,
	"product_search":  true,
	"recommendations": true,
}
