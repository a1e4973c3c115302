package domain

// Prompt is a composed model input. It is immutable once built and keeps
// its structural parts alongside the rendered text for debuggability.
type Prompt struct {
	// SystemInstruction frames the model's behaviour. Never truncated.
	SystemInstruction string

	// ContextBlock holds the retrieved passages, already fitted to the
	// builder's character budget.
	ContextBlock string

	// UserQuery is the verbatim user question. Never truncated.
	UserQuery string

	// Text is the rendered prompt sent to the provider.
	Text string
}
