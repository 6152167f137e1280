package respond

// Gin context keys shared by middleware and handlers.
const (
	RequestIDKey    = "requestId"
	GenerationIDKey = "generationId"
)
