package digest

// Exposed for tests
var (
	CollectTopics = collectTopics
	BuildPrompt   = buildPrompt
)
