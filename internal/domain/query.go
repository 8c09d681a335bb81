package domain

// Source is a retrieved chunk cited in an answer.
// DocumentID and ChunkID are nil when the index hit could not be resolved.
type Source struct {
	Content    string
	DocumentID *int64
	ChunkID    *int64
	Score      float64
}

// QueryResponse is the answer to a question together with the chunks it was built from.
type QueryResponse struct {
	Answer  string
	Sources []Source
}

// Fixed answers returned instead of a model completion.
const (
	AnswerNotConfigured = "The generative model is not configured. Please check the API key."
	AnswerNothingFound  = "No relevant information was found in the documents."
	AnswerFailedPrefix  = "An error occurred while communicating with the generative model: "
)
