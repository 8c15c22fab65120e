package openai

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

type chatCompletionChoice struct {
	Message chatCompletionMessage `json:"message"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	chatMessageRoleSystem = "system"
	chatMessageRoleUser   = "user"
)

type imageGenerationRequest struct {
	Model  string    `json:"model"`
	Prompt string    `json:"prompt"`
	N      int       `json:"n"`
	Size   imageSize `json:"size"`
}

type imageGenerationResponse struct {
	Data []imageGenerationData `json:"data"`
}

type imageGenerationData struct {
	URL string `json:"url"`
}

type imageSize string

const size1024x1024 imageSize = "1024x1024"
