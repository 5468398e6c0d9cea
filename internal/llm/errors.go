package llm

import "fmt"

type ErrUnsupportedProvider struct {
	Provider string
}

func (e ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported LLM provider: %s", e.Provider)
}

// ProviderError is an HTTP-level failure from the model provider.
type ProviderError struct {
	Provider string
	Status   string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s request failed: %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}
