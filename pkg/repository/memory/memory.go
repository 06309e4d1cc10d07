package memory

import (
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps every entity in process memory. Each store guards its own map
// with a mutex, so the composite-key checks in Upsert run atomically.
type Memory struct {
	prompt         *promptRepository
	response       *responseRepository
	acknowledgment *acknowledgmentRepository
	suggestion     *suggestionRepository
	tokens         *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		prompt:         newPromptRepository(),
		response:       newResponseRepository(),
		acknowledgment: newAcknowledgmentRepository(),
		suggestion:     newSuggestionRepository(),
		tokens:         newTokenStore(),
	}
}

func (m *Memory) Prompt() interfaces.PromptRepository {
	return m.prompt
}

func (m *Memory) Response() interfaces.ResponseRepository {
	return m.response
}

func (m *Memory) Acknowledgment() interfaces.AcknowledgmentRepository {
	return m.acknowledgment
}

func (m *Memory) Suggestion() interfaces.SuggestionRepository {
	return m.suggestion
}

func (m *Memory) Close() error {
	return nil
}
