package handler

// Every response carries at least the success flag.

type ItemEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

type ListEnvelope struct {
	Success bool           `json:"success"`
	Data    []WearResponse `json:"data"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func NewErrorEnvelope(message string, details ...string) ErrorEnvelope {
	return ErrorEnvelope{Error: message, Details: details}
}
