package dto

// CreatedResponse devolve o id de um recurso criado.
type CreatedResponse struct {
	ID string `json:"id"`
}

// StatusResponse confirma uma operação sem corpo próprio.
type StatusResponse struct {
	Status string `json:"status"` // "SAVED" | "DELETED"
}

// ParticipantResponse é um participante na listagem administrativa.
type ParticipantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category,omitempty"`
	JoinedAt string `json:"joinedAt"`
}

// EmailListResponse agrega os emails distintos.
type EmailListResponse struct {
	Emails []string `json:"emails"`
	Count  int      `json:"count"`
}

// PageViewCountResponse é o agregado de analytics por página.
type PageViewCountResponse struct {
	Page  string `json:"page"`
	Views int64  `json:"views"`
}
