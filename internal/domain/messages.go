package domain

// Queue message payloads, produced by the API process.

type EmailMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type RecipeImageMessage struct {
	UUID  string `json:"uuid"`
	Image string `json:"image"`
}

type UserRegisterMessage struct {
	UUID string `json:"uuid"`
}
