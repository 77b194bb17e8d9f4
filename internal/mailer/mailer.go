package mailer

import "github.com/managemeals/manage-meals-api/internal/domain"

type Mailer interface {
	Send(msg domain.EmailMessage) error
}
