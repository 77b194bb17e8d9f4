package service

import (
	"fmt"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/mailer"
	"go.uber.org/zap"
)

type EmailService struct {
	mailer mailer.Mailer
	logger *zap.SugaredLogger
}

func NewEmailService(mailer mailer.Mailer, logger *zap.SugaredLogger) *EmailService {
	return &EmailService{
		mailer: mailer,
		logger: logger,
	}
}

func (s *EmailService) Send(msg domain.EmailMessage) error {
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Errorw("failed to send email", "to", msg.To, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("email sent", "to", msg.To, "subject", msg.Subject)

	return nil
}
