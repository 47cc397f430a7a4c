// Package service implements the business rules: credential lifecycle,
// token issuance, and the events domain.
package service

import (
	"github.com/eventhub/eventhub/data"
	"github.com/eventhub/eventhub/logging/logger"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
)

// Service aggregates all application services.
type Service struct {
	Auth  *AuthService
	Event *EventService
}

// NewService creates the service layer over the data layer.
func NewService(d *data.Data, tokenManager *securityjwt.TokenManager, log *logger.Logger) *Service {
	return &Service{
		Auth:  NewAuthService(d.UserRepo, tokenManager, log),
		Event: NewEventService(d.EventRepo, d.UserRepo, log),
	}
}
