// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/store"
)

type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, cfg.Auth, logger),
		DocumentService: NewDocumentService(storages.DocumentRepository, logger),
	}
}
