package postgres

import (
	"github.com/viralforge/affiliate-engine/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Creators     ports.CreatorRepository
	Links        ports.ReferralLinkRepository
	Clicks       ports.ReferralClickRepository
	Transactions ports.CommissionTransactionRepository
	AuditLogs    ports.AuditLogRepository
	Outbox       ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Creators:     &creatorRepository{db: db},
		Links:        &linkRepository{db: db},
		Clicks:       &clickRepository{db: db},
		Transactions: &transactionRepository{db: db},
		AuditLogs:    &auditRepository{db: db},
		Outbox:       &outboxRepository{db: db},
	}
}
