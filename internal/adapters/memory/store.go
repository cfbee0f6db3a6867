// Package memory backs the service ports with in-process maps. It serves
// local runs without infrastructure and the test suites; every collection
// shares one mutex so multi-row operations are atomic the same way the
// Postgres transaction is.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
)

type Store struct {
	mu sync.Mutex

	creators     map[string]domain.Creator
	creatorCodes map[string]string // normalized code -> creator_id

	links    map[string]domain.ReferralLink
	linkKeys map[string]string // normalized code or alias -> link_id

	clicks          map[string]domain.ReferralClick
	clicksBySession map[string]string // session_id -> click_id

	transactions map[string]domain.CommissionTransaction
	txnsByOrder  map[string]string // order_id -> transaction_id

	audits []ports.AuditEntry

	outbox      map[string]ports.OutboxRecord
	outboxOrder []string

	dedup map[string]dedupEntry
}

type dedupEntry struct {
	sessionID string
	expiresAt time.Time
}

func NewStore() *Store {
	return &Store{
		creators:        make(map[string]domain.Creator),
		creatorCodes:    make(map[string]string),
		links:           make(map[string]domain.ReferralLink),
		linkKeys:        make(map[string]string),
		clicks:          make(map[string]domain.ReferralClick),
		clicksBySession: make(map[string]string),
		transactions:    make(map[string]domain.CommissionTransaction),
		txnsByOrder:     make(map[string]string),
		outbox:          make(map[string]ports.OutboxRecord),
		dedup:           make(map[string]dedupEntry),
	}
}

func (s *Store) Creators() ports.CreatorRepository              { return &creatorRepo{s} }
func (s *Store) Links() ports.ReferralLinkRepository            { return &linkRepo{s} }
func (s *Store) Clicks() ports.ReferralClickRepository          { return &clickRepo{s} }
func (s *Store) Transactions() ports.CommissionTransactionRepository { return &transactionRepo{s} }
func (s *Store) AuditLogs() ports.AuditLogRepository            { return &auditRepo{s} }
func (s *Store) Outbox() ports.OutboxRepository                 { return &outboxRepo{s} }
func (s *Store) Dedup() ports.ClickDedupStore                   { return &dedupStore{s} }

func sortedByTimeDesc[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).After(at(rows[j])) })
}
