package postgres

import (
	"encoding/json"
	"errors"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func toDomainCreator(rec creatorModel) domain.Creator {
	c := domain.Creator{
		CreatorID:      rec.CreatorID,
		UserID:         rec.UserID,
		Code:           rec.Code,
		Status:         domain.CreatorStatus(rec.Status),
		CommissionRate: rec.CommissionRate,
		RateOverridden: rec.RateOverridden,
		MinimumPayout:  rec.MinimumPayout,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
	c.Metrics = domain.CreatorMetrics{
		TotalClicks:     rec.TotalClicks,
		TotalSales:      rec.TotalSales,
		TotalCommission: rec.TotalCommission,
		ConversionRate:  rec.ConversionRate,
		LastSaleAt:      rec.LastSaleAt,
	}
	if rec.MetricsAt != nil {
		c.Metrics.RefreshedAt = *rec.MetricsAt
	}
	return c
}

func toCreatorModel(c domain.Creator) creatorModel {
	rec := creatorModel{
		CreatorID:       c.CreatorID,
		UserID:          c.UserID,
		Code:            c.Code,
		Status:          string(c.Status),
		CommissionRate:  c.CommissionRate,
		RateOverridden:  c.RateOverridden,
		MinimumPayout:   c.MinimumPayout,
		TotalClicks:     c.Metrics.TotalClicks,
		TotalSales:      c.Metrics.TotalSales,
		TotalCommission: c.Metrics.TotalCommission,
		ConversionRate:  c.Metrics.ConversionRate,
		LastSaleAt:      c.Metrics.LastSaleAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if !c.Metrics.RefreshedAt.IsZero() {
		at := c.Metrics.RefreshedAt
		rec.MetricsAt = &at
	}
	return rec
}

func toDomainLink(rec linkModel) domain.ReferralLink {
	l := domain.ReferralLink{
		LinkID:           rec.LinkID,
		CreatorID:        rec.CreatorID,
		LinkCode:         rec.LinkCode,
		OriginalURL:      rec.OriginalURL,
		Title:            rec.Title,
		IsActive:         rec.IsActive,
		ExpiresAt:        rec.ExpiresAt,
		ClickCount:       rec.ClickCount,
		UniqueClickCount: rec.UniqueClickCount,
		ConversionCount:  rec.ConversionCount,
		LastClickedAt:    rec.LastClickedAt,
		CreatedAt:        rec.CreatedAt,
	}
	if rec.CustomAlias != nil {
		l.CustomAlias = *rec.CustomAlias
	}
	return l
}

func toLinkModel(l domain.ReferralLink) linkModel {
	rec := linkModel{
		LinkID:           l.LinkID,
		CreatorID:        l.CreatorID,
		LinkCode:         l.LinkCode,
		OriginalURL:      l.OriginalURL,
		Title:            l.Title,
		IsActive:         l.IsActive,
		ExpiresAt:        l.ExpiresAt,
		ClickCount:       l.ClickCount,
		UniqueClickCount: l.UniqueClickCount,
		ConversionCount:  l.ConversionCount,
		LastClickedAt:    l.LastClickedAt,
		CreatedAt:        l.CreatedAt,
	}
	if l.CustomAlias != "" {
		alias := l.CustomAlias
		rec.CustomAlias = &alias
	}
	return rec
}

func toDomainClick(rec clickModel) domain.ReferralClick {
	c := domain.ReferralClick{
		ClickID:         rec.ClickID,
		LinkID:          rec.LinkID,
		CreatorID:       rec.CreatorID,
		SessionID:       rec.SessionID,
		IPAddress:       rec.IPAddress,
		UserAgent:       rec.UserAgent,
		Referrer:        rec.Referrer,
		DeviceType:      rec.DeviceType,
		Converted:       rec.Converted,
		ConversionValue: rec.ConversionValue,
		ConvertedAt:     rec.ConvertedAt,
		ClickedAt:       rec.ClickedAt,
	}
	if rec.OrderID != nil {
		c.OrderID = *rec.OrderID
	}
	return c
}

func toClickModel(c domain.ReferralClick) clickModel {
	rec := clickModel{
		ClickID:         c.ClickID,
		LinkID:          c.LinkID,
		CreatorID:       c.CreatorID,
		SessionID:       c.SessionID,
		IPAddress:       c.IPAddress,
		UserAgent:       c.UserAgent,
		Fingerprint:     domain.VisitorFingerprint(c.IPAddress, c.UserAgent),
		Referrer:        c.Referrer,
		DeviceType:      c.DeviceType,
		Converted:       c.Converted,
		ConversionValue: c.ConversionValue,
		ConvertedAt:     c.ConvertedAt,
		ClickedAt:       c.ClickedAt,
	}
	if c.OrderID != "" {
		orderID := c.OrderID
		rec.OrderID = &orderID
	}
	return rec
}

func toDomainTransaction(rec transactionModel) domain.CommissionTransaction {
	return domain.CommissionTransaction{
		TransactionID:    rec.TransactionID,
		CreatorID:        rec.CreatorID,
		LinkID:           rec.LinkID,
		ClickID:          rec.ClickID,
		OrderID:          rec.OrderID,
		Type:             domain.TransactionType(rec.Type),
		Status:           domain.TransactionStatus(rec.Status),
		OrderAmount:      rec.OrderAmount,
		CommissionRate:   rec.CommissionRate,
		CommissionAmount: rec.CommissionAmount,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
		PaidAt:           rec.PaidAt,
	}
}

func toTransactionModel(t domain.CommissionTransaction) transactionModel {
	return transactionModel{
		TransactionID:    t.TransactionID,
		CreatorID:        t.CreatorID,
		LinkID:           t.LinkID,
		ClickID:          t.ClickID,
		OrderID:          t.OrderID,
		Type:             string(t.Type),
		Status:           string(t.Status),
		OrderAmount:      t.OrderAmount,
		CommissionRate:   t.CommissionRate,
		CommissionAmount: t.CommissionAmount,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		PaidAt:           t.PaidAt,
	}
}

func toAuditModel(e ports.AuditEntry) auditModel {
	metadata := "{}"
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = string(raw)
		}
	}
	return auditModel{
		AuditID:   e.AuditID,
		CreatorID: e.CreatorID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		Reason:    e.Reason,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
	}
}

func toDomainAudit(rec auditModel) ports.AuditEntry {
	entry := ports.AuditEntry{
		AuditID:   rec.AuditID,
		CreatorID: rec.CreatorID,
		Action:    rec.Action,
		ActorID:   rec.ActorID,
		Reason:    rec.Reason,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Metadata != "" {
		_ = json.Unmarshal([]byte(rec.Metadata), &entry.Metadata)
	}
	return entry
}
