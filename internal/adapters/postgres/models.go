package postgres

import (
	"time"
)

type creatorModel struct {
	CreatorID       string     `gorm:"column:creator_id;primaryKey"`
	UserID          string     `gorm:"column:user_id"`
	Code            string     `gorm:"column:code"`
	Status          string     `gorm:"column:status"`
	CommissionRate  float64    `gorm:"column:commission_rate"`
	RateOverridden  bool       `gorm:"column:rate_overridden"`
	MinimumPayout   float64    `gorm:"column:minimum_payout"`
	TotalClicks     int64      `gorm:"column:total_clicks"`
	TotalSales      int64      `gorm:"column:total_sales"`
	TotalCommission float64    `gorm:"column:total_commission"`
	ConversionRate  float64    `gorm:"column:conversion_rate"`
	LastSaleAt      *time.Time `gorm:"column:last_sale_at"`
	MetricsAt       *time.Time `gorm:"column:metrics_refreshed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (creatorModel) TableName() string { return "affiliate_creators" }

type linkModel struct {
	LinkID           string     `gorm:"column:link_id;primaryKey"`
	CreatorID        string     `gorm:"column:creator_id"`
	LinkCode         string     `gorm:"column:link_code"`
	CustomAlias      *string    `gorm:"column:custom_alias"`
	OriginalURL      string     `gorm:"column:original_url"`
	Title            string     `gorm:"column:title"`
	IsActive         bool       `gorm:"column:is_active"`
	ExpiresAt        *time.Time `gorm:"column:expires_at"`
	ClickCount       int64      `gorm:"column:click_count"`
	UniqueClickCount int64      `gorm:"column:unique_click_count"`
	ConversionCount  int64      `gorm:"column:conversion_count"`
	LastClickedAt    *time.Time `gorm:"column:last_clicked_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (linkModel) TableName() string { return "referral_links" }

// linkKeyModel pins every normalized code and alias in one table so a new
// code can never collide with an existing alias and vice versa.
type linkKeyModel struct {
	LookupKey string    `gorm:"column:lookup_key;primaryKey"`
	LinkID    string    `gorm:"column:link_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (linkKeyModel) TableName() string { return "referral_link_keys" }

type clickModel struct {
	ClickID         string     `gorm:"column:click_id;primaryKey"`
	LinkID          string     `gorm:"column:link_id"`
	CreatorID       string     `gorm:"column:creator_id"`
	SessionID       string     `gorm:"column:session_id"`
	IPAddress       string     `gorm:"column:ip_address"`
	UserAgent       string     `gorm:"column:user_agent"`
	Fingerprint     string     `gorm:"column:fingerprint"`
	Referrer        string     `gorm:"column:referrer"`
	DeviceType      string     `gorm:"column:device_type"`
	Converted       bool       `gorm:"column:converted"`
	OrderID         *string    `gorm:"column:order_id"`
	ConversionValue float64    `gorm:"column:conversion_value"`
	ConvertedAt     *time.Time `gorm:"column:converted_at"`
	ClickedAt       time.Time  `gorm:"column:clicked_at"`
}

func (clickModel) TableName() string { return "referral_clicks" }

type transactionModel struct {
	TransactionID    string     `gorm:"column:transaction_id;primaryKey"`
	CreatorID        string     `gorm:"column:creator_id"`
	LinkID           string     `gorm:"column:link_id"`
	ClickID          string     `gorm:"column:click_id"`
	OrderID          string     `gorm:"column:order_id"`
	Type             string     `gorm:"column:type"`
	Status           string     `gorm:"column:status"`
	OrderAmount      float64    `gorm:"column:order_amount"`
	CommissionRate   float64    `gorm:"column:commission_rate"`
	CommissionAmount float64    `gorm:"column:commission_amount"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	PaidAt           *time.Time `gorm:"column:paid_at"`
}

func (transactionModel) TableName() string { return "commission_transactions" }

type auditModel struct {
	AuditID   string    `gorm:"column:audit_id;primaryKey"`
	CreatorID string    `gorm:"column:creator_id"`
	Action    string    `gorm:"column:action"`
	ActorID   string    `gorm:"column:actor_id"`
	Reason    string    `gorm:"column:reason"`
	Metadata  string    `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (auditModel) TableName() string { return "affiliate_audit_log" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload;type:jsonb"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "affiliate_outbox" }
