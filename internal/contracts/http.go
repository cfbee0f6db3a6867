package contracts

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type ApplyCreatorRequest struct {
	UserID        string  `json:"user_id"`
	MinimumPayout float64 `json:"minimum_payout"`
}

type CreatorResponse struct {
	CreatorID      string  `json:"creator_id"`
	Code           string  `json:"code"`
	Status         string  `json:"status"`
	CommissionRate float64 `json:"commission_rate"`
	MinimumPayout  float64 `json:"minimum_payout"`
	CreatedAt      string  `json:"created_at"`
}

type SetCreatorStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type OverrideRateRequest struct {
	Rate   float64 `json:"rate"`
	Reason string  `json:"reason,omitempty"`
}

type CreateLinkRequest struct {
	CreatorID   string `json:"creator_id"`
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	Title       string `json:"title,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type LinkResponse struct {
	LinkID      string `json:"link_id"`
	CreatorID   string `json:"creator_id"`
	LinkCode    string `json:"link_code"`
	CustomAlias string `json:"custom_alias,omitempty"`
	OriginalURL string `json:"original_url"`
	Title       string `json:"title,omitempty"`
	IsActive    bool   `json:"is_active"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}

type LinkStatsResponse struct {
	LinkID           string `json:"link_id"`
	LinkCode         string `json:"link_code"`
	ClickCount       int64  `json:"click_count"`
	UniqueClickCount int64  `json:"unique_click_count"`
	ConversionCount  int64  `json:"conversion_count"`
	LastClickedAt    string `json:"last_clicked_at,omitempty"`
}

type RecordClickRequest struct {
	CodeOrAlias string `json:"code_or_alias"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent"`
	Referrer    string `json:"referrer,omitempty"`
}

type RecordClickResponse struct {
	SessionID string `json:"session_id"`
	TargetURL string `json:"target_url"`
	Unique    bool   `json:"unique"`
}

type AttributeConversionRequest struct {
	OrderID     string  `json:"order_id"`
	OrderAmount float64 `json:"order_amount"`
	SessionID   string  `json:"session_id,omitempty"`
	LinkID      string  `json:"link_id,omitempty"`
}

type AttributeConversionResponse struct {
	Outcome     string               `json:"outcome"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

type TransactionResponse struct {
	TransactionID    string  `json:"transaction_id"`
	CreatorID        string  `json:"creator_id"`
	LinkID           string  `json:"link_id"`
	ClickID          string  `json:"click_id"`
	OrderID          string  `json:"order_id"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	OrderAmount      float64 `json:"order_amount"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	CreatedAt        string  `json:"created_at"`
}

type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int64                 `json:"total"`
}

type AdvanceTransactionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type MetricsResponse struct {
	CreatorID       string  `json:"creator_id"`
	Tier            string  `json:"tier"`
	CommissionRate  float64 `json:"commission_rate"`
	TotalClicks     int64   `json:"total_clicks"`
	TotalSales      int64   `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	ConversionRate  float64 `json:"conversion_rate"`
	LastSaleAt      string  `json:"last_sale_at,omitempty"`
	RefreshedAt     string  `json:"refreshed_at"`
}

type TierResponse struct {
	CreatorID string  `json:"creator_id"`
	Tier      string  `json:"tier"`
	Rate      float64 `json:"rate"`
	Volume30d float64 `json:"volume_30d"`
	Changed   bool    `json:"changed"`
}
