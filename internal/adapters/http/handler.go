package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/affiliate-engine/internal/application"
	"github.com/viralforge/affiliate-engine/internal/contracts"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

const sessionCookieName = "affiliate_session"

type Handler struct{ service *application.Service }

func NewHandler(service *application.Service) *Handler { return &Handler{service: service} }

func (h *Handler) applyCreator(w http.ResponseWriter, r *http.Request) {
	var req contracts.ApplyCreatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.ApplyCreator(r.Context(), actorFromContext(r.Context()), req.UserID, req.MinimumPayout)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, toCreatorResponse(row))
}

func (h *Handler) getCreator(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetCreator(r.Context(), chi.URLParam(r, "creator_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toCreatorResponse(row))
}

func (h *Handler) setCreatorStatus(w http.ResponseWriter, r *http.Request) {
	var req contracts.SetCreatorStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.SetCreatorStatus(r.Context(), actorFromContext(r.Context()),
		chi.URLParam(r, "creator_id"), domain.CreatorStatus(req.Status), req.Reason)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toCreatorResponse(row))
}

func (h *Handler) overrideCommissionRate(w http.ResponseWriter, r *http.Request) {
	var req contracts.OverrideRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.OverrideCommissionRate(r.Context(), actorFromContext(r.Context()),
		chi.URLParam(r, "creator_id"), req.Rate, req.Reason)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toCreatorResponse(row))
}

func (h *Handler) getCreatorMetrics(w http.ResponseWriter, r *http.Request) {
	creator, tier, err := h.service.GetCreatorMetrics(r.Context(), chi.URLParam(r, "creator_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	resp := contracts.MetricsResponse{
		CreatorID:       creator.CreatorID,
		Tier:            tier.Tier,
		CommissionRate:  creator.CommissionRate,
		TotalClicks:     creator.Metrics.TotalClicks,
		TotalSales:      creator.Metrics.TotalSales,
		TotalCommission: creator.Metrics.TotalCommission,
		ConversionRate:  creator.Metrics.ConversionRate,
	}
	if creator.Metrics.LastSaleAt != nil {
		resp.LastSaleAt = creator.Metrics.LastSaleAt.UTC().Format(time.RFC3339)
	}
	if !creator.Metrics.RefreshedAt.IsZero() {
		resp.RefreshedAt = creator.Metrics.RefreshedAt.UTC().Format(time.RFC3339)
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) recomputeTier(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.RecomputeTier(r.Context(), chi.URLParam(r, "creator_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, contracts.TierResponse{
		CreatorID: out.CreatorID,
		Tier:      out.Tier,
		Rate:      out.Rate,
		Volume30d: out.Volume30d,
		Changed:   out.Changed,
	})
}

func (h *Handler) createLink(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	in := application.CreateLinkInput{
		CreatorID:   req.CreatorID,
		OriginalURL: req.OriginalURL,
		CustomAlias: req.CustomAlias,
		Title:       req.Title,
	}
	if req.ExpiresAt != "" {
		at, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "expires_at must be RFC3339")
			return
		}
		in.ExpiresAt = &at
	}
	row, err := h.service.CreateLink(r.Context(), actorFromContext(r.Context()), in)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, h.toLinkResponse(row))
}

func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListLinks(r.Context(), chi.URLParam(r, "creator_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	items := make([]contracts.LinkResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, h.toLinkResponse(row))
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) getLinkStats(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetLink(r.Context(), chi.URLParam(r, "link_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	resp := contracts.LinkStatsResponse{
		LinkID:           row.LinkID,
		LinkCode:         row.LinkCode,
		ClickCount:       row.ClickCount,
		UniqueClickCount: row.UniqueClickCount,
		ConversionCount:  row.ConversionCount,
	}
	if row.LastClickedAt != nil {
		resp.LastClickedAt = row.LastClickedAt.UTC().Format(time.RFC3339)
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deactivateLink(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.DeactivateLink(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "link_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, h.toLinkResponse(row))
}

// redirect is the public edge of the click recorder: it logs the click,
// plants the attribution cookie and bounces the visitor to the destination.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.RecordClick(r.Context(), application.RecordClickInput{
		CodeOrAlias: chi.URLParam(r, "key"),
		IPAddress:   clientIP(r),
		UserAgent:   strings.TrimSpace(r.UserAgent()),
		Referrer:    strings.TrimSpace(r.Header.Get("Referer")),
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    out.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(domain.AttributionWindow / time.Second),
	})
	http.Redirect(w, r, out.TargetURL, http.StatusFound)
}

// recordClick is the server-to-server variant of the redirect edge, for
// storefronts that proxy clicks themselves.
func (h *Handler) recordClick(w http.ResponseWriter, r *http.Request) {
	var req contracts.RecordClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	out, err := h.service.RecordClick(r.Context(), application.RecordClickInput{
		CodeOrAlias: req.CodeOrAlias,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Referrer:    req.Referrer,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.RecordClickResponse{
		SessionID: out.SessionID,
		TargetURL: out.TargetURL,
		Unique:    out.Unique,
	})
}

func (h *Handler) attributeConversion(w http.ResponseWriter, r *http.Request) {
	var req contracts.AttributeConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	session := req.SessionID
	if session == "" {
		session = cookieValue(r, sessionCookieName)
	}
	out, err := h.service.AttributeConversion(r.Context(), application.AttributeConversionInput{
		OrderID:     req.OrderID,
		OrderAmount: req.OrderAmount,
		SessionID:   session,
		LinkID:      req.LinkID,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	resp := contracts.AttributeConversionResponse{Outcome: string(out.Outcome)}
	if out.Transaction != nil {
		txn := toTransactionResponse(*out.Transaction)
		resp.Transaction = &txn
	}
	status := http.StatusOK
	if out.Outcome == application.OutcomeAttributed {
		status = http.StatusCreated
	}
	writeSuccess(w, status, resp)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "transaction_id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toTransactionResponse(row))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	in := application.ListTransactionsInput{CreatorID: chi.URLParam(r, "creator_id")}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			in.Statuses = append(in.Statuses, domain.TransactionStatus(strings.TrimSpace(s)))
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "from must be RFC3339")
			return
		}
		in.From = &at
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "to must be RFC3339")
			return
		}
		in.To = &at
	}
	in.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	in.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	rows, total, err := h.service.ListTransactions(r.Context(), in)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	items := make([]contracts.TransactionResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toTransactionResponse(row))
	}
	writeSuccess(w, http.StatusOK, contracts.TransactionListResponse{Items: items, Total: total})
}

func (h *Handler) advanceTransaction(w http.ResponseWriter, r *http.Request) {
	var req contracts.AdvanceTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	row, err := h.service.AdvanceTransactionStatus(r.Context(), actorFromContext(r.Context()),
		chi.URLParam(r, "transaction_id"), domain.TransactionStatus(req.Status), req.Reason)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, toTransactionResponse(row))
}

func toCreatorResponse(row domain.Creator) contracts.CreatorResponse {
	return contracts.CreatorResponse{
		CreatorID:      row.CreatorID,
		Code:           row.Code,
		Status:         string(row.Status),
		CommissionRate: row.CommissionRate,
		MinimumPayout:  row.MinimumPayout,
		CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) toLinkResponse(row domain.ReferralLink) contracts.LinkResponse {
	resp := contracts.LinkResponse{
		LinkID:      row.LinkID,
		CreatorID:   row.CreatorID,
		LinkCode:    row.LinkCode,
		CustomAlias: row.CustomAlias,
		OriginalURL: row.OriginalURL,
		Title:       row.Title,
		IsActive:    row.IsActive,
		URL:         strings.TrimRight(h.service.PublicBaseURL(), "/") + "/r/" + row.LinkCode,
		CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.ExpiresAt != nil {
		resp.ExpiresAt = row.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toTransactionResponse(row domain.CommissionTransaction) contracts.TransactionResponse {
	return contracts.TransactionResponse{
		TransactionID:    row.TransactionID,
		CreatorID:        row.CreatorID,
		LinkID:           row.LinkID,
		ClickID:          row.ClickID,
		OrderID:          row.OrderID,
		Type:             string(row.Type),
		Status:           string(row.Status),
		OrderAmount:      row.OrderAmount,
		CommissionRate:   row.CommissionRate,
		CommissionAmount: row.CommissionAmount,
		CreatedAt:        row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func clientIP(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
