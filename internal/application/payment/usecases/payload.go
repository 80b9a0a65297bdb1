package usecases

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"vechnost/internal/domain/subscription"
	"vechnost/internal/shared/biztime"
)

// webhookPayload is the parsed JSON body of a provider webhook. Tribute has
// shipped several envelope shapes over time (flat fields, a "data" object, a
// "payload" object), so every accessor probes the known locations in order.
type webhookPayload map[string]any

func parseWebhookPayload(raw []byte) (webhookPayload, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p == nil {
		p = webhookPayload{}
	}
	return p, nil
}

// section returns a nested object, or an empty map when absent or not an
// object, so chained lookups stay nil-safe.
func (p webhookPayload) section(key string) webhookPayload {
	if v, ok := p[key].(map[string]any); ok {
		return webhookPayload(v)
	}
	return webhookPayload{}
}

func (p webhookPayload) str(key string) string {
	v, ok := p[key].(string)
	if !ok {
		return ""
	}
	return v
}

// int64Val coerces a JSON number or numeric string to int64.
func (p webhookPayload) int64Val(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// EventName returns the event name from any of the field names Tribute has
// used for it.
func (p webhookPayload) EventName() string {
	for _, key := range []string{"event_name", "event", "type", "name"} {
		if v := p.str(key); v != "" {
			return v
		}
	}
	return ""
}

// IsConnectivityTest reports whether the payload is a provider test ping
// rather than a real event.
func (p webhookPayload) IsConnectivityTest() bool {
	if len(p) == 0 {
		return true
	}
	for _, key := range []string{"test", "ping", "test_event"} {
		if v, ok := p[key]; ok && v != nil && v != false {
			return true
		}
	}
	return false
}

// TelegramUserID probes the locations the provider has placed the user ID
// in: top level, customer object, metadata, data.customer, and the payload
// envelope.
func (p webhookPayload) TelegramUserID() (int64, bool) {
	if id, ok := p.int64Val("telegram_user_id"); ok && id != 0 {
		return id, true
	}
	for _, s := range []webhookPayload{
		p.section("customer"),
		p.section("metadata"),
		p.section("data").section("customer"),
		p.section("payload"),
	} {
		if id, ok := s.int64Val("telegram_user_id"); ok && id != 0 {
			return id, true
		}
	}
	return 0, false
}

// CustomerFields returns display fields for the account, preferring the
// customer object over top-level fields.
func (p webhookPayload) CustomerFields() (username, firstName, lastName string) {
	customer := p.section("data").section("customer")
	if len(customer) == 0 {
		customer = p.section("customer")
	}
	pick := func(key string) string {
		if v := customer.str(key); v != "" {
			return v
		}
		return p.str(key)
	}
	return pick("username"), pick("first_name"), pick("last_name")
}

func (p webhookPayload) Amount() int64 {
	data := p.section("data")
	product := data.section("product")
	if len(product) == 0 {
		product = p.section("product")
	}
	if v, ok := data.int64Val("amount"); ok {
		return v
	}
	if v, ok := product.int64Val("price"); ok {
		return v
	}
	if v, ok := p.int64Val("amount"); ok {
		return v
	}
	if v, ok := p.section("payload").int64Val("amount"); ok {
		return v
	}
	return 0
}

func (p webhookPayload) Currency() string {
	if v := p.section("data").str("currency"); v != "" {
		return v
	}
	if v := p.str("currency"); v != "" {
		return v
	}
	if v := p.section("payload").str("currency"); v != "" {
		return v
	}
	return "RUB"
}

func (p webhookPayload) ProductID() *int64 {
	data := p.section("data")
	if v, ok := data.int64Val("product_id"); ok {
		return &v
	}
	product := data.section("product")
	if len(product) == 0 {
		product = p.section("product")
	}
	if v, ok := product.int64Val("id"); ok {
		return &v
	}
	if v, ok := p.int64Val("product_id"); ok {
		return &v
	}
	if v, ok := p.section("payload").int64Val("product_id"); ok {
		return &v
	}
	return nil
}

// ExpiresAt parses the expiry timestamp when present. An unparsable value
// is treated as absent.
func (p webhookPayload) ExpiresAt() *time.Time {
	raw := p.section("data").str("expires_at")
	if raw == "" {
		raw = p.str("expires_at")
	}
	if raw == "" {
		return nil
	}
	t, err := biztime.ParseRFC3339UTC(raw)
	if err != nil {
		return nil
	}
	return &t
}

// SubscriptionID returns the provider subscription identifier. For digital
// product events the provider sends no subscription ID, so the payload user
// ID or a timestamp stands in to keep one row per grant.
func (p webhookPayload) SubscriptionID(now time.Time) int64 {
	data := p.section("data")
	if v, ok := data.int64Val("id"); ok && v != 0 {
		return v
	}
	if v, ok := data.int64Val("subscription_id"); ok && v != 0 {
		return v
	}
	if v, ok := p.int64Val("subscription_id"); ok && v != 0 {
		return v
	}
	if v, ok := p.int64Val("id"); ok && v != 0 {
		return v
	}
	if v, ok := p.section("payload").int64Val("user_id"); ok && v != 0 {
		return v
	}
	return now.Unix()
}

// Status derives the subscription status, letting the event name override
// whatever the body claims.
func (p webhookPayload) Status(eventName string) string {
	lower := strings.ToLower(eventName)
	switch {
	case strings.Contains(lower, "cancel"):
		return subscription.StatusCancelled
	case strings.Contains(lower, "expire"):
		return subscription.StatusExpired
	case strings.Contains(lower, "renew"), strings.Contains(lower, "new"):
		return subscription.StatusActive
	}
	if v := p.section("data").str("status"); v != "" {
		return v
	}
	if v := p.str("status"); v != "" {
		return v
	}
	return subscription.StatusActive
}

// Period derives the billing period. Digital products have no period and
// grant lifetime access.
func (p webhookPayload) Period(eventName string) string {
	if v := p.section("data").str("period"); v != "" {
		return v
	}
	if v := p.str("period"); v != "" {
		return v
	}
	if strings.Contains(strings.ToLower(eventName), "product") {
		return subscription.PeriodLifetime
	}
	return "month"
}
