package upstream

import (
	"fmt"
	"strconv"
	"strings"
)

// The upstream API has no stable field naming: the same concept shows up
// under several aliases depending on the endpoint. All tolerance lives here,
// as ordered candidate lists evaluated first-match-wins, so the policy is
// auditable in one place.
var (
	listWrapperKeys = []string{"data", "result", "items", "menu"}

	menuIDAliases  = []string{"id_menu", "idMenu", "id", "ID", "menu_id", "menuId"}
	orderIDAliases = []string{"id_order", "id", "ID"}
	nameAliases    = []string{"nama_makanan", "nama_menu", "name"}
	priceAliases   = []string{"harga_beli", "harga", "price"}
	qtyAliases     = []string{"qty", "jumlah"}
	photoAliases   = []string{"foto", "gambar", "image"}
	vendorAliases  = []string{"nama_stan", "nama_kantin"}
	detailAliases  = []string{"detail_trans", "detail", "items", "result"}
	createdAliases = []string{"created_at", "tanggal"}
	tokenAliases   = []string{"access_token", "token"}
)

// RawRecord is one loosely-shaped upstream object.
type RawRecord map[string]any

// UnwrapList normalizes a decoded body into a list of records: a bare array
// passes through, an object is probed for conventional wrapper keys, and
// anything else yields an empty list. It never fails.
func UnwrapList(decoded any) []RawRecord {
	switch typed := decoded.(type) {
	case []any:
		return toRecords(typed)
	case map[string]any:
		for _, key := range listWrapperKeys {
			if inner, ok := typed[key].([]any); ok {
				return toRecords(inner)
			}
		}
	}
	return []RawRecord{}
}

func toRecords(items []any) []RawRecord {
	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			records = append(records, RawRecord(record))
		}
	}
	return records
}

// Number coerces a JSON value to float64; malformed values coerce to 0.
func Number(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// Int coerces a JSON value to int, truncating fractions.
func Int(value any) int {
	return int(Number(value))
}

// String coerces a JSON value to its string form; nil and composites yield "".
func String(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	case map[string]any, []any:
		return ""
	}
	return fmt.Sprint(value)
}

func (r RawRecord) first(keys ...string) any {
	for _, key := range keys {
		if value, ok := r[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func (r RawRecord) firstString(keys ...string) string {
	for _, key := range keys {
		if value := String(r[key]); value != "" {
			return value
		}
	}
	return ""
}

// MenuID resolves the menu identifier; 0 means unresolvable.
func (r RawRecord) MenuID() int {
	return Int(r.first(menuIDAliases...))
}

// OrderID resolves the order identifier; 0 means unresolvable.
func (r RawRecord) OrderID() int {
	return Int(r.first(orderIDAliases...))
}

func (r RawRecord) Name() string {
	return r.firstString(nameAliases...)
}

// Price resolves the unit price, preferring the purchase-time snapshot field.
func (r RawRecord) Price() float64 {
	return Number(r.first(priceAliases...))
}

func (r RawRecord) Qty() int {
	return Int(r.first(qtyAliases...))
}

func (r RawRecord) Subtotal() float64 {
	return Number(r["subtotal"])
}

func (r RawRecord) Photo() string {
	return r.firstString(photoAliases...)
}

func (r RawRecord) Status() string {
	return String(r["status"])
}

func (r RawRecord) CreatedAt() string {
	return r.firstString(createdAliases...)
}

func (r RawRecord) Description() string {
	return String(r["deskripsi"])
}

// Vendor resolves the stand name, probing order-level aliases and the nested
// stan object some responses carry.
func (r RawRecord) Vendor() string {
	if name := r.firstString(vendorAliases...); name != "" {
		return name
	}
	if nested, ok := r["stan"].(map[string]any); ok {
		return RawRecord(nested).firstString(vendorAliases...)
	}
	return ""
}

// DetailItems extracts the embedded line-item list; the first alias holding a
// non-empty list wins, absence yields an empty list.
func (r RawRecord) DetailItems() []RawRecord {
	for _, key := range detailAliases {
		if inner, ok := r[key].([]any); ok {
			if records := toRecords(inner); len(records) > 0 {
				return records
			}
		}
	}
	return []RawRecord{}
}

// ExtractToken pulls the bearer token out of a login payload, probing the
// top level first and then the nested data object.
func ExtractToken(decoded any) string {
	record, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	if token := RawRecord(record).firstString(tokenAliases...); token != "" {
		return token
	}
	if nested, ok := record["data"].(map[string]any); ok {
		return RawRecord(nested).firstString(tokenAliases...)
	}
	return ""
}

// ResolvePhotoURL joins a relative photo path onto the upstream origin.
// Absolute URLs pass through; empty input stays empty.
func (c *Client) ResolvePhotoURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimSuffix(c.origin, "/") + "/" + strings.TrimLeft(path, "/")
}
