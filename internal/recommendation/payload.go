package recommendation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is returned by Decode when the input is not a JSON object.
var ErrMalformed = errors.New("recommendation payload must be a JSON object")

// Payload is the document produced by a Recommender. Only the structure is
// fixed; every scalar is optional and ids are not guaranteed to exist in the
// catalog.
type Payload struct {
	DesignImage *string  `json:"design_image,omitempty"`
	Area        *float64 `json:"area,omitempty"`
	Perimeter   *float64 `json:"perimeter,omitempty"`
	WallArea    *float64 `json:"wall_area,omitempty"`
	Products    []Entry  `json:"products,omitempty"`

	// Raw holds the exact bytes the payload was decoded from, if any.
	Raw json.RawMessage `json:"-"`
}

// Entry is a top-level recommended product.
type Entry struct {
	ID         *int             `json:"id,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Image      *string          `json:"image,omitempty"`
	Similarity *float64         `json:"similarity,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
	Area       *float64         `json:"area,omitempty"`
	Perimeter  *float64         `json:"perimeter,omitempty"`
	WallArea   *float64         `json:"wall_area,omitempty"`

	RelatedProducts []RelatedEntry `json:"related_products,omitempty"`
}

// RelatedEntry is a product recommended alongside a top-level Entry.
type RelatedEntry struct {
	ID         *int             `json:"id,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Image      *string          `json:"image,omitempty"`
	Similarity *float64         `json:"similarity,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
}

// Decode parses a payload. Fields with an unexpected JSON type are treated as
// absent and list elements that are not objects are skipped; only input that
// is not a JSON object at all is rejected.
func Decode(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, err
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return p, nil
}

// Encode returns Raw when the payload came from Decode, otherwise its JSON form.
func (p Payload) Encode() (json.RawMessage, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	f, ok := objectFields(data)
	if !ok {
		return ErrMalformed
	}
	*p = Payload{
		DesignImage: optString(f["design_image"]),
		Area:        optFloat(f["area"]),
		Perimeter:   optFloat(f["perimeter"]),
		WallArea:    optFloat(f["wall_area"]),
	}
	for _, raw := range arrayElems(f["products"]) {
		var e Entry
		if err := e.UnmarshalJSON(raw); err != nil {
			continue
		}
		p.Products = append(p.Products, e)
	}
	return nil
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	f, ok := objectFields(data)
	if !ok {
		return ErrMalformed
	}
	*e = Entry{
		ID:         optInt(f["id"]),
		Name:       optString(f["name"]),
		Price:      optDecimal(f["price"]),
		Image:      optString(f["image"]),
		Similarity: optFloat(f["similarity"]),
		Quantity:   optInt(f["quantity"]),
		Area:       optFloat(f["area"]),
		Perimeter:  optFloat(f["perimeter"]),
		WallArea:   optFloat(f["wall_area"]),
	}
	for _, raw := range arrayElems(f["related_products"]) {
		var r RelatedEntry
		if err := r.UnmarshalJSON(raw); err != nil {
			continue
		}
		e.RelatedProducts = append(e.RelatedProducts, r)
	}
	return nil
}

func (r *RelatedEntry) UnmarshalJSON(data []byte) error {
	f, ok := objectFields(data)
	if !ok {
		return ErrMalformed
	}
	*r = RelatedEntry{
		ID:         optInt(f["id"]),
		Name:       optString(f["name"]),
		Price:      optDecimal(f["price"]),
		Image:      optString(f["image"]),
		Similarity: optFloat(f["similarity"]),
		Quantity:   optInt(f["quantity"]),
	}
	return nil
}

func objectFields(data []byte) (map[string]json.RawMessage, bool) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

func arrayElems(raw json.RawMessage) []json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func optString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// optFloat reads finite numbers only. "Infinity" and "NaN" strings parse
// with strconv but cannot be stored or rendered, so they count as absent.
func optFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	if s := optString(raw); s != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return &v
		}
	}
	return nil
}

// optInt accepts integral JSON numbers and numeric strings ("3"), which is
// how ids show up when the producer serialises keys as text.
func optInt(raw json.RawMessage) *int {
	f := optFloat(raw)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, which would overflow
	if *f < math.MinInt64 || *f >= math.MaxInt64 {
		return nil
	}
	v := int(*f)
	return &v
}

func optDecimal(raw json.RawMessage) *decimal.Decimal {
	if isNull(raw) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil
	}
	return &d
}
