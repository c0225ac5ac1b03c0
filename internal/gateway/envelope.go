package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/go-playground/validator/v10"
)

// Bounds of the metadata bag. Keys outside the typed set are tolerated up to
// these limits and are never interpreted.
const (
	MaxMetadataExtraKeys  = 50
	MaxMetadataKeyLength  = 40
	MaxMetadataValueBytes = 500
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Metadata is the merchant-controlled bag attached to a provider object.
// Only the typed references are read; other keys are kept verbatim.
type Metadata struct {
	AppointmentID   *string
	PaymentIntentID *string
	Extra           map[string]json.RawMessage
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domainErrors.NewValidationError("metadata", "must be an object")
	}

	extraKeys := make([]string, 0, len(raw))
	for key := range raw {
		if key != "appointment_id" && key != "payment_intent_id" {
			extraKeys = append(extraKeys, key)
		}
	}
	if len(extraKeys) > MaxMetadataExtraKeys {
		return domainErrors.NewValidationError("metadata", fmt.Sprintf("more than %d extra keys", MaxMetadataExtraKeys))
	}
	sort.Strings(extraKeys)

	var err error
	if m.AppointmentID, err = optionalString("metadata.appointment_id", raw["appointment_id"]); err != nil {
		return err
	}
	if m.PaymentIntentID, err = optionalString("metadata.payment_intent_id", raw["payment_intent_id"]); err != nil {
		return err
	}

	m.Extra = make(map[string]json.RawMessage, len(extraKeys))
	for _, key := range extraKeys {
		if len(key) > MaxMetadataKeyLength {
			return domainErrors.NewValidationError("metadata", fmt.Sprintf("key %.40q... exceeds %d characters", key, MaxMetadataKeyLength))
		}
		if len(raw[key]) > MaxMetadataValueBytes {
			return domainErrors.NewValidationError("metadata."+key, fmt.Sprintf("value exceeds %d bytes", MaxMetadataValueBytes))
		}
		m.Extra[key] = raw[key]
	}
	return nil
}

// optionalString decodes a value that must be a JSON string or null.
func optionalString(field string, raw json.RawMessage) (*string, error) {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, domainErrors.NewValidationError(field, "must be a string")
	}
	return &s, nil
}

// decodeStrict decodes body into dst rejecting unknown fields, type
// mismatches and trailing data, then runs struct validation.
func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var ve *domainErrors.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return domainErrors.NewValidationError("body", "unexpected trailing data")
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Namespace(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// IsJSONObject reports whether body is a single syntactically valid JSON object.
func IsJSONObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
