package komga

import (
	json "github.com/goccy/go-json"
)

// Normalize turns a raw response body into a decoded value. String and
// byte bodies are parsed as JSON exactly once; anything already decoded
// passes through untouched. Every endpoint funnels its body through here
// so the parse-once policy lives in a single place.
func Normalize(raw any) (any, error) {
	switch v := raw.(type) {
	case []byte:
		var out any
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, &MalformedResponseError{Err: err}
		}
		return out, nil
	case string:
		return Normalize([]byte(v))
	default:
		return raw, nil
	}
}

// DecodeInto decodes a raw body into a typed value. Structured inputs
// are round-tripped through JSON so the target schema is enforced at the
// boundary instead of deep inside business logic.
func DecodeInto(raw, v any) error {
	switch b := raw.(type) {
	case []byte:
		if err := json.Unmarshal(b, v); err != nil {
			return &MalformedResponseError{Err: err}
		}
		return nil
	case string:
		return DecodeInto([]byte(b), v)
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return &MalformedResponseError{Err: err}
		}
		return DecodeInto(data, v)
	}
}
