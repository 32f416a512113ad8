package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a decoded wire message.
type Kind int

const (
	KindUnknown Kind = iota
	KindRequest
	KindNotification
	KindResponse
)

// envelope is used only to sniff which of request/notification/response a
// raw wire message is, before committing to a concrete type.
type envelope struct {
	ID      *json.RawMessage `json:"id"`
	Method  *string          `json:"method"`
	Result  json.RawMessage  `json:"result"`
	Error   *Error           `json:"error"`
	JSONRPC string           `json:"jsonrpc"`
}

// Classify inspects a raw JSON-RPC message and reports what kind it is,
// without fully decoding it. A message with a "method" field and an "id"
// field is a request; a "method" field with no "id" is a notification;
// anything else with a "result" or "error" field is a response.
func Classify(raw []byte) (Kind, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return KindUnknown, fmt.Errorf("protocol: malformed message: %w", err)
	}

	if env.JSONRPC != JSONRPCVersion {
		return KindUnknown, fmt.Errorf("protocol: missing or unsupported jsonrpc version %q", env.JSONRPC)
	}

	if env.Method != nil {
		if env.ID != nil {
			return KindRequest, nil
		}
		return KindNotification, nil
	}

	if env.Result != nil || env.Error != nil {
		return KindResponse, nil
	}

	return KindUnknown, fmt.Errorf("protocol: message has neither method nor result/error")
}

// Decode classifies raw and decodes it into the matching concrete type,
// returned as one of *Request, *Notification, or *Response via the `any`
// return value.
func Decode(raw []byte) (any, error) {
	kind, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindRequest:
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("protocol: decode request: %w", err)
		}
		return &req, nil
	case KindNotification:
		var n Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("protocol: decode notification: %w", err)
		}
		return &n, nil
	case KindResponse:
		var resp Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("protocol: decode response: %w", err)
		}
		return &resp, nil
	default:
		return nil, fmt.Errorf("protocol: unclassifiable message")
	}
}

// Encode marshals any wire type (*Request, *Notification, *Response) to
// its JSON form.
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode: %w", err)
	}
	return raw, nil
}

// DecodeParams unmarshals a request/notification's raw Params into dst.
// An absent Params (nil) leaves dst untouched and returns nil, matching
// methods that take no arguments.
func DecodeParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("protocol: decode params: %w", err)
	}
	return nil
}
