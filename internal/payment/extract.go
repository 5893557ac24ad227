package payment

import "encoding/json"

// payCodeKeys lists every field name intermediary gateways have been seen
// using for the payable code, in preference order.
var payCodeKeys = []string{
	"qrCode", "qr_code",
	"codeUrl", "code_url",
	"payUrl", "pay_url",
	"paymentUrl", "payment_url",
}

// extractPayCode pulls the payable code out of an intermediary response
// document. Top-level fields win over a nested "data" object; the first
// non-empty match is taken.
func extractPayCode(doc map[string]json.RawMessage) (string, bool) {
	if v, ok := scanPayCode(doc); ok {
		return v, true
	}

	if raw, ok := doc["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			if v, ok := scanPayCode(nested); ok {
				return v, true
			}
		}
	}
	return "", false
}

func scanPayCode(doc map[string]json.RawMessage) (string, bool) {
	for _, key := range payCodeKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}
