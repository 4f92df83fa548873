// Package cursor encodes news sort keys into opaque continuation tokens.
//
// A token is the base64url encoding of the JSON array [date, id]. The format
// is internal: the only contract is that Decode(Encode(k)) == k.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"markets-engine/internal/model"
)

// Encode returns the token for k, or "" for the zero key.
func Encode(k model.SortKey) string {
	if k.IsZero() {
		return ""
	}
	raw, err := json.Marshal([2]string{k.Date, k.ID})
	if err != nil {
		// [2]string always marshals
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by Encode. Padded input is accepted.
// Malformed tokens fail with model.ErrInvalidArgument.
func Decode(token string) (model.SortKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return model.SortKey{}, model.InvalidArgument("cursor", "not valid base64url")
	}

	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return model.SortKey{}, model.InvalidArgument("cursor", "malformed payload")
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.SortKey{}, model.InvalidArgument("cursor", "expected a [date, id] pair")
	}
	return model.SortKey{Date: parts[0], ID: parts[1]}, nil
}
