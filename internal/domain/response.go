package domain

import (
	"bytes"
	"encoding/json"
)

// APIResponse is the portal's JSON envelope, shared by the login and
// check-in endpoints.
type APIResponse struct {
	Ret Sentinel `json:"ret"`
	Msg string   `json:"msg"`
}

// Sentinel decodes the portal's success flag. Depending on the endpoint
// revision it arrives as the number 1, the string "1" or the boolean true;
// anything else means non-success. Decoding never fails so that a weird
// flag value degrades to "not a success" instead of an unparseable body.
type Sentinel bool

func (s *Sentinel) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case `1`, `"1"`, `true`:
		*s = true
	default:
		*s = false
	}
	return nil
}

func (s Sentinel) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(s))
}
