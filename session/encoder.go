package session

import (
	"encoding/json"
	"fmt"
)

// EncodeProfile serializes p into the JSON document stored under the profile key.
func EncodeProfile(p Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeProfile parses a stored profile document. Unknown fields are ignored;
// a document that is not JSON or lacks name/email yields ErrInvalidProfile.
func DecodeProfile(raw string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
