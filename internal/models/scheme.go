package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemeRecord is one welfare scheme selected for a profile.
type SchemeRecord struct {
	SchemeName  string `json:"scheme_name"`
	Summary     string `json:"summary"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}

// SchemeMatch is the Scheme Matcher result. Every Schemes[i].Link is in Sources.
type SchemeMatch struct {
	Schemes []SchemeRecord `json:"schemes"`
	Sources []string       `json:"sources"`
}

// UserProfile is the citizen profile used to condition scheme search.
// All fields are optional.
type UserProfile struct {
	Occupation      string `json:"occupation,omitempty"`
	State           string `json:"state,omitempty"`
	Category        string `json:"category,omitempty"`
	Sex             string `json:"sex,omitempty"`
	MaritalStatus   string `json:"maritalStatus,omitempty"`
	ParentalStatus  string `json:"parentalStatus,omitempty"`
	IsOnlyGirlChild bool   `json:"isOnlyGirlChild,omitempty"`
}

// IsEmpty reports whether no field is populated.
func (p UserProfile) IsEmpty() bool {
	return p == UserProfile{}
}

// UnmarshalJSON accepts the loose shapes clients send: strings may be padded,
// the girl-child flag may be a bool or a "yes"/"true" string, and unknown keys
// are ignored.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}

	str := func(key string) (string, error) {
		v, ok := raw[key]
		if !ok || v == nil {
			return "", nil
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("decode profile: %s must be a string", key)
		}
		return strings.TrimSpace(s), nil
	}

	var out UserProfile
	var err error
	fields := []struct {
		key string
		dst *string
	}{
		{"occupation", &out.Occupation},
		{"state", &out.State},
		{"category", &out.Category},
		{"sex", &out.Sex},
		{"maritalStatus", &out.MaritalStatus},
		{"parentalStatus", &out.ParentalStatus},
	}
	for _, f := range fields {
		if *f.dst, err = str(f.key); err != nil {
			return err
		}
	}

	switch v := raw["isOnlyGirlChild"].(type) {
	case bool:
		out.IsOnlyGirlChild = v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1":
			out.IsOnlyGirlChild = true
		}
	}

	*p = out
	return nil
}
