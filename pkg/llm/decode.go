package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// StripCodeFence removes a surrounding markdown code fence, with or without a
// language tag.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// DecodeStrict parses model output as exactly one JSON value into v. Unknown
// object fields and trailing content are rejected.
func DecodeStrict(raw string, v any) error {
	body := StripCodeFence(raw)
	if body == "" {
		return errors.New("decode model output: empty response")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("decode model output: unexpected trailing content")
	}

	return nil
}
