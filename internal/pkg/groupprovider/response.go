package groupprovider

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// InviteLinkPrefix is the public join URL for an invite code
const InviteLinkPrefix = "https://chat.whatsapp.com/"

// DefaultAddFailure is reported when the add response carries neither a success
// marker nor an error message.
const DefaultAddFailure = "no success indicator in provider response"

// ErrInviteCodeMissing is returned when an invite response holds no usable code
var ErrInviteCodeMissing = errors.New("invite code not found in provider response")

// inviteCodeKeys are probed in order; the first non-empty string wins
var inviteCodeKeys = []string{"inviteCode", "invite_code", "code", "invite", "inviteLink", "invite_link", "link", "url"}

// AddResult is the interpretation of a direct-add response body
type AddResult struct {
	Success bool
	// Reason is set when Success is false
	Reason string
	// Response is the decoded provider body (raw JSON or plain text)
	Response interface{}
}

func isCode200(v interface{}) bool {
	n, ok := v.(float64)
	return ok && n == 200
}

func textIndicatesSuccess(text string) bool {
	return strings.Contains(text, "200") || strings.Contains(strings.ToLower(text), "success")
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// errorMessage extracts "error" as a string or as {"message": ...}
func errorMessage(m map[string]interface{}) string {
	switch e := m["error"].(type) {
	case string:
		return strings.TrimSpace(e)
	case map[string]interface{}:
		return stringField(e, "message")
	}
	return ""
}

// rawResponse keeps JSON bodies verbatim and anything else as text
func rawResponse(body []byte) interface{} {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

// InterpretAddResponse decides whether a participants/add body reports success.
// The HTTP status is not consulted; providers answer 200 with embedded failures
// and vice versa. Rules, first match wins:
//  1. body[participantID].code == 200
//  2. body.code == 200
//  3. body.success == true
//  4. a text body containing "200" or "success" (any case)
func InterpretAddResponse(body []byte, participantID string) AddResult {
	result := AddResult{Response: rawResponse(body)}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		if textIndicatesSuccess(string(body)) {
			result.Success = true
			return result
		}
		result.Reason = DefaultAddFailure
		return result
	}

	switch v := decoded.(type) {
	case map[string]interface{}:
		nested, _ := v[participantID].(map[string]interface{})
		if nested != nil && isCode200(nested["code"]) {
			result.Success = true
			return result
		}
		if isCode200(v["code"]) {
			result.Success = true
			return result
		}
		if ok, _ := v["success"].(bool); ok {
			result.Success = true
			return result
		}

		switch {
		case nested != nil && stringField(nested, "message") != "":
			result.Reason = stringField(nested, "message")
		case errorMessage(v) != "":
			result.Reason = errorMessage(v)
		case stringField(v, "message") != "":
			result.Reason = stringField(v, "message")
		default:
			result.Reason = DefaultAddFailure
		}
		return result
	case string:
		result.Success = textIndicatesSuccess(v)
	case []interface{}:
		result.Success = false
	default:
		// numbers, booleans and null are judged on their literal text
		result.Success = textIndicatesSuccess(strings.TrimSpace(string(body)))
	}

	if !result.Success {
		result.Reason = DefaultAddFailure
	}
	return result
}

// ExtractInviteCode finds the invite code in an invite-code response body.
// Objects are probed by key, JSON strings and plain text are used as-is, and
// any join-URL prefix is stripped.
func ExtractInviteCode(body []byte) (string, error) {
	var candidate string

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		candidate = string(body)
	} else {
		switch v := decoded.(type) {
		case map[string]interface{}:
			for _, key := range inviteCodeKeys {
				if s := stringField(v, key); s != "" {
					candidate = s
					break
				}
			}
		case string:
			candidate = v
		}
	}

	code := NormalizeInviteCode(candidate)
	if code == "" {
		return "", ErrInviteCodeMissing
	}
	return code, nil
}

// NormalizeInviteCode strips whitespace, any URL up to "chat.whatsapp.com/",
// query strings and trailing slashes.
func NormalizeInviteCode(raw string) string {
	code := strings.TrimSpace(raw)

	const host = "chat.whatsapp.com/"
	if idx := strings.Index(strings.ToLower(code), host); idx >= 0 {
		code = code[idx+len(host):]
	}
	if idx := strings.IndexAny(code, "?#"); idx >= 0 {
		code = code[:idx]
	}
	return strings.TrimSpace(strings.Trim(code, "/"))
}

// InviteLink builds the canonical join link for code
func InviteLink(code string) string {
	return InviteLinkPrefix + code
}
