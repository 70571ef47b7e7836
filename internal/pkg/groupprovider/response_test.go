package groupprovider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pid = "15551234567@c.us"

func TestInterpretAddResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		success bool
		reason  string
	}{
		{"nested participant code", `{"15551234567@c.us":{"code":200,"message":null}}`, true, ""},
		{"top level code", `{"code":200}`, true, ""},
		{"success flag", `{"success":true}`, true, ""},
		{"json string with 200", `"status 200"`, true, ""},
		{"plain text success", `Participant added successfully`, true, ""},
		{"plain text SUCCESS any case", `SUCCESS`, true, ""},
		{"numeric literal", `200`, true, ""},
		{"nested failure message", `{"15551234567@c.us":{"code":403,"message":"privacy settings"}}`, false, "privacy settings"},
		{"top level error", `{"error":"rate limited"}`, false, "rate limited"},
		{"error object", `{"error":{"message":"session not ready"}}`, false, "session not ready"},
		{"message only", `{"message":"bad request"}`, false, "bad request"},
		{"code as string is not numeric", `{"code":"200"}`, false, DefaultAddFailure},
		{"success false", `{"success":false}`, false, DefaultAddFailure},
		{"plain text failure", `forbidden`, false, DefaultAddFailure},
		{"empty body", ``, false, DefaultAddFailure},
		{"array", `[{"code":200}]`, false, DefaultAddFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpretAddResponse([]byte(tt.body), pid)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestInterpretAddResponse_NestedWinsOverTopLevelError(t *testing.T) {
	got := InterpretAddResponse([]byte(`{"error":"ignored","15551234567@c.us":{"code":200}}`), pid)
	assert.True(t, got.Success)
}

func TestExtractInviteCode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"inviteCode key", `{"inviteCode":"ABC123"}`, "ABC123"},
		{"snake case key", `{"invite_code":"XYZ"}`, "XYZ"},
		{"key order", `{"link":"https://chat.whatsapp.com/LINK","code":"CODE"}`, "CODE"},
		{"skips non-string code", `{"code":200,"url":"https://chat.whatsapp.com/FromURL"}`, "FromURL"},
		{"skips blank", `{"inviteCode":"  ","invite":"INV"}`, "INV"},
		{"full link string", `"https://chat.whatsapp.com/Gx7Lk"`, "Gx7Lk"},
		{"plain text link", "https://chat.whatsapp.com/Plain9\n", "Plain9"},
		{"plain code", "  RAW42  ", "RAW42"},
		{"query and slash", `{"url":"https://chat.whatsapp.com/Q1/?utm=x"}`, "Q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ExtractInviteCode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestExtractInviteCode_Missing(t *testing.T) {
	for _, body := range []string{`{}`, `{"code":200}`, `""`, `   `, `[]`, `{"link":"https://chat.whatsapp.com/"}`} {
		_, err := ExtractInviteCode([]byte(body))
		assert.True(t, errors.Is(err, ErrInviteCodeMissing), body)
	}
}

func TestInviteLink(t *testing.T) {
	assert.Equal(t, "https://chat.whatsapp.com/ABC123", InviteLink("ABC123"))
}
