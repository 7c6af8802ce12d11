package auth

import (
	"strings"

	"github.com/pquerna/otp/totp"
)

// CodeLength is the number of digits in an authenticator-app code.
const CodeLength = 6

// TOTPProvider generates and validates authenticator-app factors.
type TOTPProvider struct {
	issuer string
}

// NewTOTPProvider creates a provider whose enrollment URIs carry the given issuer.
func NewTOTPProvider(issuer string) *TOTPProvider {
	return &TOTPProvider{issuer: issuer}
}

// Enrollment is a freshly generated factor awaiting activation.
type Enrollment struct {
	Secret string // base32
	URI    string // otpauth:// URI for the client to render as a QR code
}

// GenerateEnrollment creates a new secret and its otpauth URI for account.
func (p *TOTPProvider) GenerateEnrollment(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, err
	}
	return &Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// ValidateCode checks a 6-digit code against a base32 secret.
func (p *TOTPProvider) ValidateCode(code, secret string) bool {
	return totp.Validate(code, secret)
}

// NormalizeCode strips non-digit characters and caps the result at
// CodeLength, matching what the input widget does before submission.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == CodeLength {
			break
		}
	}
	return b.String()
}

// ValidCodeFormat reports whether code is exactly CodeLength digits.
func ValidCodeFormat(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
