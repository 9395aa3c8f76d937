package bolplaza

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// ContentType is the media type sent with, and signed into, every request.
const ContentType = "application/xml"

// Sign computes the X-BOL-Authorization value for a request. The remote side
// recomputes the canonical string byte for byte, so newline placement and the
// lower-case x-bol-date label are fixed.
func Sign(method, endpoint, date, publicKey, privateKey string) string {
	mac := hmac.New(sha256.New, []byte(privateKey))
	mac.Write([]byte(canonicalString(method, endpoint, date)))
	return publicKey + ":" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func canonicalString(method, endpoint, date string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteString("\n\n")
	b.WriteString(ContentType)
	b.WriteString("\n")
	b.WriteString(date)
	b.WriteString("\n")
	b.WriteString("x-bol-date:")
	b.WriteString(date)
	b.WriteString("\n")
	b.WriteString(endpoint)
	return b.String()
}
