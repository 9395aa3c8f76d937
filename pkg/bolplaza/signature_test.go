package bolplaza_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/bolplaza/pkg/bolplaza"
)

const testDate = "Tue, 13 Oct 2026 08:00:00 GMT"

func TestSign_CanonicalString(t *testing.T) {
	canonical := "GET\n\napplication/xml\n" + testDate + "\nx-bol-date:" + testDate + "\n/services/rest/orders/v2"
	mac := hmac.New(sha256.New, []byte("private"))
	mac.Write([]byte(canonical))
	want := "public:" + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, bolplaza.Sign("GET", "/services/rest/orders/v2", testDate, "public", "private"))
}

func TestSign_Deterministic(t *testing.T) {
	a := bolplaza.Sign("PUT", "/offers/v2/", testDate, "public", "private")
	b := bolplaza.Sign("PUT", "/offers/v2/", testDate, "public", "private")
	assert.Equal(t, a, b)
}

func TestSign_IgnoresQuery(t *testing.T) {
	plain := bolplaza.Sign("GET", "/services/rest/shipments/v2", testDate, "public", "private")
	withQuery := bolplaza.Sign("GET", "/services/rest/shipments/v2?page=2&fulfilmentmethod=FBR", testDate, "public", "private")
	assert.Equal(t, plain, withQuery)
}

func TestSign_UpperCasesMethod(t *testing.T) {
	assert.Equal(t,
		bolplaza.Sign("GET", "/reductions", testDate, "public", "private"),
		bolplaza.Sign("get", "/reductions", testDate, "public", "private"),
	)
}

func TestSign_EveryInputMatters(t *testing.T) {
	base := bolplaza.Sign("GET", "/reductions", testDate, "public", "private")

	assert.NotEqual(t, base, bolplaza.Sign("POST", "/reductions", testDate, "public", "private"))
	assert.NotEqual(t, base, bolplaza.Sign("GET", "/commission/v2/1", testDate, "public", "private"))
	assert.NotEqual(t, base, bolplaza.Sign("GET", "/reductions", "Wed, 14 Oct 2026 08:00:00 GMT", "public", "private"))
	assert.NotEqual(t, base, bolplaza.Sign("GET", "/reductions", testDate, "other", "private"))
	assert.NotEqual(t, base, bolplaza.Sign("GET", "/reductions", testDate, "public", "other"))
}

func TestSign_PrefixesPublicKey(t *testing.T) {
	token := bolplaza.Sign("GET", "/reductions", testDate, "my-public-key", "private")
	assert.Regexp(t, `^my-public-key:[A-Za-z0-9+/]{43}=$`, token)
}
