package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	trust, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.7:5000"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")
	r.Header.Set("X-Real-IP", "5.6.7.8")
	assert.Equal(t, "198.51.100.7", trust.ClientIP(r))

	var none *ProxyTrust
	assert.Equal(t, "198.51.100.7", none.ClientIP(r))
}

func TestClientIP_TrustedProxyChain(t *testing.T) {
	trust, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4321"
	// The leftmost entry is client supplied; the rightmost untrusted hop is the real caller.
	r.Header.Set("X-Forwarded-For", "6.6.6.6, 203.0.113.9, 192.168.1.1")
	assert.Equal(t, "203.0.113.9", trust.ClientIP(r))

	r.Header.Set("X-Forwarded-For", "10.1.1.1, 10.2.2.2")
	assert.Equal(t, "10.1.1.1", trust.ClientIP(r))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "172.16.0.1")
	assert.Equal(t, "172.16.0.1", trust.ClientIP(r))

	r.Header.Set("X-Real-IP", "garbage")
	assert.Equal(t, "10.0.0.5", trust.ClientIP(r))
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4321"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "10.0.0.5", GetClientIP(r))

	r = r.WithContext(WithClientIP(r.Context(), "203.0.113.9"))
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
}
