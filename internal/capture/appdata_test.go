package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHTTP(t *testing.T) {
	testCases := []struct {
		payload string
		out     *HTTPLayer
	}{
		{"GET / HTTP/1.1\r\nHost: a\r\n\r\n", &HTTPLayer{RequestMethod: "GET", RequestURI: "/"}},
		{"POST /api/v1/login?x=1 HTTP/1.0\r\n", &HTTPLayer{RequestMethod: "POST", RequestURI: "/api/v1/login?x=1"}},
		{"HTTP/1.1 404 Not Found\r\n\r\n", &HTTPLayer{}},
		{"HTTP/9 200 OK\r\n", nil},
		{"GET / HTTP/1.1", nil},
		{"FETCH / HTTP/1.1\r\n", nil},
		{"GET /a b HTTP/1.1\r\n", nil},
		{"SSH-2.0-OpenSSH_9.0\r\n", nil},
		{"", nil},
	}

	for _, test := range testCases {
		assert.Equal(t, test.out, decodeHTTP([]byte(test.payload)), test.payload)
	}
}

func TestDecodeDNSRejectsShortPayload(t *testing.T) {
	assert.Nil(t, decodeDNS([]byte{0x00, 0x01}))
}
