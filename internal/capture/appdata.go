package capture

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const dnsPort layers.UDPPort = 53

// maxRequestLine bounds how far into a segment we look for the first line.
const maxRequestLine = 8 * 1024

var httpMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// decodeHTTP recognizes a segment that opens an HTTP/1.x request or response.
// Continuation segments and other payloads yield nil.
func decodeHTTP(payload []byte) *HTTPLayer {
	if len(payload) == 0 {
		return nil
	}
	if len(payload) > maxRequestLine {
		payload = payload[:maxRequestLine]
	}
	end := bytes.Index(payload, []byte("\r\n"))
	if end < 0 {
		return nil
	}
	line := string(payload[:end])

	if strings.HasPrefix(line, "HTTP/") {
		proto, _, _ := strings.Cut(line, " ")
		if _, _, ok := http.ParseHTTPVersion(proto); ok {
			return &HTTPLayer{}
		}
		return nil
	}

	parts := strings.Split(line, " ")
	if len(parts) != 3 || !httpMethods[parts[0]] || parts[1] == "" {
		return nil
	}
	if _, _, ok := http.ParseHTTPVersion(parts[2]); !ok {
		return nil
	}
	return &HTTPLayer{RequestMethod: parts[0], RequestURI: parts[1]}
}

// decodeDNS parses a DNS message and keeps the first question's name. A
// message without questions still marks the layer as present.
func decodeDNS(payload []byte) *DNSLayer {
	dns := &layers.DNS{}
	if err := dns.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return nil
	}
	layer := &DNSLayer{}
	if len(dns.Questions) > 0 {
		layer.QueryName = string(dns.Questions[0].Name)
	}
	return layer
}
