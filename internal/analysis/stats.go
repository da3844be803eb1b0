package analysis

import (
	"sort"
	"sync"

	"netvisor/internal/models"
)

// TrafficStats accumulates the protocol histogram and per-IP byte totals
// for one parse.
type TrafficStats struct {
	mu             sync.Mutex
	totalBytes     int64
	packets        int64
	ipBytes        map[string]int64
	ipOrder        []string // first-seen order, used to break ties
	protocolCounts map[string]int
}

// NewTrafficStats creates a new TrafficStats instance.
func NewTrafficStats() *TrafficStats {
	return &TrafficStats{
		ipBytes:        make(map[string]int64),
		protocolCounts: make(map[string]int),
	}
}

// ProcessSample applies one packet: the protocol is counted once and both
// endpoints are credited with the full length. Samples without a source or
// destination address carry no IP layer and are ignored.
func (s *TrafficStats) ProcessSample(sample models.TrafficSample) {
	if sample.SrcIP == "" && sample.DstIP == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.packets++
	s.totalBytes += sample.Length
	s.protocolCounts[sample.Protocol]++
	s.addBytes(sample.SrcIP, sample.Length)
	s.addBytes(sample.DstIP, sample.Length)
}

// AddProtocol increments the histogram entry for label.
func (s *TrafficStats) AddProtocol(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocolCounts[label]++
}

// AddBytes credits ip with n bytes. Empty addresses are ignored.
func (s *TrafficStats) AddBytes(ip string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalBytes += n
	s.addBytes(ip, n)
}

func (s *TrafficStats) addBytes(ip string, n int64) {
	if ip == "" {
		return
	}
	if _, seen := s.ipBytes[ip]; !seen {
		s.ipOrder = append(s.ipOrder, ip)
	}
	s.ipBytes[ip] += n
}

// Devices returns every IP with its total, sorted descending by bytes.
// Equal totals keep first-seen order.
func (s *TrafficStats) Devices() []models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices := make([]models.Device, 0, len(s.ipOrder))
	for _, ip := range s.ipOrder {
		devices = append(devices, models.Device{IP: ip, TotalBytes: s.ipBytes[ip]})
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].TotalBytes > devices[j].TotalBytes
	})
	return devices
}

// TopTalkers returns the top N devices by volume.
func (s *TrafficStats) TopTalkers(limit int) []models.Device {
	devices := s.Devices()
	if limit >= 0 && len(devices) > limit {
		return devices[:limit]
	}
	return devices
}

// ProtocolSummary returns a copy of the protocol histogram.
func (s *TrafficStats) ProtocolSummary() models.ProtocolSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := make(models.ProtocolSummary, len(s.protocolCounts))
	for proto, count := range s.protocolCounts {
		summary[proto] = count
	}
	return summary
}

// Packets returns how many samples carried an IP layer.
func (s *TrafficStats) Packets() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packets
}

// TotalBytes returns the sum of sample lengths and AddBytes amounts seen so far.
func (s *TrafficStats) TotalBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}
