package capture

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"
)

var (
	clientMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	routerMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0xfe}
	baseTime  = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
)

type frame struct {
	data []byte
	ts   time.Time
}

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))
	return buf.Bytes()
}

func ethernet() *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: clientMAC, DstMAC: routerMAC, EthernetType: layers.EthernetTypeIPv4}
}

func ipv4(src, dst string, proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: proto,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
}

func dnsQueryLayers(t *testing.T, src, dst string, srcPort layers.UDPPort, name string) []gopacket.SerializableLayer {
	ip := ipv4(src, dst, layers.IPProtocolUDP)
	udp := &layers.UDP{SrcPort: srcPort, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	dns := &layers.DNS{
		ID:     0x1234,
		RD:     true,
		OpCode: layers.DNSOpCodeQuery,
		Questions: []layers.DNSQuestion{
			{Name: []byte(name), Type: layers.DNSTypeA, Class: layers.DNSClassIN},
		},
	}
	return []gopacket.SerializableLayer{ip, udp, dns}
}

func dnsQueryFrame(t *testing.T, src, dst string, srcPort layers.UDPPort, name string) []byte {
	ls := append([]gopacket.SerializableLayer{ethernet()}, dnsQueryLayers(t, src, dst, srcPort, name)...)
	return serialize(t, ls...)
}

// rawDNSQueryFrame is a DNS query with no link-layer header (LinkTypeRaw).
func rawDNSQueryFrame(t *testing.T, src, dst string, srcPort layers.UDPPort, name string) []byte {
	return serialize(t, dnsQueryLayers(t, src, dst, srcPort, name)...)
}

func tcpFrame(t *testing.T, src, dst string, srcPort, dstPort layers.TCPPort, payload string) []byte {
	ip := ipv4(src, dst, layers.IPProtocolTCP)
	tcp := &layers.TCP{SrcPort: srcPort, DstPort: dstPort, Seq: 1, ACK: true, PSH: true, Window: 512}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ethernet(), ip, tcp, gopacket.Payload([]byte(payload)))
}

func udpFrame(t *testing.T, src, dst string, srcPort, dstPort layers.UDPPort, payload string) []byte {
	ip := ipv4(src, dst, layers.IPProtocolUDP)
	udp := &layers.UDP{SrcPort: srcPort, DstPort: dstPort}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(t, ethernet(), ip, udp, gopacket.Payload([]byte(payload)))
}

func icmpFrame(t *testing.T, src, dst string) []byte {
	icmp := &layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), Id: 1, Seq: 1}
	return serialize(t, ethernet(), ipv4(src, dst, layers.IPProtocolICMPv4), icmp, gopacket.Payload([]byte("ping")))
}

func arpFrame(t *testing.T) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       clientMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(clientMAC),
		SourceProtAddress: []byte(net.ParseIP("10.0.0.5").To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(net.ParseIP("10.0.0.1").To4()),
	}
	return serialize(t, eth, arp)
}

func stamp(frames ...[]byte) []frame {
	out := make([]frame, len(frames))
	for i, data := range frames {
		out[i] = frame{data: data, ts: baseTime.Add(time.Duration(i) * time.Second)}
	}
	return out
}

func captureInfo(f frame) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{Timestamp: f.ts, CaptureLength: len(f.data), Length: len(f.data)}
}

// writePcap writes frames to a classic pcap file and returns its path.
func writePcap(t *testing.T, frames []frame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for _, fr := range frames {
		require.NoError(t, w.WritePacket(captureInfo(fr), fr.data))
	}
	return path
}

// writePcapng writes frames to a pcapng file and returns its path.
func writePcapng(t *testing.T, frames []frame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcapng")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for _, fr := range frames {
		require.NoError(t, w.WritePacket(captureInfo(fr), fr.data))
	}
	require.NoError(t, w.Flush())
	return path
}

// writeMixedPcapng writes a pcapng with an Ethernet interface (index 0) and a
// raw IP interface (index 1). rawFrames holds the positions of frames that
// belong to the raw interface.
func writeMixedPcapng(t *testing.T, frames []frame, rawFrames ...int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mixed.pcapng")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := pcapgo.NewNgWriter(f, layers.LinkTypeEthernet)
	require.NoError(t, err)
	rawID, err := w.AddInterface(pcapgo.NgInterface{LinkType: layers.LinkTypeRaw, SnapLength: 65536})
	require.NoError(t, err)

	raw := make(map[int]bool, len(rawFrames))
	for _, i := range rawFrames {
		raw[i] = true
	}
	for i, fr := range frames {
		ci := captureInfo(fr)
		if raw[i] {
			ci.InterfaceIndex = rawID
		}
		require.NoError(t, w.WritePacket(ci, fr.data))
	}
	require.NoError(t, w.Flush())
	return path
}
