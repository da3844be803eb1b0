package zeek

import (
	"io"
	"strings"
	"testing"

	"netvisor/internal/models"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const connHeader = "#fields\tts\tid.orig_h\tid.orig_p\tid.resp_h\tid.resp_p\tproto\tservice\torig_bytes\tresp_bytes\n"

func parse(t *testing.T, log string) *models.ParseResult {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	result, err := ParseConnLog(strings.NewReader(log), logger)
	require.NoError(t, err)
	return result
}

func TestParseConnLogRoundTrip(t *testing.T) {
	result := parse(t, connHeader+"100.0\t10.0.0.1\t5000\t10.0.0.2\t80\ttcp\thttp\t500\t1000\n")

	assert.Equal(t, models.ProtocolSummary{"tcp": 1}, result.ProtocolSummary)
	assert.Equal(t, []models.Device{
		{IP: "10.0.0.2", TotalBytes: 1000},
		{IP: "10.0.0.1", TotalBytes: 500},
	}, result.Devices)

	require.Len(t, result.DetailedEvents, 1)
	assert.Equal(t, models.Event{
		Date:            "1970-01-01",
		Time:            "00:01:40",
		ServerIP:        "10.0.0.2",
		ServerPort:      "80",
		EntryVectorIP:   "10.0.0.1",
		EntryVectorPort: "5000",
		Protocol:        "tcp",
		Service:         "http",
		AppLayerInfo:    map[string]string{},
	}, result.DetailedEvents[0])
}

func TestParseConnLogAggregation(t *testing.T) {
	log := "#separator \\x09\n" +
		"#path\tconn\n" +
		connHeader +
		"#types\ttime\taddr\tport\taddr\tport\tenum\tstring\tcount\tcount\n" +
		"1700000000.5\t10.0.0.1\t5000\t10.0.0.2\t80\ttcp\thttp\t100\t200\n" +
		"1700000001.0\t10.0.0.2\t6000\t10.0.0.3\t53\tudp\tdns\t40\t60\n" +
		"1700000002.0\t10.0.0.4\t7000\t10.0.0.1\t22\ttcp\t-\t-\tbogus\n" +
		"\n" +
		"1700000003.0\t10.0.0.5\t0\t10.0.0.6\t0\ticmp\t-\t12.9\t-7\n" +
		"#close\t2023-11-14-22-13-20\n"

	result := parse(t, log)

	// Every data row counts once.
	total := 0
	for _, count := range result.ProtocolSummary {
		total += count
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, models.ProtocolSummary{"tcp": 2, "udp": 1, "icmp": 1}, result.ProtocolSummary)

	// 10.0.0.1: orig 100 + resp 0 ("bogus"); 10.0.0.2: resp 200 + orig 40;
	// 10.0.0.3 responder only; 10.0.0.4 originator with "-" bytes.
	assert.Equal(t, []models.Device{
		{IP: "10.0.0.2", TotalBytes: 240},
		{IP: "10.0.0.1", TotalBytes: 100},
		{IP: "10.0.0.3", TotalBytes: 60},
		{IP: "10.0.0.5", TotalBytes: 12},
		{IP: "10.0.0.4", TotalBytes: 0},
		{IP: "10.0.0.6", TotalBytes: 0},
	}, result.Devices)

	require.Len(t, result.DetailedEvents, 4)
	assert.Equal(t, "2023-11-14", result.DetailedEvents[0].Date)
	assert.Equal(t, "22:13:20", result.DetailedEvents[0].Time)
	assert.Equal(t, models.NotAvailable, result.DetailedEvents[2].Service)
	assert.Equal(t, "dns", result.DetailedEvents[1].Service)
	for _, event := range result.DetailedEvents {
		assert.Empty(t, event.AppLayerInfo)
	}
}

func TestParseConnLogMissingSchema(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	result, err := ParseConnLog(strings.NewReader("100.0\t10.0.0.1\ttcp\n"), logger)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
	assert.Nil(t, result)
	assert.Empty(t, hook.AllEntries())
}

func TestParseConnLogMalformedRecords(t *testing.T) {
	testCases := []struct {
		name string
		row  string
	}{
		{"unset ts", "-\t10.0.0.1\t1\t10.0.0.2\t2\ttcp\t-\t1\t1\n"},
		{"text ts", "yesterday\t10.0.0.1\t1\t10.0.0.2\t2\ttcp\t-\t1\t1\n"},
		{"unset proto", "100.0\t10.0.0.1\t1\t10.0.0.2\t2\t-\t-\t1\t1\n"},
	}

	for _, test := range testCases {
		result, err := ParseConnLog(strings.NewReader(connHeader+test.row), nil)
		assert.ErrorIs(t, err, ErrMalformedRecord, test.name)
		assert.Nil(t, result, test.name)
	}
}

func TestParseConnLogOverlongLine(t *testing.T) {
	row := "100.0\t10.0.0.1\t1\t10.0.0.2\t2\ttcp\t" + strings.Repeat("x", maxLineLength) + "\t1\t1\n"

	result, err := ParseConnLog(strings.NewReader(connHeader+row), nil)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")
	assert.Nil(t, result)
}

func TestParseConnLogHeaderOnly(t *testing.T) {
	result := parse(t, connHeader)

	assert.Empty(t, result.ProtocolSummary)
	assert.NotNil(t, result.Devices)
	assert.Empty(t, result.Devices)
	assert.NotNil(t, result.DetailedEvents)
	assert.Empty(t, result.DetailedEvents)
}

func TestParseConnLogShortRowAndMissingHosts(t *testing.T) {
	result := parse(t, connHeader+"100.0\t-\t-\t10.0.0.9\t443\ttcp\n")

	assert.Equal(t, []models.Device{{IP: "10.0.0.9", TotalBytes: 0}}, result.Devices)
	require.Len(t, result.DetailedEvents, 1)
	event := result.DetailedEvents[0]
	assert.Equal(t, models.NotAvailable, event.EntryVectorIP)
	assert.Equal(t, models.NotAvailable, event.EntryVectorPort)
	assert.Equal(t, models.NotAvailable, event.Service)
	assert.Equal(t, "443", event.ServerPort)
}

func TestParseBytesOrZero(t *testing.T) {
	testCases := []struct {
		in  string
		out int64
	}{
		{"", 0},
		{"1500", 1500},
		{"12.75", 12},
		{"-5", 0},
		{"-", 0},
		{"abc", 0},
		{"NaN", 0},
		{"1e3", 1000},
	}

	for _, test := range testCases {
		assert.Equal(t, test.out, parseBytesOrZero(test.in), test.in)
	}
}

func TestReaderSkipsComments(t *testing.T) {
	log := connHeader + "#types\ttime\n" + "100.0\ta\t1\tb\t2\ttcp\t-\t1\t2\n"
	schema, err := DetectSchema(strings.NewReader(log))
	require.NoError(t, err)

	reader := NewReader(strings.NewReader(log), schema)
	rec, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", rec.OrigHost)
	assert.EqualValues(t, 2, rec.RespBytes)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 1, reader.Rows())
}
