package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocimft/mftkit/hashpipeline"
	"github.com/velocimft/mftkit/parser"
)

func sampleRows() []Row {
	created := parser.DecodeFiletime(uint64(1600000000+11644473600) * 10000000)
	return []Row{
		{
			RecordNumber: 42,
			FileName:     "notepad.exe",
			FullPath:     `\Windows\System32\notepad.exe`,
			FileSize:     1024,
			SICreated:    created,
			FNCreated:    created,
			Notes:        []string{"std-fn-shift"},
			Hash:         &hashpipeline.Digest{MD5: "abc123"},
		},
		{
			RecordNumber: 43,
			FileName:     "deleted.txt",
			FullPath:     `\Users\deleted.txt`,
			HasADS:       true,
			ADSName:      "Zone.Identifier",
		},
	}
}

func TestWriteCSVHasHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	reader := csv.NewReader(&buf)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, "42", records[1][0])
}

func TestWriteExcelCSVMatchesCSV(t *testing.T) {
	var csvBuf, excelBuf bytes.Buffer
	require.NoError(t, WriteCSV(&csvBuf, sampleRows()))
	require.NoError(t, WriteExcelCSV(&excelBuf, sampleRows()))
	assert.Equal(t, csvBuf.String(), excelBuf.String())
}

func TestWriteJSONProducesArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "notepad.exe", decoded[0]["filename"])
}

func TestWriteXMLWellFormed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleRows()))
	assert.True(t, strings.Contains(buf.String(), "<mft_records>"))
	assert.True(t, strings.Contains(buf.String(), "<record>"))
}

func TestWriteBodyFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBody(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[0], "|")
	require.Len(t, fields, 11)
	assert.Equal(t, "abc123", fields[0])
}

func TestWriteTSKIsAliasOfBody(t *testing.T) {
	var bodyBuf, tskBuf bytes.Buffer
	require.NoError(t, WriteBody(&bodyBuf, sampleRows()))
	require.NoError(t, WriteTSK(&tskBuf, sampleRows()))
	assert.Equal(t, bodyBuf.String(), tskBuf.String())
}

func TestWriteTimelineFiveColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTimeline(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	fields := strings.Split(lines[0], "|")
	assert.Len(t, fields, 5)
}

func TestWriteL2THeaderAnd17Columns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteL2T(&buf, sampleRows()))

	reader := csv.NewReader(&buf)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, l2tHeader, records[0])
	for _, rec := range records[1:] {
		assert.Len(t, rec, 17)
	}
}

func TestFromRecordEmitsADSRow(t *testing.T) {
	rec := &parser.Record{
		RecordNumber: 1,
		Flags:        parser.FlagInUse,
		Attributes: []parser.Attribute{
			{Type: parser.AttrData, Name: "", DataSize: 10},
			{Type: parser.AttrData, Name: "Zone.Identifier", DataSize: 26},
		},
	}

	rows := FromRecord(rec, `\foo.txt`, nil, nil)
	require.Len(t, rows, 2)

	var sawADS bool
	for _, r := range rows {
		if r.HasADS && r.ADSName == "Zone.Identifier" {
			sawADS = true
			assert.Equal(t, int64(26), r.FileSize)
		}
	}
	assert.True(t, sawADS)
}

func TestFromRecordPrefersWin32AndDOSNamespace(t *testing.T) {
	rec := &parser.Record{
		RecordNumber: 2,
		Flags:        parser.FlagInUse,
		Attributes: []parser.Attribute{
			{Type: parser.AttrFileName, Resident: true, Payload: &parser.FileName{
				Name: "LONGNA~1.TXT", Namespace: parser.NamespaceDOS,
			}},
			{Type: parser.AttrFileName, Resident: true, Payload: &parser.FileName{
				Name: "longname.txt", Namespace: parser.NamespaceWin32AndDOS,
			}},
		},
	}

	rows := FromRecord(rec, `\longname.txt`, nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "longname.txt", rows[0].FileName)
}
