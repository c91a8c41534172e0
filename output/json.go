package output

import (
	"encoding/json"
	"io"
)

// jsonRow is the serialized shape for WriteJSON/WriteXML - snake_case
// names, decoded values only, never analyzeMFT's raw __dict__ dump of
// internal Python object state.
type jsonRow struct {
	RecordNumber       uint64   `json:"record_number" xml:"record_number"`
	SequenceNumber     uint16   `json:"sequence_number" xml:"sequence_number"`
	ParentRecordNumber uint64   `json:"parent_record_number" xml:"parent_record_number"`
	ParentSequence     uint16   `json:"parent_sequence" xml:"parent_sequence"`
	InUse              bool     `json:"in_use" xml:"in_use"`
	IsDirectory        bool     `json:"is_directory" xml:"is_directory"`
	HasADS             bool     `json:"has_ads" xml:"has_ads"`
	ADSName            string   `json:"ads_name,omitempty" xml:"ads_name,omitempty"`
	LinkCount          uint16   `json:"link_count" xml:"link_count"`
	FileName           string   `json:"filename" xml:"filename"`
	FileNameType       string   `json:"filename_namespace" xml:"filename_namespace"`
	FullPath           string   `json:"full_path" xml:"full_path"`
	FileSize           int64    `json:"file_size" xml:"file_size"`
	SICreated          string   `json:"si_created" xml:"si_created"`
	SIModified         string   `json:"si_modified" xml:"si_modified"`
	SIMFTModified      string   `json:"si_mft_modified" xml:"si_mft_modified"`
	SIAccessed         string   `json:"si_accessed" xml:"si_accessed"`
	FNCreated          string   `json:"fn_created" xml:"fn_created"`
	FNModified         string   `json:"fn_modified" xml:"fn_modified"`
	FNMFTModified      string   `json:"fn_mft_modified" xml:"fn_mft_modified"`
	FNAccessed         string   `json:"fn_accessed" xml:"fn_accessed"`
	FileAttributes     uint32   `json:"file_attributes" xml:"file_attributes"`
	LogFileSeqNum      uint64   `json:"logfile_sequence_number" xml:"logfile_sequence_number"`
	Notes              []string `json:"notes,omitempty" xml:"notes>note,omitempty"`
	MD5                string   `json:"md5,omitempty" xml:"md5,omitempty"`
	SHA256             string   `json:"sha256,omitempty" xml:"sha256,omitempty"`
	SHA512             string   `json:"sha512,omitempty" xml:"sha512,omitempty"`
	CRC32              string   `json:"crc32,omitempty" xml:"crc32,omitempty"`
}

func (r Row) toJSONRow() jsonRow {
	jr := jsonRow{
		RecordNumber:       r.RecordNumber,
		SequenceNumber:     r.SequenceNumber,
		ParentRecordNumber: r.ParentRecordNumber,
		ParentSequence:     r.ParentSequence,
		InUse:              r.InUse,
		IsDirectory:        r.IsDirectory,
		HasADS:             r.HasADS,
		ADSName:            r.ADSName,
		LinkCount:          r.LinkCount,
		FileName:           r.FileName,
		FileNameType:       r.FileNameType,
		FullPath:           r.FullPath,
		FileSize:           r.FileSize,
		SICreated:          formatTime(r.SICreated),
		SIModified:         formatTime(r.SIModified),
		SIMFTModified:      formatTime(r.SIMFTModified),
		SIAccessed:         formatTime(r.SIAccessed),
		FNCreated:          formatTime(r.FNCreated),
		FNModified:         formatTime(r.FNModified),
		FNMFTModified:      formatTime(r.FNMFTModified),
		FNAccessed:         formatTime(r.FNAccessed),
		FileAttributes:     uint32(r.FileAttributes),
		LogFileSeqNum:      r.LogFileSeqNum,
		Notes:              r.Notes,
	}
	if r.Hash != nil {
		jr.MD5, jr.SHA256, jr.SHA512, jr.CRC32 = r.Hash.MD5, r.Hash.SHA256, r.Hash.SHA512, r.Hash.CRC32
	}
	return jr
}

// WriteJSON writes rows as a single JSON array, unlike analyzeMFT's
// write_json_chunk, which emits one file per chunk - this module's
// driver streams record-by-record internally but still produces one
// coherent output artifact per run.
func WriteJSON(w io.Writer, rows []Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toJSONRow())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
