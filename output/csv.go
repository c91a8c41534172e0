package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVHeader is the column order WriteCSV and WriteExcelCSV emit,
// grounded in analyzeMFT's CSV_HEADER but trimmed to the fields this
// module's Row actually carries.
var CSVHeader = []string{
	"record_number", "sequence_number", "parent_record_number", "parent_sequence",
	"in_use", "is_directory", "has_ads", "ads_name", "link_count",
	"filename", "filename_namespace", "full_path", "file_size",
	"si_created", "si_modified", "si_mft_modified", "si_accessed",
	"fn_created", "fn_modified", "fn_mft_modified", "fn_accessed",
	"file_attributes", "logfile_sequence_number", "notes",
	"md5", "sha256", "sha512", "crc32",
}

func (r Row) csvFields() []string {
	md5v, sha256v, sha512v, crcv := "", "", "", ""
	if r.Hash != nil {
		md5v, sha256v, sha512v, crcv = r.Hash.MD5, r.Hash.SHA256, r.Hash.SHA512, r.Hash.CRC32
	}

	return []string{
		strconv.FormatUint(r.RecordNumber, 10),
		strconv.FormatUint(uint64(r.SequenceNumber), 10),
		strconv.FormatUint(r.ParentRecordNumber, 10),
		strconv.FormatUint(uint64(r.ParentSequence), 10),
		strconv.FormatBool(r.InUse),
		strconv.FormatBool(r.IsDirectory),
		strconv.FormatBool(r.HasADS),
		r.ADSName,
		strconv.FormatUint(uint64(r.LinkCount), 10),
		r.FileName,
		r.FileNameType,
		r.FullPath,
		strconv.FormatInt(r.FileSize, 10),
		formatTime(r.SICreated),
		formatTime(r.SIModified),
		formatTime(r.SIMFTModified),
		formatTime(r.SIAccessed),
		formatTime(r.FNCreated),
		formatTime(r.FNModified),
		formatTime(r.FNMFTModified),
		formatTime(r.FNAccessed),
		strconv.FormatUint(uint64(r.FileAttributes), 10),
		strconv.FormatUint(r.LogFileSeqNum, 10),
		notesString(r.Notes),
		md5v, sha256v, sha512v, crcv,
	}
}

// WriteCSV writes rows as RFC-4180 CSV with a header row, matching
// analyzeMFT's write_csv but against this module's own schema rather
// than a dump of internal record state.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.csvFields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcelCSV renders the same schema as WriteCSV. Real .xlsx
// generation needs a workbook library absent from the retrieval pack;
// per spec.md's Open Question resolution, --excel is treated as a CSV
// variant rather than fabricating an .xlsx writer from nothing.
func WriteExcelCSV(w io.Writer, rows []Row) error {
	return WriteCSV(w, rows)
}
