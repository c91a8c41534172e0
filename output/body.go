package output

import (
	"fmt"
	"io"

	"github.com/velocimft/mftkit/parser"
)

func unixSeconds(ts parser.Timestamp) int64 {
	if ts.IsZero() || ts.IsCorrupt() {
		return 0
	}
	return ts.Time().Unix()
}

func sanitizeBodyField(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '|' || r == '\n' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// WriteBody writes the mactime body-file format:
// MD5|name|inode|mode_as_string|uid|gid|size|atime|mtime|ctime|crtime.
// MD5 is the actual computed digest when hashing was requested, unlike
// analyzeMFT's write_body/write_tsk, which hardcode that field to "0".
// Timestamps come from $STANDARD_INFORMATION, the field mactime-style
// timelines conventionally key off.
func WriteBody(w io.Writer, rows []Row) error {
	for _, row := range rows {
		md5 := "0"
		if row.Hash != nil && row.Hash.MD5 != "" {
			md5 = row.Hash.MD5
		}
		name := row.FullPath
		if name == "" {
			name = row.FileName
		}
		_, err := fmt.Fprintf(w, "%s|%s|%d|%s|0|0|%d|%d|%d|%d|%d\n",
			md5,
			sanitizeBodyField(name),
			row.RecordNumber,
			modeOctal(row.FileAttributes, row.IsDirectory),
			row.FileSize,
			unixSeconds(row.SIAccessed),
			unixSeconds(row.SIModified),
			unixSeconds(row.SIMFTModified),
			unixSeconds(row.SICreated),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTSK is an alias format: TSK's own bodyfile tooling consumes the
// identical pipe-delimited layout WriteBody produces.
func WriteTSK(w io.Writer, rows []Row) error {
	return WriteBody(w, rows)
}
