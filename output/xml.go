package output

import (
	"encoding/xml"
	"io"
)

type xmlDocument struct {
	XMLName xml.Name  `xml:"mft_records"`
	Records []jsonRow `xml:"record"`
}

// WriteXML writes rows as an XML document, one <record> per row,
// using the same decoded-field schema as WriteJSON rather than
// analyzeMFT's raw object-state dump.
func WriteXML(w io.Writer, rows []Row) error {
	doc := xmlDocument{Records: make([]jsonRow, 0, len(rows))}
	for _, row := range rows {
		doc.Records = append(doc.Records, row.toJSONRow())
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}
