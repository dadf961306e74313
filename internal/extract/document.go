package extract

import (
	"encoding/xml"
	"io"
	"strings"
)

func extractDocument(data []byte, entryLimit int64) Result {
	var res Result

	zr, err := openZip(data)
	if err != nil {
		res.warn("open docx: %v", err)
		return res
	}

	for _, f := range zr.File {
		if zipEntryName(f) != "word/document.xml" {
			continue
		}
		rc, err := openZipEntry(f, entryLimit)
		if err != nil {
			res.warn("%v", err)
			return res
		}
		text, err := stripDocxXML(rc)
		_ = rc.Close()
		res.Text = text
		if err != nil {
			res.warn("parse word/document.xml: %v", err)
		}
		return res
	}

	res.warn("docx is missing word/document.xml")
	return res
}

// stripDocxXML keeps character data and turns paragraph and line breaks into newlines.
func stripDocxXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(buf.String()), err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
