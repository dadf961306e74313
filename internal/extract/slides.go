package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"
)

// extractSlides collects the text of every text-bearing shape, slide by slide.
// A slide that fails to parse stops extraction; earlier slides are kept.
func extractSlides(data []byte, entryLimit int64) Result {
	var res Result

	zr, err := openZip(data)
	if err != nil {
		res.warn("open pptx: %v", err)
		return res
	}

	slides := slideFiles(zr)
	if len(slides) == 0 {
		res.warn("pptx contains no slides")
		return res
	}

	var buf strings.Builder
	for _, f := range slides {
		rc, err := openZipEntry(f, entryLimit)
		if err != nil {
			res.warn("%v", err)
			break
		}
		shapes, err := slideShapeTexts(rc)
		_ = rc.Close()
		for _, text := range shapes {
			buf.WriteString(text)
			buf.WriteString("\n")
		}
		if err != nil {
			res.warn("parse %s: %v", zipEntryName(f), err)
			break
		}
	}
	res.Text = buf.String()
	return res
}

// slideFiles returns ppt/slides/slideN.xml entries ordered by N.
func slideFiles(zr *zip.Reader) []*zip.File {
	type numbered struct {
		n int
		f *zip.File
	}
	var found []numbered
	for _, f := range zr.File {
		name := zipEntryName(f)
		if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		numPart := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
		n, err := strconv.Atoi(numPart)
		if err != nil {
			continue
		}
		found = append(found, numbered{n: n, f: f})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	out := make([]*zip.File, 0, len(found))
	for _, item := range found {
		out = append(out, item.f)
	}
	return out
}

// slideShapeTexts returns one string per shape that carries text; paragraphs within a
// shape are newline separated. Shapes completed before a decode error are returned
// along with the error.
func slideShapeTexts(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		shapes     []string
		shape      strings.Builder
		paragraphs int
		shapeDepth int
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return shapes, nil
		}
		if err != nil {
			return shapes, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "sp" && t.Name.Space != drawingMLNS:
				shapeDepth++
				if shapeDepth == 1 {
					shape.Reset()
					paragraphs = 0
				}
			case shapeDepth > 0 && t.Name.Space == drawingMLNS && t.Name.Local == "p":
				if paragraphs > 0 {
					shape.WriteString("\n")
				}
				paragraphs++
			case shapeDepth > 0 && t.Name.Space == drawingMLNS && t.Name.Local == "br":
				shape.WriteString("\n")
			case shapeDepth > 0 && t.Name.Space == drawingMLNS && t.Name.Local == "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				shape.Write(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Space == drawingMLNS && t.Name.Local == "t":
				inText = false
			case t.Name.Local == "sp" && t.Name.Space != drawingMLNS && shapeDepth > 0:
				shapeDepth--
				if shapeDepth == 0 {
					if text := shape.String(); strings.TrimSpace(text) != "" {
						shapes = append(shapes, text)
					}
				}
			}
		}
	}
}
