package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart  = "word/document.xml"
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// decodeDocx returns the body paragraphs of a Word document joined by
// newlines. Empty paragraphs stay as empty lines; paragraphs inside tables,
// text boxes and headers are not body paragraphs.
func decodeDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx archive: %w", ErrExtraction, err)
	}

	part, err := zr.Open(documentPart)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtraction, documentPart, err)
	}
	defer part.Close()

	paragraphs, err := bodyParagraphs(part)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %w", ErrExtraction, documentPart, err)
	}

	return strings.Join(paragraphs, "\n"), nil
}

func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		path       []string
		paragraphs []string
		current    *strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			path = append(path, localName(el.Name))
			switch {
			case isBodyParagraph(path):
				current = &strings.Builder{}
			case current != nil && inRun(path):
				switch path[len(path)-1] {
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if len(path) == 0 {
				return nil, errors.New("unbalanced document")
			}
			if isBodyParagraph(path) && current != nil {
				paragraphs = append(paragraphs, current.String())
				current = nil
			}
			path = path[:len(path)-1]
		case xml.CharData:
			if current != nil && inRun(path) && path[len(path)-1] == "t" {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}

// localName keeps the local part of WordprocessingML names only, so that
// elements of other namespaces never match.
func localName(name xml.Name) string {
	if name.Space == wordNamespace {
		return name.Local
	}
	return name.Space + " " + name.Local
}

func isBodyParagraph(path []string) bool {
	return len(path) == 3 && path[0] == "document" && path[1] == "body" && path[2] == "p"
}

// inRun reports whether the innermost element of path is a direct child of a
// run of a body paragraph, possibly through a hyperlink.
func inRun(path []string) bool {
	switch {
	case len(path) == 5:
		return isBodyParagraph(path[:3]) && path[3] == "r"
	case len(path) == 6:
		return isBodyParagraph(path[:3]) && path[3] == "hyperlink" && path[4] == "r"
	default:
		return false
	}
}
