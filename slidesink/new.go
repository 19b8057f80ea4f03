package slidesink

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatPDF       = Format("pdf")
	FormatDirectory = Format("dir")
	FormatZip       = Format("zip")
)

func Formats() []Format {
	return []Format{FormatPDF, FormatDirectory, FormatZip}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format '%s' (expected one of %v)", s, Formats())
}

// Extension is appended to "<name>_slides" to build the output path; it is
// empty for directories.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatZip:
		return ".zip"
	}
	return ""
}

func New(format Format, path string) (Sink, error) {
	switch format {
	case FormatPDF:
		return NewPDF(path), nil
	case FormatDirectory:
		return NewDirectory(path), nil
	case FormatZip:
		return NewZip(path), nil
	}
	return nil, fmt.Errorf("unknown output format '%s'", format)
}
