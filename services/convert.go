package services

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ConvertJob carries everything a converter may need: the rendered document
// on disk plus the record/report it was rendered from, so converters that
// re-render natively do not have to parse the document back.
type ConvertJob struct {
	DocPath string
	PDFPath string
	Record  *BillRecord
	Report  *Report
}

// Converter turns a rendered document into a PDF. An unavailable converter
// returns a descriptive error; the caller reports it and keeps running.
type Converter interface {
	Convert(job ConvertJob) error
}

// PandocConverter shells out to pandoc with the xelatex engine. It
// reproduces the document layout faithfully but requires pandoc and a TeX
// installation on the host.
type PandocConverter struct{}

func (PandocConverter) Convert(job ConvertJob) error {
	bin, err := exec.LookPath("pandoc")
	if err != nil {
		return fmt.Errorf("pandoc is not installed or not on PATH; install it or switch to the built-in converter: %w", err)
	}
	cmd := exec.Command(bin, job.DocPath,
		"-o", job.PDFPath,
		"--pdf-engine=xelatex",
		"-V", "mainfont=Arial",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pandoc conversion failed: %v: %s", err, out)
	}
	return nil
}

// NativeConverter renders the PDF directly from the report with maroto and
// validates the result with pdfcpu. It has no external dependencies, which
// is why it is the default.
type NativeConverter struct{}

func (NativeConverter) Convert(job ConvertJob) error {
	pdf, err := GenerateReportPDF(job.Record, job.Report)
	if err != nil {
		return fmt.Errorf("render PDF: %w", err)
	}
	if err := os.WriteFile(job.PDFPath, pdf, 0o644); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	if err := api.ValidateFile(job.PDFPath, nil); err != nil {
		return fmt.Errorf("generated PDF failed validation: %w", err)
	}
	return nil
}

// DefaultConverter picks pandoc when it is installed and falls back to the
// built-in renderer otherwise, so PDF export always works out of the box.
func DefaultConverter() Converter {
	if _, err := exec.LookPath("pandoc"); err == nil {
		return PandocConverter{}
	}
	return NativeConverter{}
}
