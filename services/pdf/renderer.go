package pdfsvc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

const (
	pageWidth  = 612.0 // US letter, in points
	pageHeight = 792.0
	inch       = 72.0
	font       = "Helvetica"
)

// Renderer draws certificates of completion as single page PDFs.
type Renderer struct {
	issuer string
}

var _ course.CertificateRenderer = (*Renderer)(nil)

func NewRenderer(issuer string) *Renderer {
	return &Renderer{issuer: issuer}
}

func (r *Renderer) Render(cert course.Certificate) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAuthor(r.issuer, true)
	pdf.SetCreator(r.issuer, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// borders
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(3)
	pdf.Rect(0.5*inch, 0.5*inch, pageWidth-inch, pageHeight-inch, "D")
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(1)
	pdf.Rect(0.75*inch, 0.75*inch, pageWidth-1.5*inch, pageHeight-1.5*inch, "D")

	centered := func(y float64, style string, size float64, txt string) {
		pdf.SetFont(font, style, size)
		pdf.SetXY(inch, y)
		pdf.CellFormat(pageWidth-2*inch, size+4, tr(txt), "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	centered(1.5*inch, "B", 30, r.issuer)
	centered(2.4*inch, "B", 26, "Certificate of Completion")
	centered(3.2*inch, "", 16, "This is to certify that")
	centered(3.8*inch, "B", 24, cert.StudentName)
	centered(4.5*inch, "", 16, "has successfully completed the course")
	centered(5.0*inch, "B", 20, cert.CourseTitle)

	centered(6.0*inch, "", 12, fmt.Sprintf("Instructor: %s", cert.InstructorName))
	centered(6.3*inch, "", 12, fmt.Sprintf("Date of Issue: %s", cert.IssueDate().Format("2006-01-02")))
	centered(6.6*inch, "", 10, fmt.Sprintf("Certificate ID: %s", cert.ID))

	// signature
	sigY := 9.4 * inch
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	pdf.Line(pageWidth/2-1.5*inch, sigY, pageWidth/2+1.5*inch, sigY)
	centered(sigY-0.35*inch, "I", 14, cert.InstructorName)
	centered(sigY+0.1*inch, "", 11, "Instructor")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing pdf")
	}
	return buf.Bytes(), nil
}
