package course

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

const certificateContentType = "application/pdf"

// Document is a rendered, downloadable file.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// IsCourseComplete evaluates the completion rule for an enrolled student. It has no side effects.
func (svc *Service) IsCourseComplete(ctx context.Context, studentID, courseID string) (bool, error) {
	prog, err := svc.repo.GetProgress(ctx, studentID, courseID)
	if err != nil {
		return false, errors.Wrap(err, "getting progress")
	}
	return prog.Complete(), nil
}

// RefreshCertificate completes the (student, course) certificate once the course is complete.
// A completed certificate is never reset.
func (svc *Service) RefreshCertificate(ctx context.Context, studentID, courseID string) (Certificate, error) {
	cert, err := svc.repo.GetCertificate(ctx, CertificateFilter{StudentID: studentID, CourseID: courseID})
	if err != nil {
		if err == ErrNotFound {
			return Certificate{}, ErrCertificateMissing
		}
		return Certificate{}, errors.Wrap(err, "getting certificate")
	}
	return svc.refresh(ctx, cert)
}

func (svc *Service) refresh(ctx context.Context, cert Certificate) (Certificate, error) {
	if cert.IsCompleted {
		return cert, nil
	}

	done, err := svc.IsCourseComplete(ctx, cert.StudentID, cert.CourseID)
	if err != nil || !done {
		return cert, err
	}

	flipped, err := svc.repo.CompleteCertificate(ctx, cert.ID, svc.now())
	if err != nil {
		return Certificate{}, errors.Wrap(err, "completing certificate")
	}
	if cert, err = svc.repo.GetCertificate(ctx, CertificateFilter{ID: cert.ID}); err != nil {
		return Certificate{}, errors.Wrap(err, "getting certificate")
	}
	if flipped {
		svc.notifyCompletion(cert)
	}
	return cert, nil
}

// RecheckPending re-runs the completion rule on every pending certificate.
// It returns the number of certificates completed.
func (svc *Service) RecheckPending(ctx context.Context) (int, error) {
	certs, err := svc.repo.QueryCertificates(ctx, CertificateFilter{Pending: true})
	if err != nil {
		return 0, errors.Wrap(err, "querying pending certificates")
	}
	var completed int
	for _, c := range certs {
		cert, err := svc.refresh(ctx, c)
		if err != nil {
			return completed, errors.Wrapf(err, "refreshing certificate %s", c.ID)
		}
		if cert.IsCompleted {
			completed++
		}
	}
	return completed, nil
}

// ExportCertificate renders the certificate of student p.
// Certificates of other students are reported as not found; pending ones as ErrCertificatePending.
func (svc *Service) ExportCertificate(ctx context.Context, p user.Principal, certificateID string) (Document, error) {
	cert, err := svc.repo.GetCertificate(ctx, CertificateFilter{ID: certificateID, StudentID: p.ID})
	if err != nil {
		return Document{}, err
	}
	if cert, err = svc.refresh(ctx, cert); err != nil {
		return Document{}, err
	}
	if !cert.IsCompleted {
		return Document{}, ErrCertificatePending
	}
	return svc.render(cert)
}

func (svc *Service) render(cert Certificate) (Document, error) {
	content, err := svc.renderer.Render(cert)
	if err != nil {
		return Document{}, errors.Wrap(err, "rendering certificate")
	}
	return Document{
		Filename:    fmt.Sprintf("certificate_%s.pdf", cert.ID),
		ContentType: certificateContentType,
		Content:     content,
	}, nil
}

func (svc *Service) notifyCompletion(cert Certificate) {
	if svc.mailSvc == nil || cert.StudentEmail == "" {
		return
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: cert.StudentName, Address: cert.StudentEmail}},
		Subject:      fmt.Sprintf("Certificate of Completion: %s", cert.CourseTitle),
		TemplateName: "certificate_completed",
		TemplateData: map[string]string{
			"StudentName":   cert.StudentName,
			"CourseTitle":   cert.CourseTitle,
			"CertificateID": cert.ID,
		},
	}
	if doc, err := svc.render(cert); err != nil {
		svc.logger.Error(fmt.Sprintf("rendering certificate %s: %v", cert.ID, err), err)
	} else if err = msg.Attach(bytes.NewReader(doc.Content), doc.Filename, doc.ContentType); err != nil {
		svc.logger.Error(fmt.Sprintf("attaching certificate %s: %v", cert.ID, err), err)
	}
	svc.mailSvc.SendMessages(msg)
}
