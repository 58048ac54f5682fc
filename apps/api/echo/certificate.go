package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

func (h *handler) certificateExport(ctx echo.Context) error {
	doc, err := h.courseSvc.ExportCertificate(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("certificate_id"))
	if err != nil {
		if errors.Cause(err) == course.ErrCertificatePending {
			return redirectWithFlash(ctx, "/dashboard", flashError, err.Error())
		}
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return ctx.Blob(http.StatusOK, doc.ContentType, doc.Content)
}
