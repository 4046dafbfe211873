package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/xxxsen/clinicbill/internal/export"
	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/pkg/errcode"
	"github.com/xxxsen/clinicbill/internal/pkg/response"
	"github.com/xxxsen/clinicbill/internal/service"
)

type ExportHandler struct {
	export *service.ExportService
}

func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// attachment delivers an export file as the response body.
func attachment(c *gin.Context) export.Deliverer {
	return export.DelivererFunc(func(ctx context.Context, file export.File) error {
		c.Header("Content-Disposition", contentDisposition(file.Name))
		c.Data(http.StatusOK, file.ContentType, file.Content)
		return nil
	})
}

// contentDisposition carries an ASCII filename for old clients and the exact
// UTF-8 name in filename* (RFC 6266, RFC 5987).
func contentDisposition(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	var fallback strings.Builder
	for _, r := range folded {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			fallback.WriteByte('_')
			continue
		}
		fallback.WriteRune(r)
	}
	var encoded strings.Builder
	for i := 0; i < len(name); i++ {
		b := name[i]
		if isAttrChar(b) {
			encoded.WriteByte(b)
			continue
		}
		fmt.Fprintf(&encoded, "%%%02X", b)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback.String(), encoded.String())
}

func isAttrChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}

func (h *ExportHandler) Dataset(c *gin.Context) {
	_, err := h.export.ExportDataset(c.Request.Context(), c.Param("dataset"), c.Query("format"), filtersFromQuery(c), attachment(c))
	if err != nil {
		handleError(c, err)
	}
}

func (h *ExportHandler) Custom(c *gin.Context) {
	var req model.ExportData
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if _, err := h.export.ExportCustom(c.Request.Context(), req, c.Query("format"), attachment(c)); err != nil {
		handleError(c, err)
	}
}
