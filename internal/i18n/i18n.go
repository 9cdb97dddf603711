// Package i18n holds the user-facing messages of the ledger in every
// supported language.
package i18n

import (
	"errors"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"colorledger/internal/ingest"
)

// Message keys.
const (
	RowMissingField    = "row.missing_field"
	RowNotNumber       = "row.not_number"
	RowNegative        = "row.negative"
	RowInvalidDate     = "row.invalid_date"
	RowMalformed       = "row.malformed"
	ImportInvalid      = "import.invalid"
	ImportNoNewRecords = "import.no_new_records"
	ImportDone         = "import.done"
	ImportFailed       = "import.failed"
	ImportEmpty        = "import.empty"
	ImportUnreadable   = "import.unreadable"
	ImportMissingFile  = "import.missing_file"
	UpdateDone         = "update.done"
	UpdateFailed       = "update.failed"
	DeleteDone         = "delete.done"
	DeleteFailed       = "delete.failed"
	FormulaNotFound    = "formula.not_found"
	InvalidData        = "request.invalid"
	WipeDone           = "wipe.done"
	WipeDenied         = "wipe.denied"
	WipeDisabled       = "wipe.disabled"
	WipeFailed         = "wipe.failed"
	TemplateFailed     = "template.failed"
	ServiceUnavailable = "service.unavailable"
)

var supported = []language.Tag{language.English, language.Thai}

var matcher = language.NewMatcher(supported)

var catalog = map[string][2]string{
	RowMissingField:    {"row %s: %s must not be empty", "แถวที่ %s: %s ห้ามว่าง"},
	RowNotNumber:       {"row %s: %s must be a number", "แถวที่ %s: %s ต้องเป็นตัวเลข"},
	RowNegative:        {"row %s: %s must not be negative", "แถวที่ %s: %s ต้องไม่ติดลบ"},
	RowInvalidDate:     {"row %s: %s has an invalid date format", "แถวที่ %s: %s มีรูปแบบไม่ถูกต้อง"},
	RowMalformed:       {"row %s: incomplete or malformed data (%s)", "แถวที่ %s: ข้อมูลไม่ครบถ้วนหรือรูปแบบผิดพลาด (%s)"},
	ImportInvalid:      {"The spreadsheet contains invalid data", "ข้อมูลในไฟล์ Excel ไม่ถูกต้อง"},
	ImportNoNewRecords: {"no new records", "ข้อมูลมีอยู่แล้ว ไม่มีการเพิ่มสูตรใหม่"},
	ImportDone:         {"Imported %d new formulas", "นำเข้า %d สูตรใหม่สำเร็จ"},
	ImportFailed:       {"An error occurred while saving the import", "เกิดข้อผิดพลาดในการนำเข้าข้อมูลลงฐานข้อมูล"},
	ImportEmpty:        {"The spreadsheet has no data rows", "ไฟล์ Excel ไม่มีข้อมูล"},
	ImportUnreadable:   {"The spreadsheet could not be read", "ไม่สามารถอ่านไฟล์ Excel ได้"},
	ImportMissingFile:  {"No file was uploaded", "ไม่พบไฟล์ที่อัปโหลด"},
	UpdateDone:         {"Formula updated", "อัปเดตสูตรสำเร็จ"},
	UpdateFailed:       {"Database update failed", "เกิดข้อผิดพลาดในการอัปเดตข้อมูล"},
	DeleteDone:         {"Formula deleted", "ลบสูตรสำเร็จ"},
	DeleteFailed:       {"Database delete failed", "เกิดข้อผิดพลาดในการลบข้อมูล"},
	FormulaNotFound:    {"Formula not found", "ไม่พบสูตร"},
	InvalidData:        {"Invalid data: %s", "ข้อมูลไม่ถูกต้อง: %s"},
	WipeDone:           {"All formulas were deleted", "ลบข้อมูลทั้งหมดสำเร็จ"},
	WipeDenied:         {"The confirmation code is incorrect", "รหัสยืนยันไม่ถูกต้อง"},
	WipeDisabled:       {"Wiping the database is disabled", "ไม่อนุญาตให้ลบข้อมูลทั้งหมด"},
	WipeFailed:         {"The database could not be wiped", "เกิดข้อผิดพลาดในการลบข้อมูลทั้งหมด"},
	TemplateFailed:     {"Error creating the spreadsheet template", "เกิดข้อผิดพลาดในการสร้างไฟล์เทมเพลต"},
	ServiceUnavailable: {"service unavailable", "ระบบไม่พร้อมใช้งาน"},
}

func init() {
	for key, texts := range catalog {
		for idx, tag := range supported {
			if err := message.SetString(tag, key, texts[idx]); err != nil {
				panic(err)
			}
		}
	}
}

// Printer renders messages in one language.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Printer for the closest supported match of locale.
// Unknown or empty locales fall back to English.
func New(locale string) *Printer {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, confidence := matcher.Match(parsed)
		if confidence != language.No {
			tag = supported[idx]
		}
	}
	return &Printer{tag: tag, printer: message.NewPrinter(tag)}
}

// Language returns the BCP 47 tag messages are rendered in.
func (p *Printer) Language() string {
	return p.tag.String()
}

// Sprintf renders the message stored under key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

// RowErrors renders row validation errors in order. Errors that are not
// row validation errors are rendered with their own text.
func (p *Printer) RowErrors(errs []error) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, p.RowError(err))
	}
	return messages
}

// RowError renders a single row validation error.
func (p *Printer) RowError(err error) string {
	var rowErr *ingest.RowValidationError
	if !errors.As(err, &rowErr) {
		return err.Error()
	}

	row := strconv.Itoa(rowErr.Row)
	switch rowErr.Problem {
	case ingest.ProblemMissingField:
		return p.Sprintf(RowMissingField, row, rowErr.Field)
	case ingest.ProblemPercentNotNumeric:
		return p.Sprintf(RowNotNumber, row, rowErr.Field)
	case ingest.ProblemPercentNegative:
		return p.Sprintf(RowNegative, row, rowErr.Field)
	case ingest.ProblemInvalidDate:
		return p.Sprintf(RowInvalidDate, row, rowErr.Field)
	case ingest.ProblemMalformed:
		return p.Sprintf(RowMalformed, row, rowErr.Detail)
	default:
		return rowErr.Error()
	}
}
