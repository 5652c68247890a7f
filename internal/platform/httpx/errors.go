package httpx

import (
	"net/http"

	"github.com/qazuor/hospeda-sub009/internal/crud"
)

// statusByCode is the total 1:1 mapping from the service error taxonomy to
// HTTP status classes.
var statusByCode = map[crud.Code]int{
	crud.CodeValidation:   http.StatusBadRequest,
	crud.CodeUnauthorized: http.StatusUnauthorized,
	crud.CodeForbidden:    http.StatusForbidden,
	crud.CodeNotFound:     http.StatusNotFound,
	crud.CodeInternal:     http.StatusInternalServerError,
}

// RespondError maps a service error to an RFC7807 response. Internal causes
// are not leaked to callers.
func RespondError(w http.ResponseWriter, err error) {
	code := crud.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	detail := ""
	if coded, found := crud.AsError(err); found && code != crud.CodeInternal {
		detail = coded.Message
	}
	Problem(w, status, http.StatusText(status), detail, string(code))
}
