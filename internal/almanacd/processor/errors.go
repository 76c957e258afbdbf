// Package-level error variables for processor, representing construction and
// schema compilation errors for the MCP message processor.
package processor

import (
	"net/http"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

var (
	// ErrProcessorError is the base error for processor errors.
	ErrProcessorError apperrors.Error = apperrors.New("processor error").SetStatusCode(http.StatusInternalServerError)

	// ErrSchemaCompile is returned when a tool input schema fails to compile.
	ErrSchemaCompile apperrors.Error = ErrProcessorError.New("cannot compile tool schema")

	// ErrNilStore is returned when the processor is constructed without a store.
	ErrNilStore apperrors.Error = ErrProcessorError.New("calendar store is nil")
)
