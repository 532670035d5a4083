package clay

import "github.com/kryvoslayout/clay/internal/layout"

// ErrorType is re-exported so hosts can switch on it without importing
// internal/layout directly.
type ErrorType = layout.ErrorType

const (
	ErrTextMeasurementFunctionNotProvided = layout.ErrTextMeasurementFunctionNotProvided
	ErrArenaCapacityExceeded              = layout.ErrArenaCapacityExceeded
	ErrElementsCapacityExceeded           = layout.ErrElementsCapacityExceeded
	ErrTextMeasurementCapacityExceeded    = layout.ErrTextMeasurementCapacityExceeded
	ErrDuplicateID                        = layout.ErrDuplicateID
	ErrFloatingContainerParentNotFound    = layout.ErrFloatingContainerParentNotFound
	ErrPercentageOver1                    = layout.ErrPercentageOver1
	ErrUnbalancedOpenClose                = layout.ErrUnbalancedOpenClose
	ErrInternalError                      = layout.ErrInternalError
)

// ErrorData is the record passed to a host's ErrorHandler, one per
// reported occurrence. The engine never panics; every failure mode
// converts to one of these plus a best-effort recovery (see spec §7).
type ErrorData = layout.ErrorData

// ErrorHandler receives one ErrorData per reported occurrence.
type ErrorHandler = layout.ErrorHandler

// errorTypeName renders an ErrorType as its taxonomy name.
func errorTypeName(t ErrorType) string {
	switch t {
	case ErrTextMeasurementFunctionNotProvided:
		return "TEXT_MEASUREMENT_FUNCTION_NOT_PROVIDED"
	case ErrArenaCapacityExceeded:
		return "ARENA_CAPACITY_EXCEEDED"
	case ErrElementsCapacityExceeded:
		return "ELEMENTS_CAPACITY_EXCEEDED"
	case ErrTextMeasurementCapacityExceeded:
		return "TEXT_MEASUREMENT_CAPACITY_EXCEEDED"
	case ErrDuplicateID:
		return "DUPLICATE_ID"
	case ErrFloatingContainerParentNotFound:
		return "FLOATING_CONTAINER_PARENT_NOT_FOUND"
	case ErrPercentageOver1:
		return "PERCENTAGE_OVER_1"
	case ErrUnbalancedOpenClose:
		return "UNBALANCED_OPEN_CLOSE"
	default:
		return "INTERNAL_ERROR"
	}
}
