package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"

	// ─── Feeds ─────────────────────────────────────────────────────────
	ErrMalformedFeed   ErrCode = "MALFORMED_FEED"
	ErrFeedUnavailable ErrCode = "FEED_UNAVAILABLE"
	ErrNoSnapshot      ErrCode = "NO_SNAPSHOT"

	// ─── Reviews ───────────────────────────────────────────────────────
	ErrAppendFailed ErrCode = "APPEND_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validación fallida. Revisa los campos enviados."
	case ErrInvalidPayload:
		return "El cuerpo de la petición no es válido."
	case ErrInvalidDate:
		return "La fecha no tiene el formato esperado (AAAA-MM-DD)."

	// ─── Feeds ─────────────────────────────────────────────────────────
	case ErrMalformedFeed:
		return "La hoja de cálculo devolvió una respuesta con estructura inesperada. Verifica el despliegue del Apps Script."
	case ErrFeedUnavailable:
		return "No se pudieron cargar los datos de asistencia. Intenta de nuevo."
	case ErrNoSnapshot:
		return "Todavía no hay datos cargados. Espera la primera sincronización."

	// ─── Reviews ───────────────────────────────────────────────────────
	case ErrAppendFailed:
		return "No se pudo guardar la revisión."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas peticiones. Intenta de nuevo más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
