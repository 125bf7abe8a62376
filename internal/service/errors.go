package service

import "errors"

// User-facing errors. Messages are returned to clients as-is.
var (
	ErrInvalidMaterial         = errors.New("Tipo de material inválido")
	ErrInvalidQuantity         = errors.New("Cantidad debe ser al menos 1")
	ErrConfigMissing           = errors.New("No se pudo obtener la configuración de puntos")
	ErrCodeGenerationExhausted = errors.New("No se pudo generar un código único. Intenta nuevamente.")

	ErrMissingRedeemParams = errors.New("Faltan parámetros requeridos: token_code y staff_id")
	ErrUnauthorizedStaff   = errors.New("Cuenta de staff no válida o inactiva")
	ErrTokenNotFound       = errors.New("Token no encontrado. Verifica el código.")
	ErrAlreadyValidated    = errors.New("Este token ya fue validado anteriormente")
	ErrTokenExpired        = errors.New("Este token ha expirado. Por favor genera uno nuevo.")
	ErrTokenCancelled      = errors.New("Este token fue cancelado")
	ErrUserNotFound        = errors.New("No se pudo obtener información del usuario")

	ErrInsufficientPoints = errors.New("No tienes suficientes puntos")
	ErrInvalidAmount      = errors.New("El monto debe ser positivo")

	ErrInvalidBarcode     = errors.New("El código GTIN debe tener exactamente 13 dígitos")
	ErrProductNotFound    = errors.New("Producto no encontrado")
	ErrDuplicateBarcode   = errors.New("Ya existe un producto con ese código GTIN")
	ErrMissingProduct     = errors.New("Faltan campos requeridos: gtin, name, weight, category")
	ErrInvalidWeight      = errors.New("El peso debe ser un número positivo")
	ErrInvalidPointsPerKg = errors.New("Los puntos por kg deben ser un número no negativo")
	ErrNoProductFields    = errors.New("Debes proporcionar al menos un campo para actualizar")
	ErrNoBonusAvailable   = errors.New("Todavía no alcanzaste el peso necesario para el bono")

	ErrMissingCredentials = errors.New("Faltan campos requeridos: username y password")
	ErrInvalidCredentials = errors.New("Usuario o contraseña incorrectos")
	ErrMissingStaffFields = errors.New("Faltan campos requeridos: username, password, account_type")
	ErrInvalidAccountType = errors.New(`account_type debe ser "promotor" o "ecopunto"`)
	ErrPasswordTooShort   = errors.New("La contraseña debe tener al menos 6 caracteres")
	ErrUsernameTaken      = errors.New("El nombre de usuario ya existe")
	ErrStaffNotFound      = errors.New("Cuenta de staff no encontrada")
	ErrInvalidSession     = errors.New("Sesión inválida o expirada")

	ErrRaffleNotFound      = errors.New("Sorteo no encontrado")
	ErrRaffleClosed        = errors.New("El sorteo ya no está activo")
	ErrInvalidTicketCount  = errors.New("Debes comprar entre 1 y 10 boletos")
	ErrInvalidExchangeType = errors.New(`El tipo de canje debe ser "envases" o "avu"`)
	ErrMissingSubeAlias    = errors.New("Debes indicar el alias de tu tarjeta SUBE")

	ErrInvalidNeighborhood = errors.New("Debes indicar un barrio")
)
