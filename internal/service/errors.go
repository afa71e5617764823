package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// HTTP status codes.
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrEmailExists        = errors.New("e-mail já cadastrado")
	ErrUserBlocked        = errors.New("conta bloqueada")
	ErrWeakPassword       = errors.New("senha fraca")
	ErrSegmentInactive    = errors.New("segmento indisponível")
	ErrAlreadyPurchased   = errors.New("segmento já adquirido")
	ErrPurchaseRequired   = errors.New("compra necessária")
	ErrConflict           = errors.New("conflito de dados")
	ErrInvalidInput       = errors.New("dados inválidos")
)
