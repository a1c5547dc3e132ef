package ports

import "context"

// Attachment archivo adjunto leído desde disco al momento del envío.
type Attachment struct {
	Filename string
	Path     string
}

// OutgoingEmail mensaje listo para entregar al proveedor.
type OutgoingEmail struct {
	From        string
	To          []string
	CC          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer define el puerto de salida hacia el proveedor de correo transaccional.
// Cualquier adaptador (Resend, SMTP, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para no bloquear en llamadas externas.
type Mailer interface {
	// Send entrega el mensaje y devuelve el identificador asignado por el proveedor (puede ser vacío).
	Send(ctx context.Context, msg OutgoingEmail) (string, error)
	// Name identifica al proveedor en logs y métricas.
	Name() string
}
