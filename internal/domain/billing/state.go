// Package billing contiene las reglas puras de facturación: la máquina de
// estados del ciclo de vida, la acumulación de errores de validación y el
// formato del número de factura. No importa entidades ni infraestructura.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// State es el estado del ciclo de vida de una factura. Solo avanza hacia
// adelante; no existe camino de regreso a un estado anterior.
type State string

const (
	StateUnsent     State = "unsent" // inicial
	StateSent       State = "sent"
	StatePartlyPaid State = "partly_paid"
	StatePaid       State = "paid" // no acepta más eventos
)

// Event es un evento del ciclo de vida.
type Event string

const (
	EventSend Event = "send"
	EventPay  Event = "pay"
)

// GuardInputs son las entradas de guardia: el monto pagado se lee SIEMPRE
// fresco del ledger al momento de evaluar, nunca se cachea en la máquina.
type GuardInputs struct {
	PaidAmount   decimal.Decimal
	TotalWithVat decimal.Decimal
}

// FullyPaid: lo pagado cubre el total con IVA (el sobrepago cuenta como pagado).
func (g GuardInputs) FullyPaid() bool {
	return g.PaidAmount.GreaterThanOrEqual(g.TotalWithVat)
}

// PartlyPaid: hay pagos pero no cubren el total con IVA.
func (g GuardInputs) PartlyPaid() bool {
	return g.PaidAmount.IsPositive() && g.PaidAmount.LessThan(g.TotalWithVat)
}

// Transition evalúa la tabla de transiciones y devuelve el estado destino.
// Si ninguna guardia aplica al estado actual devuelve el estado sin cambio y
// domain.ErrStateTransitionRejected. La guardia fully_paid se evalúa antes
// que partly_paid, por lo que sent -> paid es posible en un solo evento.
//
//	send: unsent -> sent                  (sin guardia)
//	pay:  sent -> paid                    (paid >= totalWithVat)
//	pay:  partly_paid -> paid             (paid >= totalWithVat)
//	pay:  sent -> partly_paid             (0 < paid < totalWithVat)
func Transition(s State, e Event, g GuardInputs) (State, error) {
	switch e {
	case EventSend:
		if s == StateUnsent {
			return StateSent, nil
		}
	case EventPay:
		switch s {
		case StateSent:
			if g.FullyPaid() {
				return StatePaid, nil
			}
			if g.PartlyPaid() {
				return StatePartlyPaid, nil
			}
		case StatePartlyPaid:
			if g.FullyPaid() {
				return StatePaid, nil
			}
		}
	}
	return s, domain.ErrStateTransitionRejected
}
