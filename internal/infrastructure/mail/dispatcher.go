// Package mail entrega los avisos de factura enviada por correo, fuera de la
// transacción que cambió el estado.
package mail

import (
	"fmt"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// GomailDispatcher implementa billing.NotificationDispatcher con un worker
// asíncrono sobre SMTP. Enqueue nunca bloquea al caso de uso: si la cola está
// llena el aviso se descarta y se registra; el envío de la factura ya quedó
// comprometido y no se revierte por fallos de notificación.
type GomailDispatcher struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger

	queue chan billing.Notification
	wg    sync.WaitGroup
	once  sync.Once
}

var _ billing.NotificationDispatcher = (*GomailDispatcher)(nil)

// NewGomailDispatcher construye el dispatcher y arranca su worker.
func NewGomailDispatcher(cfg config.SMTPConfig, log *logger.Logger) *GomailDispatcher {
	d := &GomailDispatcher{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
		queue:  make(chan billing.Notification, 64),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// Enqueue encola el aviso para entrega asíncrona.
func (d *GomailDispatcher) Enqueue(n billing.Notification) {
	select {
	case d.queue <- n:
	default:
		d.log.Warn().
			Str("invoice_id", n.InvoiceID).
			Str("number", n.Number).
			Msg("cola de notificaciones llena, aviso descartado")
	}
}

// Close cierra la cola y espera a que el worker drene lo pendiente.
func (d *GomailDispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

func (d *GomailDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		if err := d.send(n); err != nil {
			d.log.Error().Err(err).
				Str("invoice_id", n.InvoiceID).
				Str("number", n.Number).
				Str("email", n.Payer.Email).
				Msg("error enviando aviso de factura")
			continue
		}
		d.log.Info().
			Str("invoice_id", n.InvoiceID).
			Str("number", n.Number).
			Msg("aviso de factura entregado")
	}
}

func (d *GomailDispatcher) send(n billing.Notification) error {
	if n.Payer.Email == "" {
		return fmt.Errorf("pagador sin email")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", n.Payer.Email)
	m.SetHeader("Subject", "Factura "+n.Number)
	m.SetBody("text/plain", fmt.Sprintf(
		"Estimado/a %s:\n\nSe ha emitido la factura %s por un total de %s.\nFecha de vencimiento: %s.\n\nGracias.",
		n.Payer.Name, n.Number, n.TotalWithVat.StringFixed(2), n.DueDate.Format("02/01/2006"),
	))
	return d.dialer.DialAndSend(m)
}
