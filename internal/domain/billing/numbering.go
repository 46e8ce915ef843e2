package billing

import (
	"strconv"
	"time"
)

// FormatNumber arma el número de factura: prefijo + YYYYMMDD + contador.
// El contador debe venir de un incremento atómico por workspace; formatear
// un contador leído sin aislamiento es un bug de concurrencia, no un detalle.
func FormatNumber(prefix string, day time.Time, counter int64) string {
	return prefix + day.Format("20060102") + strconv.FormatInt(counter, 10)
}
