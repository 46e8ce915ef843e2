package billing

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors acumula errores de validación por campo. Un caller puede
// reportar todos los problemas en una sola vuelta en lugar de cortar en el
// primer error.
type FieldErrors map[string][]string

// Add agrega un mensaje al campo.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// OK indica que no hay errores acumulados.
func (e FieldErrors) OK() bool { return len(e) == 0 }

// Error implementa error con los campos en orden estable.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], ", "))
	}
	return "validación: " + strings.Join(parts, "; ")
}

// RowField devuelve el prefijo de campo para la línea idx (rows[0], rows[1]...).
func RowField(idx int) string {
	return fmt.Sprintf("rows[%d]", idx)
}
