// Package invoice implementa la numeración de facturas con alcance por día:
// INV-YYYYMMDD-NNNN, donde NNNN es una secuencia diaria que inicia en 0001.
// La asignación real ocurre dentro de la transacción de venta; aquí solo viven
// las funciones puras de formato, parseo y cálculo del siguiente número.
package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Prefix prefijo fijo de todos los números de factura.
const Prefix = "INV"

var numberPattern = regexp.MustCompile(`^INV-(\d{8})-(\d{4})$`)

// Format construye el número de factura para una fecha y secuencia dadas.
func Format(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", Prefix, date.Format("20060102"), seq)
}

// Parse descompone un número de factura en su día (YYYYMMDD) y secuencia.
// Devuelve ok=false si el formato no coincide.
func Parse(number string) (day string, seq int, ok bool) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return "", 0, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], seq, true
}

// Next calcula el siguiente número de factura para la fecha dada, a partir del
// último número emitido ese día. lastNumber vacío (o de otro día, o malformado)
// arranca la secuencia en 0001. Los huecos por transacciones abortadas son aceptables.
func Next(date time.Time, lastNumber string) string {
	seq := 1
	if lastNumber != "" {
		day, lastSeq, ok := Parse(lastNumber)
		if ok && day == date.Format("20060102") {
			seq = lastSeq + 1
		}
	}
	return Format(date, seq)
}
