// internal/core/domain/signals/format.go
package signals

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPrice форматирует цену с точностью, зависящей от величины
func FormatPrice(price float64) string {
	switch {
	case price < 0.01:
		return fmt.Sprintf("$%.8f", price)
	case price < 1:
		return fmt.Sprintf("$%.5f", price)
	case price < 100:
		return fmt.Sprintf("$%.3f", price)
	case price < 1000:
		return fmt.Sprintf("$%.2f", price)
	default:
		return "$" + groupThousands(strconv.FormatFloat(price, 'f', 1, 64))
	}
}

// groupThousands расставляет запятые в целой части числа
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
