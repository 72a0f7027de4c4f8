package money

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatação no padrão pt-BR ("€ 1.500.000,00").
var printer = message.NewPrinter(language.BrazilianPortuguese)

var ErrInvalidAmount = errors.New("valor inválido")

// ParseAmount normaliza um valor digitado pelo usuário para decimal simples.
// Aceita símbolo de moeda, espaços, separador de milhar "." e vírgula decimal,
// além de decimais já normalizados ("1500000.50").
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	for _, sym := range []string{"€", "R$", "$"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	if strings.Contains(s, ",") {
		// vírgula presente: pontos são separadores de milhar
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		if strings.Contains(s, ",") {
			return 0, ErrInvalidAmount
		}
	} else if dots := strings.Count(s, "."); dots > 0 {
		// sem vírgula: um ponto com até 2 casas é decimal, o resto é milhar
		idx := strings.LastIndex(s, ".")
		if dots > 1 || len(s)-idx-1 > 2 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount formata um valor para exibição com símbolo fixo e duas casas.
func FormatAmount(v float64) string {
	return printer.Sprintf("€ %.2f", v)
}
