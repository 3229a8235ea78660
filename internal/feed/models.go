package feed

import (
	"strconv"
)

// EventEntry é a linha posicional que representa um jogo no feed upstream.
// O feed não tem schema declarado; os campos são endereçados por offset numérico.
// Posições conhecidas (comprimento mínimo 9):
//
//	[0] id do evento
//	[1] nome do time da casa
//	[2] nome do time visitante
//	[4] horário de início (epoch ou ISO-8601)
//	[8] mercados por período (mapa com chave "0" = jogo completo)
type EventEntry []any

const (
	posEventID  = 0
	posHomeTeam = 1
	posAwayTeam = 2
	posStart    = 4
	posMarkets  = 8

	minEntryLen = 9
)

// ID retorna o identificador do evento como string ("" quando ausente)
func (e EventEntry) ID() string {
	if len(e) <= posEventID {
		return ""
	}
	return stringify(e[posEventID])
}

func (e EventEntry) HomeTeam() string {
	if len(e) <= posHomeTeam {
		return ""
	}
	s, _ := e[posHomeTeam].(string)
	return s
}

func (e EventEntry) AwayTeam() string {
	if len(e) <= posAwayTeam {
		return ""
	}
	s, _ := e[posAwayTeam].(string)
	return s
}

// StartRaw retorna o valor bruto do horário de início, sem interpretação
func (e EventEntry) StartRaw() any {
	if len(e) <= posStart {
		return nil
	}
	return e[posStart]
}

// MarketsByPeriod retorna o container de mercados (mapa por período ou array)
func (e EventEntry) MarketsByPeriod() any {
	if len(e) <= posMarkets {
		return nil
	}
	return e[posMarkets]
}

// asSlice devolve v como []any quando for um array JSON decodificado
func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// asMap devolve v como map[string]any quando for um objeto JSON decodificado
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// toFloat extrai um número de valores vindos do JSON (float64 ou string numérica)
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringify formata um valor do feed como string; números saem sem expoente
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
