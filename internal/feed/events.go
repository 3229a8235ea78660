package feed

// payloadShape classifica o formato externo do payload antes de qualquer
// extração. O feed alterna entre esses formatos sem aviso, então a
// classificação é explícita em vez de uma cadeia de tentativas inline.
type payloadShape int

const (
	shapeUnknown      payloadShape = iota
	shapeEventList                 // array de entradas direto na raiz
	shapeKeyedE                    // objeto com chave "e" contendo a lista
	shapeWrappedEvent              // objeto com chave "e" contendo UM evento embrulhado
	shapeKeyedEvents               // objeto com chave "events"
)

const maxScanDepth = 5

// classifyPayload decide o formato do payload e devolve a lista candidata de
// elementos a classificar como eventos.
func classifyPayload(payload any) (payloadShape, []any) {
	if list, ok := asSlice(payload); ok {
		return shapeEventList, list
	}

	obj, ok := asMap(payload)
	if !ok {
		return shapeUnknown, nil
	}

	if e, ok := asSlice(obj["e"]); ok {
		// quando e[3] é um array, "e" é um único evento embrulhado e não a lista
		if len(e) > 3 {
			if _, isArr := asSlice(e[3]); isArr {
				return shapeWrappedEvent, []any{any(e)}
			}
		}
		return shapeKeyedE, e
	}

	if list, ok := asSlice(obj["events"]); ok {
		return shapeKeyedEvents, list
	}

	return shapeUnknown, nil
}

// ExtractEvents descobre e achata as entradas de evento de um payload bruto,
// independente do nível de aninhamento. Nunca retorna erro: payloads
// irreconhecíveis viram lista vazia.
func ExtractEvents(payload any) []EventEntry {
	shape, candidates := classifyPayload(payload)

	var entries []EventEntry
	for _, c := range candidates {
		entries = append(entries, classifyElement(c)...)
	}

	// varredura de resgate: payloads com chave "e" já apareceram com os
	// eventos enterrados em profundidades imprevistas
	if len(entries) == 0 && (shape == shapeKeyedE || shape == shapeWrappedEvent) {
		entries = deepScan(payload, 0, nil)
	}

	return entries
}

// classifyElement decide se um elemento é uma entrada direta, um embrulho com
// entradas internas, ou lixo.
func classifyElement(v any) []EventEntry {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}

	if entry, ok := asDirectEntry(arr); ok {
		return []EventEntry{entry}
	}

	// embrulho: array curto cujo índice 3 é outro array; as entradas reais
	// ficam do índice 3 em diante
	if len(arr) >= 4 {
		if _, isArr := asSlice(arr[3]); isArr {
			var out []EventEntry
			for _, sub := range arr[3:] {
				out = append(out, classifyElement(sub)...)
			}
			return out
		}
	}

	return nil
}

// asDirectEntry valida a forma mínima de uma entrada: array com >= 9 posições
// e um container de mercados não-nulo no índice 8.
func asDirectEntry(arr []any) (EventEntry, bool) {
	if len(arr) < minEntryLen {
		return nil, false
	}
	switch arr[posMarkets].(type) {
	case map[string]any, []any:
		return EventEntry(arr), true
	}
	return nil, false
}

// deepScan percorre a estrutura em profundidade limitada procurando arrays que
// pareçam entradas de evento: >= 9 posições com strings nos índices 1 e 2
// (heurística de nomes de time).
func deepScan(v any, depth int, acc []EventEntry) []EventEntry {
	if depth > maxScanDepth {
		return acc
	}

	if arr, ok := asSlice(v); ok {
		if looksLikeEntry(arr) {
			return append(acc, EventEntry(arr))
		}
		for _, el := range arr {
			acc = deepScan(el, depth+1, acc)
		}
		return acc
	}

	if obj, ok := asMap(v); ok {
		for _, el := range obj {
			acc = deepScan(el, depth+1, acc)
		}
	}

	return acc
}

func looksLikeEntry(arr []any) bool {
	if len(arr) < minEntryLen {
		return false
	}
	_, homeOK := arr[posHomeTeam].(string)
	_, awayOK := arr[posAwayTeam].(string)
	return homeOK && awayOK
}
