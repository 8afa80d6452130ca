package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// OfflineAssistant answers from canned topic replies. It never fails and
// is also the fallback when the hosted provider is down.
type OfflineAssistant struct{}

func (OfflineAssistant) Name() string { return ProviderOffline }

// topic keywords match whole words of the question. A trailing * matches
// any word starting with the stem.
type topic struct {
	keywords []string
	en, pt   string
}

var topics = []topic{
	{
		keywords: []string{"emergenc*", "hospita*", "police", "polícia", "policia", "ambul*", "socorro", "help", "ajuda", "fire", "bombeiro*"},
		en:       "In an emergency call 190 (police), 192 (SAMU ambulance), 193 (fire brigade) or 199 (civil defense). The Emergency tab lists the nearest hospitals and pharmacies.",
		pt:       "Em emergência ligue 190 (polícia), 192 (SAMU), 193 (bombeiros) ou 199 (defesa civil). A aba Emergência mostra hospitais e farmácias mais próximos.",
	},
	{
		keywords: []string{"wifi", "wi-fi", "internet", "conex*", "connect*", "sinal", "signal"},
		en:       "Check the Connectivity map for Wi-Fi spots near you. Reporting a spot's quality earns AmaCoins.",
		pt:       "Veja o mapa de Conectividade para pontos de Wi-Fi perto de você. Avaliar um ponto rende AmaCoins.",
	},
	{
		keywords: []string{"coin*", "amacoin*", "reward*", "recompensa*", "prêmio*", "premio*", "redeem", "resgat*"},
		en:       "You earn AmaCoins by checking in at events and places, passing quizzes and reporting Wi-Fi spots. Spend them in the Rewards tab.",
		pt:       "Você ganha AmaCoins fazendo check-in em eventos e lugares, passando nos quizzes e avaliando pontos de Wi-Fi. Troque-as na aba Recompensas.",
	},
	{
		keywords: []string{"event", "events", "evento*", "agenda", "schedule", "programação", "programacao"},
		en:       "The Events tab lists what is happening at COP30 today. Check in on site to earn AmaCoins.",
		pt:       "A aba Eventos mostra a programação da COP30 de hoje. Faça check-in no local para ganhar AmaCoins.",
	},
	{
		keywords: []string{"food", "eat", "comida", "comer", "açaí", "acai", "restaurant*", "tacacá", "tacaca"},
		en:       "Try açaí with fish, tacacá and maniçoba. Ver-o-Peso market and Estação das Docas are the classic stops.",
		pt:       "Prove açaí com peixe, tacacá e maniçoba. O Ver-o-Peso e a Estação das Docas são paradas clássicas.",
	},
}

func (OfflineAssistant) Reply(_ context.Context, req Request) (string, error) {
	pt := isPortuguese(req.Language)
	words := tokenize(req.Question)

	var b strings.Builder
	for _, t := range topics {
		if matchesAny(words, t.keywords) {
			if pt {
				b.WriteString(t.pt)
			} else {
				b.WriteString(t.en)
			}
			break
		}
	}
	if b.Len() == 0 {
		if pt {
			b.WriteString("Estou sem acesso ao assistente completo agora, mas posso ajudar com eventos, lugares, Wi-Fi, emergências e AmaCoins.")
		} else {
			b.WriteString("The full assistant is unavailable right now, but I can help with events, places, Wi-Fi, emergencies and AmaCoins.")
		}
	}

	if len(req.Places) > 0 {
		names := make([]string, 0, len(req.Places))
		for _, p := range req.Places {
			names = append(names, p.Name)
		}
		if pt {
			fmt.Fprintf(&b, " Lugares que podem interessar: %s.", strings.Join(names, ", "))
		} else {
			fmt.Fprintf(&b, " Places you might like: %s.", strings.Join(names, ", "))
		}
	}
	return b.String(), nil
}

func isPortuguese(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "pt")
}

// tokenize lowercases text and splits it into words. Hyphens stay inside
// words so "wi-fi" and "ver-o-peso" survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func matchesAny(words, keywords []string) bool {
	for _, k := range keywords {
		stem, prefix := strings.CutSuffix(k, "*")
		for _, w := range words {
			if w == stem || (prefix && strings.HasPrefix(w, stem)) {
				return true
			}
		}
	}
	return false
}
