package assistant

import (
	"strings"

	"github.com/goccy/go-json"
)

const basePrompt = `You are the AmazôniaExperience assistant for visitors to COP30 in Belém, Pará, Brazil.
Answer briefly and practically: events, places, local food, transport, safety, Wi-Fi spots and AmaCoins rewards.
For emergencies always give the Brazilian numbers: 190 police, 192 SAMU ambulance, 193 fire brigade, 199 civil defense.
Only recommend places from the context list when it is relevant. Never invent opening hours or prices.`

// systemPrompt renders the instructions plus the place context as JSON.
func systemPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	switch strings.ToLower(req.Language) {
	case "pt", "pt-br":
		b.WriteString("\nReply in Brazilian Portuguese.")
	case "es":
		b.WriteString("\nReply in Spanish.")
	default:
		b.WriteString("\nReply in the language of the question.")
	}

	if len(req.Places) > 0 {
		if raw, err := json.Marshal(req.Places); err == nil {
			b.WriteString("\nNearby places (JSON):\n")
			b.Write(raw)
		}
	}
	return b.String()
}
