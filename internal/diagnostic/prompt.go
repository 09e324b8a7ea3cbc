package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"

	"cineze/internal/domain"
)

const (
	notInformed  = "Não informado"
	notAvailable = "Dados não disponíveis"
)

// FormatQuestionnaire renders the shared business block every role
// receives. The output depends only on the normalized questionnaire.
func FormatQuestionnaire(q domain.Questionnaire) string {
	n := q.Normalized()
	var sb strings.Builder
	sb.WriteString("DADOS DO NEGÓCIO:\n")
	writeLine(&sb, "Nome do negócio", orNotInformed(n.BusinessName))
	writeLine(&sb, "Responsável", orNotInformed(n.OwnerName))
	writeLine(&sb, "Cidade/Bairro", orNotInformed(n.Location))
	writeLine(&sb, "Segmento", orNotInformed(n.Segment))
	writeLine(&sb, "Faturamento estimado", orNotInformed(n.RevenueBracket))
	writeLine(&sb, "Objetivos", strings.Join(n.Goals, ", "))
	writeLine(&sb, "Canais ativos", strings.Join(n.ActiveChannels, ", "))
	writeLine(&sb, "Descrição dos clientes", orNotInformed(n.CustomerDescription))
	writeLine(&sb, "Contexto adicional", orNotInformed(n.ExtraContext))
	return sb.String()
}

// formatSynthesisMessage appends one labeled section per specialist slot to
// the business block. Unavailable slots carry the placeholder text.
func formatSynthesisMessage(business string, roles *Roles, results SpecialistResults) string {
	var sb strings.Builder
	sb.WriteString(business)
	for i, slot := range results.Slots() {
		label := string(slot.Role)
		if role, ok := roles.Specialist(slot.Role); ok {
			label = role.Label
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "\nRELATÓRIO — AGENTE %d (%s):\n", i+1, label)
		sb.WriteString(renderReport(slot))
	}
	return sb.String()
}

func renderReport(slot Slot) string {
	if !slot.Available() {
		return notAvailable
	}
	data, err := json.MarshalIndent(slot.Report, "", "  ")
	if err != nil {
		return notAvailable
	}
	return string(data)
}

func writeLine(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(":")
	if value != "" {
		sb.WriteString(" ")
		sb.WriteString(value)
	}
	sb.WriteString("\n")
}

func orNotInformed(v string) string {
	if v == "" {
		return notInformed
	}
	return v
}
