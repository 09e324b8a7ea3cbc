package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Questionnaire is the onboarding payload a business owner submits. It is
// created once per generation request and never mutated by the pipeline.
type Questionnaire struct {
	BusinessName        string   `json:"nome_negocio"`
	OwnerName           string   `json:"nome_responsavel"`
	Location            string   `json:"cidade_bairro"`
	Segment             string   `json:"segmento"`
	RevenueBracket      string   `json:"faturamento_faixa"`
	Goals               []string `json:"objetivos"`
	ActiveChannels      []string `json:"canais_ativos"`
	CustomerDescription string   `json:"descricao_clientes"`
	ExtraContext        string   `json:"contexto_extra"`
}

// Normalized returns a trimmed, NFC-normalized copy. Empty list entries are
// dropped so that two visually identical submissions format identically.
func (q Questionnaire) Normalized() Questionnaire {
	return Questionnaire{
		BusinessName:        cleanText(q.BusinessName),
		OwnerName:           cleanText(q.OwnerName),
		Location:            cleanText(q.Location),
		Segment:             cleanText(q.Segment),
		RevenueBracket:      cleanText(q.RevenueBracket),
		Goals:               cleanList(q.Goals),
		ActiveChannels:      cleanList(q.ActiveChannels),
		CustomerDescription: cleanText(q.CustomerDescription),
		ExtraContext:        cleanText(q.ExtraContext),
	}
}

// Validate reports whether the required fields are present.
func (q Questionnaire) Validate() error {
	var missing []string
	if cleanText(q.BusinessName) == "" {
		missing = append(missing, "nome_negocio")
	}
	if cleanText(q.OwnerName) == "" {
		missing = append(missing, "nome_responsavel")
	}
	if cleanText(q.Segment) == "" {
		missing = append(missing, "segmento")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := cleanText(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
