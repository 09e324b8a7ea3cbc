package domain

import (
	"fmt"
	"strings"
)

// ScoreMax is the upper bound of every score scale in a diagnostic.
const ScoreMax = 10

// BusinessHealthReport is produced by the business analyst specialist.
type BusinessHealthReport struct {
	Health struct {
		Score           float64  `json:"score"`
		Level           string   `json:"nivel"`
		Diagnosis       string   `json:"diagnostico"`
		Strengths       []string `json:"pontos_fortes"`
		Vulnerabilities []string `json:"vulnerabilidades"`
		MainRisk        string   `json:"risco_principal"`
		GrowthCapacity  string   `json:"capacidade_crescimento"`
		Recommendations []string `json:"recomendacoes"`
	} `json:"saude_negocio"`
}

func (r *BusinessHealthReport) Validate() error {
	return firstError(
		checkScore("saude_negocio.score", r.Health.Score),
		requireText("saude_negocio.diagnostico", r.Health.Diagnosis),
	)
}

// ChannelAudit is one channel inspected by the digital presence specialist.
type ChannelAudit struct {
	Channel   string   `json:"canal"`
	Score     float64  `json:"score"`
	Status    string   `json:"status"`
	Missing   string   `json:"o_que_esta_faltando"`
	Impact    string   `json:"impacto_de_nao_ter"`
	NextSteps []string `json:"proximos_passos"`
}

// DigitalPresenceReport is produced by the digital presence specialist.
type DigitalPresenceReport struct {
	Presence struct {
		OverallScore       float64        `json:"score_geral"`
		Channels           []ChannelAudit `json:"canais"`
		BiggestOpportunity string         `json:"maior_oportunidade_digital"`
		CriticalMistake    *string        `json:"erro_critico"`
		EstimatedBudget    string         `json:"investimento_estimado_para_estruturar"`
	} `json:"presenca_digital"`
}

func (r *DigitalPresenceReport) Validate() error {
	errs := []error{checkScore("presenca_digital.score_geral", r.Presence.OverallScore)}
	for i, ch := range r.Presence.Channels {
		errs = append(errs, checkScore(fmt.Sprintf("presenca_digital.canais[%d].score", i), ch.Score))
	}
	return firstError(errs...)
}

// AcquisitionReport is produced by the funnel specialist.
type AcquisitionReport struct {
	Funnel struct {
		AcquisitionScore float64 `json:"score_captacao"`
		ConversionScore  float64 `json:"score_conversao"`
		Diagnosis        string  `json:"diagnostico_funil"`
		BiggestLeak      string  `json:"onde_esta_perdendo_mais"`
		Referral         struct {
			Level     string `json:"nivel"`
			Risk      string `json:"risco"`
			Diversify string `json:"como_diversificar"`
		} `json:"dependencia_indicacao"`
		SalesProcess struct {
			Maturity        string `json:"maturidade"`
			MainGap         string `json:"gap_principal"`
			ImmediateAction string `json:"acao_imediata"`
		} `json:"processo_vendas"`
		Recommendations []string `json:"recomendacoes"`
	} `json:"captacao_conversao"`
}

func (r *AcquisitionReport) Validate() error {
	return firstError(
		checkScore("captacao_conversao.score_captacao", r.Funnel.AcquisitionScore),
		checkScore("captacao_conversao.score_conversao", r.Funnel.ConversionScore),
		requireText("captacao_conversao.diagnostico_funil", r.Funnel.Diagnosis),
	)
}

// PositioningReport is produced by the positioning strategist.
type PositioningReport struct {
	Positioning struct {
		Score         float64 `json:"score"`
		ValueProposal struct {
			Clarity   string `json:"clareza"`
			Analysis  string `json:"analise"`
			Suggested string `json:"como_deveria_ser"`
		} `json:"proposta_de_valor"`
		Differentiation struct {
			Level             string   `json:"nivel"`
			Identified        []string `json:"diferenciais_identificados"`
			CommoditizingRisk string   `json:"risco_commoditizacao"`
			Analysis          string   `json:"analise"`
		} `json:"diferenciacao"`
		IdealCustomer struct {
			Clarity string `json:"clareza"`
			Persona string `json:"persona_identificada"`
			Message string `json:"mensagem_para_essa_persona"`
		} `json:"cliente_ideal"`
		SocialProof struct {
			Level   string `json:"nivel"`
			Missing string `json:"o_que_esta_faltando"`
			Build   string `json:"como_construir"`
		} `json:"prova_social"`
		Recommendations []string `json:"recomendacoes"`
	} `json:"posicionamento"`
}

func (r *PositioningReport) Validate() error {
	return checkScore("posicionamento.score", r.Positioning.Score)
}

// RetentionReport is produced by the retention and growth specialist.
type RetentionReport struct {
	Retention struct {
		Score         float64 `json:"score_retencao"`
		BusinessModel struct {
			Kind       string `json:"tipo"`
			Risk       string `json:"risco"`
			Recurrence string `json:"oportunidade_recorrencia"`
		} `json:"modelo_negocio"`
		LTV struct {
			Current   string `json:"situacao_atual"`
			Potential string `json:"potencial"`
			Increase  string `json:"como_aumentar"`
		} `json:"ltv_estimado"`
		DecisionMaker struct {
			Level       string `json:"nivel"`
			Analysis    string `json:"analise"`
			Implication string `json:"implicacao"`
		} `json:"maturidade_decisor"`
		GoalVsReality struct {
			Declared     string `json:"objetivo_declarado"`
			Gap          string `json:"gap_identificado"`
			EstimatedFor string `json:"tempo_estimado"`
		} `json:"objetivo_vs_realidade"`
		Recommendations []string `json:"recomendacoes"`
	} `json:"retencao_crescimento"`
}

func (r *RetentionReport) Validate() error {
	return checkScore("retencao_crescimento.score_retencao", r.Retention.Score)
}

func checkScore(field string, v float64) error {
	if v < 0 || v > ScoreMax {
		return fmt.Errorf("%w: %s=%v outside 0-%d", ErrInvalidDocument, field, v, ScoreMax)
	}
	return nil
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidDocument, field)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
