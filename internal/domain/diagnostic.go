package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Level is the qualitative maturity label attached to the overall score.
type Level string

const (
	LevelCritical  Level = "Presença Crítica"
	LevelBuilding  Level = "Em Construção"
	LevelGrowing   Level = "Em Crescimento"
	LevelSolid     Level = "Presença Sólida"
	LevelReference Level = "Referência na região"
)

var levels = []Level{LevelCritical, LevelBuilding, LevelGrowing, LevelSolid, LevelReference}

// Canonical maps a model-produced label onto one of the known levels.
// Comparison is case-insensitive over NFC-normalized text.
func (l Level) Canonical() (Level, bool) {
	want := strings.ToLower(strings.TrimSpace(norm.NFC.String(string(l))))
	for _, known := range levels {
		if strings.ToLower(norm.NFC.String(string(known))) == want {
			return known, true
		}
	}
	return "", false
}

// Priority of an action-plan item.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"
)

func (p Priority) valid() bool {
	v := norm.NFC.String(strings.TrimSpace(string(p)))
	return v == string(PriorityHigh) || v == norm.NFC.String(string(PriorityMedium)) || v == string(PriorityLow)
}

const (
	SmartObjectiveCount = 5
	MaxActionItems      = 6
	MinMetrics          = 5
	MaxMetrics          = 8
	MaxWeek             = 4
)

// Pillar is one of the four scored sub-reports.
type Pillar struct {
	Score           float64  `json:"score"`
	Diagnosis       string   `json:"diagnostico"`
	Recommendations []string `json:"recomendacoes"`
}

type Pillars struct {
	Visibility  Pillar `json:"visibilidade"`
	Acquisition Pillar `json:"captacao"`
	Conversion  Pillar `json:"conversao"`
	Positioning Pillar `json:"posicionamento"`
}

type ChannelMaturity struct {
	Channel   string   `json:"canal"`
	Score     float64  `json:"score"`
	Status    string   `json:"status"`
	Missing   string   `json:"o_que_esta_faltando"`
	NextSteps []string `json:"proximos_passos"`
}

type MarketAnalysis struct {
	Overview           string   `json:"panorama"`
	Challenges         []string `json:"desafios"`
	RecommendedMonthly string   `json:"investimento_mensal_recomendado"`
	EstimatedCPM       string   `json:"cpm_estimado"`
	EstimatedCPC       string   `json:"cpc_estimado"`
	Opportunity        string   `json:"oportunidade"`
}

type PresentChannel struct {
	Channel string `json:"canal"`
	Status  string `json:"status"`
	Link    string `json:"link"`
}

type AbsentChannel struct {
	Channel     string `json:"canal"`
	Opportunity string `json:"oportunidade"`
}

type Persona struct {
	Description string   `json:"descricao"`
	Tags        []string `json:"tags"`
	Interests   []string `json:"interesses"`
	WhereToFind []string `json:"onde_encontrar"`
}

type CompanyProfile struct {
	PresentChannels []PresentChannel `json:"canais_identificados"`
	AbsentChannels  []AbsentChannel  `json:"canais_ausentes"`
	Persona         Persona          `json:"persona"`
}

type CommunicationIssue struct {
	Level    string `json:"nivel"`
	Problem  string `json:"problema"`
	Solution string `json:"solucao"`
}

type CommunicationAudit struct {
	Score         float64              `json:"score"`
	Overview      string               `json:"analise_geral"`
	ValueProposal string               `json:"proposta_de_valor"`
	ToneOfVoice   string               `json:"tom_de_voz"`
	CTA           string               `json:"cta"`
	Issues        []CommunicationIssue `json:"problemas"`
}

type SmartObjective struct {
	Number     int    `json:"numero"`
	Title      string `json:"titulo"`
	Summary    string `json:"meta_resumida"`
	Specific   string `json:"especifico"`
	Measurable string `json:"mensuravel"`
	Achievable string `json:"atingivel"`
	Relevant   string `json:"relevante"`
	TimeBound  string `json:"temporal"`
}

type ActionItem struct {
	Number   int      `json:"numero"`
	Title    string   `json:"titulo"`
	Priority Priority `json:"prioridade"`
	Week     int      `json:"semana"`
	Goal     string   `json:"meta"`
	WhyNow   string   `json:"por_que_agora"`
	Steps    []string `json:"passos"`
}

type Metric struct {
	Name      string `json:"nome"`
	Baseline  string `json:"baseline"`
	Target    string `json:"meta"`
	HowTo     string `json:"como_medir"`
	Frequency string `json:"frequencia"`
}

// Diagnostic is the document produced by the synthesizer and persisted on
// a completed job.
type Diagnostic struct {
	OverallScore     float64            `json:"score_geral"`
	Level            Level              `json:"nivel"`
	ExecutiveSummary string             `json:"resumo_executivo"`
	RootProblem      string             `json:"problema_raiz"`
	Pillars          Pillars            `json:"pilares"`
	ChannelMaturity  []ChannelMaturity  `json:"maturidade_canais"`
	Market           MarketAnalysis     `json:"analise_mercado"`
	Company          CompanyProfile     `json:"sobre_empresa"`
	Communication    CommunicationAudit `json:"comunicacao"`
	SmartObjectives  []SmartObjective   `json:"objetivos_smart"`
	ActionPlan       []ActionItem       `json:"plano_acao"`
	Metrics          []Metric           `json:"metricas"`
}

// Validate enforces the document invariants and canonicalizes the level
// label in place.
func (d *Diagnostic) Validate() error {
	errs := []error{
		checkScore("score_geral", d.OverallScore),
		requireText("resumo_executivo", d.ExecutiveSummary),
		checkScore("pilares.visibilidade.score", d.Pillars.Visibility.Score),
		checkScore("pilares.captacao.score", d.Pillars.Acquisition.Score),
		checkScore("pilares.conversao.score", d.Pillars.Conversion.Score),
		checkScore("pilares.posicionamento.score", d.Pillars.Positioning.Score),
		checkScore("comunicacao.score", d.Communication.Score),
	}
	for i, ch := range d.ChannelMaturity {
		errs = append(errs, checkScore(fmt.Sprintf("maturidade_canais[%d].score", i), ch.Score))
	}
	if err := firstError(errs...); err != nil {
		return err
	}

	level, ok := d.Level.Canonical()
	if !ok {
		return fmt.Errorf("%w: unknown nivel %q", ErrInvalidDocument, d.Level)
	}
	d.Level = level

	if n := len(d.SmartObjectives); n != SmartObjectiveCount {
		return fmt.Errorf("%w: objetivos_smart has %d entries, want %d", ErrInvalidDocument, n, SmartObjectiveCount)
	}
	if n := len(d.ActionPlan); n > MaxActionItems {
		return fmt.Errorf("%w: plano_acao has %d entries, max %d", ErrInvalidDocument, n, MaxActionItems)
	}
	for i, item := range d.ActionPlan {
		if item.Week < 1 || item.Week > MaxWeek {
			return fmt.Errorf("%w: plano_acao[%d].semana=%d outside 1-%d", ErrInvalidDocument, i, item.Week, MaxWeek)
		}
		if !item.Priority.valid() {
			return fmt.Errorf("%w: plano_acao[%d].prioridade=%q", ErrInvalidDocument, i, item.Priority)
		}
	}
	if n := len(d.Metrics); n < MinMetrics || n > MaxMetrics {
		return fmt.Errorf("%w: metricas has %d entries, want %d-%d", ErrInvalidDocument, n, MinMetrics, MaxMetrics)
	}
	return nil
}
