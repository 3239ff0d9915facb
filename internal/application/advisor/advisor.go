package advisor

import (
	"context"
	"strings"
	"time"

	"github.com/smartstore/backend/internal/application/dto"
)

// Topic tema reconocido por el asesor.
type Topic string

const (
	TopicProfit          Topic = "profit"
	TopicInventory       Topic = "inventory"
	TopicRecommendations Topic = "recommendations"
	TopicFullAnalysis    Topic = "full_analysis"
	TopicGeneral         Topic = "general"
)

// topicEntry tema con su término canónico y sinónimos. El orden de topics
// determina la prioridad de coincidencia: gana el primer tema cuyo término
// canónico o sinónimo aparece como subcadena de la pregunta.
type topicEntry struct {
	topic    Topic
	keyword  string
	synonyms []string
}

// topics tabla de despacho. Agregar un tema o sinónimo es un cambio de datos,
// no de lógica.
var topics = []topicEntry{
	{TopicProfit, "ربح", []string{"أرباح", "مكسب", "ربحي"}},
	{TopicInventory, "مخزون", []string{"مخازن", "بضاعة", "بضائع", "عرض"}},
	{TopicRecommendations, "توصيات", []string{"نصائح", "اقتراحات", "توجيهات"}},
	{TopicFullAnalysis, "تحليل", []string{"دراسة", "تقرير", "فحص"}},
}

// helpPayload menú devuelto cuando ninguna palabra clave coincide.
var helpPayload = dto.AdvisorHelp{
	Message: "لم أفهم سؤالك، جرب أحد المواضيع التالية",
	Options: []string{
		"الأرباح: اسأل عن الربح أو المكسب",
		"المخزون: اسأل عن المخزون أو البضاعة",
		"التوصيات: اطلب نصائح أو اقتراحات",
		"التحليل الشامل: اطلب تحليل أو تقرير كامل",
	},
	Suggestion: "مثال: ما هو الربح هذا الشهر؟",
}

// ProfitAnalyzer genera el reporte de rentabilidad de un período.
type ProfitAnalyzer interface {
	Analyze(ctx context.Context, start, end time.Time) (*dto.ProfitReport, error)
}

// InventoryAnalyzer genera el reporte de salud del inventario y las
// recomendaciones combinadas.
type InventoryAnalyzer interface {
	Analyze(ctx context.Context) (*dto.InventoryReport, error)
	Recommendations(ctx context.Context) ([]dto.Suggestion, error)
}

// Advisor despacha preguntas en texto libre al analizador correspondiente
// mediante una tabla fija de palabras clave y sinónimos. Solo se ejecuta el
// analizador del tema coincidente; nada se calcula por adelantado.
type Advisor struct {
	profit    ProfitAnalyzer
	inventory InventoryAnalyzer
	now       func() time.Time
}

// NewAdvisor construye el asesor. nowFn nulo usa time.Now.
func NewAdvisor(profit ProfitAnalyzer, inventory InventoryAnalyzer, nowFn func() time.Time) *Advisor {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Advisor{profit: profit, inventory: inventory, now: nowFn}
}

// Advise responde la pregunta. Sin coincidencia devuelve el menú de ayuda con
// tipo general; nunca un error por pregunta no reconocida.
func (a *Advisor) Advise(ctx context.Context, in dto.AdviceRequest) (*dto.AdviceResult, error) {
	result := &dto.AdviceResult{
		Question:  in.Question,
		Type:      string(TopicGeneral),
		Timestamp: a.now(),
	}

	topic := matchTopic(in.Question)
	start, end := a.resolvePeriod(in.Context)

	switch topic {
	case TopicProfit:
		report, err := a.profit.Analyze(ctx, start, end)
		if err != nil {
			return nil, err
		}
		result.Type = string(TopicProfit)
		result.Answer = report
	case TopicInventory:
		report, err := a.inventory.Analyze(ctx)
		if err != nil {
			return nil, err
		}
		result.Type = string(TopicInventory)
		result.Answer = report
	case TopicRecommendations:
		recs, err := a.inventory.Recommendations(ctx)
		if err != nil {
			return nil, err
		}
		result.Type = string(TopicRecommendations)
		result.Answer = recs
	case TopicFullAnalysis:
		full, err := a.fullAnalysis(ctx, start, end)
		if err != nil {
			return nil, err
		}
		result.Type = string(TopicFullAnalysis)
		result.Answer = full
	default:
		result.Answer = helpPayload
	}
	return result, nil
}

// fullAnalysis compone los tres analizadores en una sola respuesta.
func (a *Advisor) fullAnalysis(ctx context.Context, start, end time.Time) (*dto.FullAnalysis, error) {
	profit, err := a.profit.Analyze(ctx, start, end)
	if err != nil {
		return nil, err
	}
	inventory, err := a.inventory.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := a.inventory.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FullAnalysis{Profit: profit, Inventory: inventory, Recommendations: recs}, nil
}

// resolvePeriod interpreta el rango del contexto; por defecto los últimos 30 días.
func (a *Advisor) resolvePeriod(c dto.AdviceContext) (time.Time, time.Time) {
	now := a.now()
	end := now
	if c.EndDate != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", c.EndDate, now.Location()); err == nil {
			end = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, now.Location())
		}
	}
	start := end.AddDate(0, 0, -30)
	if c.StartDate != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", c.StartDate, now.Location()); err == nil {
			start = parsed
		}
	}
	return start, end
}

// matchTopic devuelve el primer tema cuyo término canónico o sinónimo aparece
// como subcadena de la pregunta, o general si ninguno coincide.
func matchTopic(question string) Topic {
	for _, entry := range topics {
		if strings.Contains(question, entry.keyword) {
			return entry.topic
		}
		for _, syn := range entry.synonyms {
			if strings.Contains(question, syn) {
				return entry.topic
			}
		}
	}
	return TopicGeneral
}
