package dto

import "time"

// AdviceContext contexto opcional de la pregunta (rango de fechas para
// análisis de rentabilidad).
type AdviceContext struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// AdviceRequest pregunta en texto libre al asesor de la tienda.
type AdviceRequest struct {
	Question string        `json:"question"`
	Context  AdviceContext `json:"context"`
}

// AdviceResult respuesta estructurada del asesor. Answer contiene el reporte
// del analizador despachado, o el menú de ayuda si no hubo coincidencia.
type AdviceResult struct {
	Question  string    `json:"question"`
	Answer    any       `json:"answer"`
	Type      string    `json:"type"` // profit | inventory | recommendations | full_analysis | general
	Timestamp time.Time `json:"timestamp"`
}

// AdvisorHelp menú fijo devuelto cuando la pregunta no coincide con ningún tema.
type AdvisorHelp struct {
	Message    string   `json:"message"`
	Options    []string `json:"options"`
	Suggestion string   `json:"suggestion"`
}

// FullAnalysis análisis completo: rentabilidad + inventario + recomendaciones.
type FullAnalysis struct {
	Profit          *ProfitReport    `json:"profit"`
	Inventory       *InventoryReport `json:"inventory"`
	Recommendations []Suggestion     `json:"recommendations"`
}
