package models

import "time"

// ChecklistReading is one row of the checklist results export.
type ChecklistReading struct {
	ResponseID   string     `json:"id_resposta"`
	CompanyID    string     `json:"id_empresa"`
	ChecklistID  string     `json:"id_checklist"`
	Checklist    string     `json:"checklist"`
	StartedAt    *time.Time `json:"data_inicio,omitempty"`
	FinishedAt   *time.Time `json:"data_fim,omitempty"`
	AssetID      string     `json:"id_ativo"`
	Asset        string     `json:"ativo"`
	QRCode       string     `json:"qr_code"`
	User         string     `json:"usuario"`
	RegisteredAt *time.Time `json:"data_registro,omitempty"`
}
