package lookup

import "github.com/msv-stihl/limpeza/internal/models"

// Messages shown in the message area.
const (
	MessageNoneFound = "Nenhum ambiente faltante encontrado."
	MessageError     = "Erro ao buscar dados."
)

// State names the outcome a View describes.
type State string

const (
	StatePending State = "pending"
	StateRows    State = "rows"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

// View describes what the page shows. It carries no behaviour; templates and
// the JSON API only apply it.
type View struct {
	Shift        string     `json:"shift"`
	State        State      `json:"state"`
	Loading      bool       `json:"loading"`
	TableVisible bool       `json:"table_visible"`
	Message      string     `json:"message"`
	Rows         [][]string `json:"rows"`
}

// Submit is the view while the report is being fetched.
func Submit(shift string) View {
	return View{
		Shift:   shift,
		State:   StatePending,
		Loading: true,
		Rows:    [][]string{},
	}
}

// Resolve is the final view for shift once the fetch has finished.
func Resolve(shift string, report models.ShiftReport, err error) View {
	v := View{Shift: shift, Rows: [][]string{}}
	if err != nil {
		v.State = StateError
		v.Message = MessageError
		return v
	}

	list := report.Missing(shift)
	if len(list) == 0 {
		v.State = StateEmpty
		v.Message = MessageNoneFound
		return v
	}

	for _, item := range list {
		v.Rows = append(v.Rows, item.Cells())
	}
	v.State = StateRows
	v.TableVisible = true
	return v
}
