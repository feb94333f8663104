package relatorio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vistoria.app/api/utils"
)

// Valor accepts a JSON string, number, boolean or null.
type Valor string

func (v *Valor) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = ""
	case string:
		*v = Valor(strings.TrimSpace(x))
	case float64:
		*v = Valor(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		if x {
			*v = "sim"
		} else {
			*v = "não"
		}
	default:
		return fmt.Errorf("unsupported value %s", string(b))
	}
	return nil
}

// Comodo is the condition assessment of one room category.
type Comodo struct {
	Quantidade           Valor `json:"Quantidade"`
	Estrutura            Valor `json:"Estrutura"`
	Pintura              Valor `json:"Pintura"`
	InstalacaoEletrica   Valor `json:"InstalacaoEletrica"`
	InstalacaoHidraulica Valor `json:"InstalacaoHidraulica"`
	Piso                 Valor `json:"Piso"`
	Telhado              Valor `json:"Telhado"`
	Observacoes          Valor `json:"observacoes"`
}

// Campo is one labelled line of a room.
type Campo struct {
	Nome  string `json:"campo"`
	Valor string `json:"valor"`
}

// Campos lists the non-empty fields in report order.
func (c Comodo) Campos() []Campo {
	all := []Campo{
		{"Quantidade", string(c.Quantidade)},
		{"Estrutura", string(c.Estrutura)},
		{"Pintura", string(c.Pintura)},
		{"Instalação elétrica", string(c.InstalacaoEletrica)},
		{"Instalação hidráulica", string(c.InstalacaoHidraulica)},
		{"Piso", string(c.Piso)},
		{"Telhado", string(c.Telhado)},
		{"Observações", string(c.Observacoes)},
	}
	out := all[:0]
	for _, f := range all {
		if f.Valor != "" {
			out = append(out, f)
		}
	}
	return out
}

// Presente is false when the quantity is 0, blank or N/A.
func (c Comodo) Presente() bool {
	q := strings.TrimSpace(string(c.Quantidade))
	return q != "" && q != "0" && !strings.EqualFold(q, "n/a")
}

// Comodos maps a room category to its assessment.
type Comodos map[string]Comodo

var roomOrder = map[string]int{"quartos": 0, "banheiros": 1, "sala": 2, "cozinha": 3, "varanda": 4}

func roomRank(name string) int {
	if r, ok := roomOrder[strings.ToLower(name)]; ok {
		return r
	}
	return len(roomOrder)
}

func sortRooms(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := roomRank(names[i]), roomRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}

// Presentes returns the rooms that go into the narrative, in report order.
func (cs Comodos) Presentes() []string {
	names := make([]string, 0, len(cs))
	for name, c := range cs {
		if c.Presente() {
			names = append(names, name)
		}
	}
	sortRooms(names)
	return names
}

// ParseComodos decodes the multipart "comodos" field. Empty means no rooms.
func ParseComodos(raw string) (Comodos, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Comodos{}, nil
	}
	var cs Comodos
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return nil, utils.InvalidInput("comodos inválido")
	}
	if cs == nil {
		cs = Comodos{}
	}
	return cs, nil
}
