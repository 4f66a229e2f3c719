package senders

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
)

var (
	//go:embed slot.html
	slotHTML     string
	slotTemplate = template.Must(template.New("slot.html").Parse(slotHTML))
)

// SlotEmailFormat renders the notification for one newly available slot.
type SlotEmailFormat struct {
	ClubName string
	Slot     models.Slot
}

func (ef *SlotEmailFormat) Subject() string {
	return fmt.Sprintf("Nouveau créneau padel disponible – %s", ef.ClubName)
}

func (ef *SlotEmailFormat) Body() string {
	buf := new(strings.Builder)
	if err := slotTemplate.Execute(buf, ef.values()); err != nil {
		return ""
	}
	return buf.String()
}

func (ef *SlotEmailFormat) values() map[string]string {
	courtType := "Extérieur"
	if ef.Slot.Indoor {
		courtType = "Intérieur"
	}
	return map[string]string{
		"ClubName":   ef.ClubName,
		"Playground": ef.Slot.PlaygroundName,
		"Date":       ef.Slot.Date.String(),
		"StartTime":  ef.Slot.StartTime.String(),
		"Price":      fmt.Sprintf("%.2f€", ef.Slot.PriceTotal),
		"CourtType":  courtType,
	}
}
