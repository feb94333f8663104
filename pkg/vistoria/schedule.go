package vistoria

import (
	"regexp"
	"strings"
	"time"

	"vistoria.app/api/utils"
)

// Zone is the fixed UTC-3 offset scheduled times are anchored to.
var Zone = time.FixedZone("BRT", -3*60*60)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)

// ComposeScheduledAt builds the scheduled instant from a YYYY-MM-DD date and
// an HH:MM[:SS] time of day in Zone. The result must be strictly after now.
func ComposeScheduledAt(date, tod string, now time.Time) (time.Time, error) {
	date = strings.TrimSpace(date)
	tod = strings.TrimSpace(tod)
	if date == "" || tod == "" {
		return time.Time{}, utils.InvalidInput("Data e hora são obrigatórias.")
	}

	if len(tod) == 5 {
		tod += ":00"
	}
	if !timeOfDay.MatchString(tod) {
		return time.Time{}, utils.InvalidInput("Hora inválida. Use HH:mm ou HH:mm:ss.")
	}

	at, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+tod, Zone)
	if err != nil {
		return time.Time{}, utils.InvalidInput("Data/hora inválida.")
	}
	if !at.After(now) {
		return time.Time{}, utils.InvalidInput("Escolha uma data e hora no futuro.")
	}
	return at, nil
}
