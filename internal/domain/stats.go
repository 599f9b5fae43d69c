package domain

// StatName is the key of a single player counter, as it appears in effect strings.
type StatName string

const (
	StatItibar    StatName = "itibar"
	StatPartiGucu StatName = "partiGucu"
	StatEtik      StatName = "etik"
	StatMedya     StatName = "medya"
	StatMoral     StatName = "moral"
)

const (
	StatMin = 0
	StatMax = 100
)

// StatNames lists the counters in display order.
var StatNames = []StatName{StatItibar, StatPartiGucu, StatEtik, StatMedya, StatMoral}

var statLabels = map[StatName]string{
	StatItibar:    "İtibar",
	StatPartiGucu: "Parti Gücü",
	StatEtik:      "Etik",
	StatMedya:     "Medya",
	StatMoral:     "Moral",
}

// PlayerStats holds the five narrative counters. Values stay within [StatMin, StatMax]
// as long as they are only changed through Set.
type PlayerStats struct {
	Itibar    int `json:"itibar"`
	PartiGucu int `json:"partiGucu"`
	Etik      int `json:"etik"`
	Medya     int `json:"medya"`
	Moral     int `json:"moral"`
}

// InitialStats returns the values every new or restarted session begins with.
func InitialStats() PlayerStats {
	return PlayerStats{
		Itibar:    50,
		PartiGucu: 30,
		Etik:      100,
		Medya:     20,
		Moral:     75,
	}
}

// IsStat reports whether name is one of the known counters. Matching is case-sensitive.
func IsStat(name string) bool {
	_, ok := statLabels[StatName(name)]
	return ok
}

// Label returns the human readable Turkish label of the counter.
func (n StatName) Label() string {
	if l, ok := statLabels[n]; ok {
		return l
	}
	return string(n)
}

// Get returns the value of the named counter and whether the name is known.
func (s PlayerStats) Get(name StatName) (int, bool) {
	switch name {
	case StatItibar:
		return s.Itibar, true
	case StatPartiGucu:
		return s.PartiGucu, true
	case StatEtik:
		return s.Etik, true
	case StatMedya:
		return s.Medya, true
	case StatMoral:
		return s.Moral, true
	}
	return 0, false
}

// Set stores a clamped value into the named counter. Unknown names are ignored and
// reported through the boolean.
func (s *PlayerStats) Set(name StatName, value int) bool {
	value = Clamp(value)
	switch name {
	case StatItibar:
		s.Itibar = value
	case StatPartiGucu:
		s.PartiGucu = value
	case StatEtik:
		s.Etik = value
	case StatMedya:
		s.Medya = value
	case StatMoral:
		s.Moral = value
	default:
		return false
	}
	return true
}

// Clamp bounds v to [StatMin, StatMax].
func Clamp(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// StatView is a display row for UIs: label, value and the colour band of the bar.
type StatView struct {
	Name  StatName `json:"name"`
	Label string   `json:"label"`
	Value int      `json:"value"`
	Band  string   `json:"band"`
}

// Band returns the colour band used by the stat bars: red below 25, yellow below 50,
// blue below 75 and green otherwise.
func Band(value int) string {
	switch {
	case value < 25:
		return "red"
	case value < 50:
		return "yellow"
	case value < 75:
		return "blue"
	default:
		return "green"
	}
}

// View returns the counters as display rows in StatNames order.
func (s PlayerStats) View() []StatView {
	views := make([]StatView, 0, len(StatNames))
	for _, name := range StatNames {
		v, _ := s.Get(name)
		views = append(views, StatView{Name: name, Label: name.Label(), Value: v, Band: Band(v)})
	}
	return views
}
