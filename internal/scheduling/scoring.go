package scheduling

import (
	"strings"

	"github.com/reservafacil/backend/internal/model"
)

// Scoring weights. Capacity fit dominates on purpose: a table that
// seats the party snugly beats any preference match.
const (
	capacityOptimal  = 40
	capacityAdequate = 30
	capacityOversize = 10

	zonePreferred = 25
	zoneNeutral   = 15
	zoneMismatch  = 10

	featureBase = 10
	featureCap  = 20

	packingFreeDay   = 10
	packingWideGap   = 8
	packingNarrowGap = 5
	packingTight     = 2

	separationAlone    = 5
	separationOneNear  = 3
	separationBase     = 2
	separationRadius   = 100.0 // floor-plan units
	separationWindow   = 60    // minutes either side
	separationMinParty = 6
)

// preferredZones maps a stated table preference to the zones that
// satisfy it.
var preferredZones = map[model.TablePreference][]model.ZoneKind{
	model.PreferenceWindow:  {model.ZoneInterior},
	model.PreferenceTerrace: {model.ZoneExterior},
	model.PreferencePrivate: {model.ZoneVIP},
	model.PreferenceBar:     {model.ZoneBar},
	model.PreferenceAny:     {model.ZoneInterior, model.ZoneExterior, model.ZoneVIP, model.ZoneBar},
}

// ScoreResult is the ranking number for a (table, reservation) pair
// plus the human-readable tags the dashboard shows. Reasons never feed
// back into the computation.
type ScoreResult struct {
	Total   int      `json:"total"`
	Reasons []string `json:"reasons"`
}

// Score rates how well a table fits a reservation. Tables too small
// for the party are expected to be filtered out before scoring.
// allTables and existing cover the whole restaurant and day; they feed
// the time-packing and group-separation criteria.
func Score(table *model.Table, res *model.Reservation, existing []*model.Reservation, allTables []*model.Table) ScoreResult {
	var result ScoreResult

	result.add(scoreCapacity(table, res))
	result.add(scoreZone(table, res))
	result.add(scoreFeatures(table, res))
	result.add(scorePacking(table, res, existing))
	result.add(scoreSeparation(table, res, existing, allTables))

	return result
}

func (s *ScoreResult) add(points int, reasons []string) {
	s.Total += points
	s.Reasons = append(s.Reasons, reasons...)
}

func scoreCapacity(table *model.Table, res *model.Reservation) (int, []string) {
	ratio := float64(res.Guests) / float64(table.Capacity)
	switch {
	case ratio >= 0.75:
		return capacityOptimal, []string{"capacidad óptima"}
	case ratio >= 0.5:
		return capacityAdequate, []string{"capacidad adecuada"}
	default:
		return capacityOversize, []string{"mesa grande disponible"}
	}
}

func scoreZone(table *model.Table, res *model.Reservation) (int, []string) {
	if res.TablePreference == model.PreferenceNone {
		return zoneNeutral, nil
	}
	for _, z := range preferredZones[res.TablePreference] {
		if table.Zone == z {
			return zonePreferred, []string{"zona preferida"}
		}
	}
	return zoneMismatch, nil
}

func scoreFeatures(table *model.Table, res *model.Reservation) (int, []string) {
	points := featureBase
	var reasons []string
	requests := strings.ToLower(res.SpecialRequests)
	mentions := func(s string) bool { return strings.Contains(requests, s) }

	if (mentions("ventana") || mentions("window")) && table.HasFeature("vista") {
		points += 10
		reasons = append(reasons, "mesa con vista")
	}
	if mentions("privad") && table.Zone == model.ZoneVIP {
		points += 10
		reasons = append(reasons, "zona privada")
	}
	if mentions("terraza") && table.Zone == model.ZoneExterior {
		points += 10
		reasons = append(reasons, "en terraza")
	}
	if mentions("tranquil") && table.Zone != model.ZoneBar {
		points += 5
		reasons = append(reasons, "zona tranquila")
	}
	if table.HasFeature("premium") {
		points += 5
		reasons = append(reasons, "mesa premium")
	}
	if points > featureCap {
		points = featureCap
	}
	return points, reasons
}

// scorePacking rewards candidates that sit close, but not too close,
// to the table's other reservations. The gap considered is the minimum
// over every reservation already on the table that day.
func scorePacking(table *model.Table, res *model.Reservation, existing []*model.Reservation) (int, []string) {
	want, err := reservationInterval(res)
	if err != nil {
		return packingTight, nil
	}

	minGap := -1
	for _, r := range existing {
		if r.ID == res.ID || !r.Active() || !r.AssignedTo(table.ID) {
			continue
		}
		have, err := reservationInterval(r)
		if err != nil {
			continue
		}
		gap := 0
		switch {
		case want.Start >= have.End:
			gap = want.Start - have.End
		case have.Start >= want.End:
			gap = have.Start - want.End
		}
		if minGap < 0 || gap < minGap {
			minGap = gap
		}
	}

	switch {
	case minGap < 0:
		return packingFreeDay, []string{"mesa libre todo el día"}
	case minGap >= 30:
		return packingWideGap, nil
	case minGap >= 15:
		return packingNarrowGap, nil
	default:
		return packingTight, nil
	}
}

// scoreSeparation nudges large groups toward tables whose neighbours
// are quiet around the reservation's time.
func scoreSeparation(table *model.Table, res *model.Reservation, existing []*model.Reservation, allTables []*model.Table) (int, []string) {
	if res.Guests < separationMinParty {
		return separationBase, nil
	}
	start, err := MinutesOfDay(res.Time)
	if err != nil {
		return separationBase, nil
	}

	busyNeighbours := 0
	for _, other := range allTables {
		if other.ID == table.ID || table.Geometry.DistanceTo(other.Geometry) > separationRadius {
			continue
		}
		for _, r := range existing {
			if !r.Active() || !r.AssignedTo(other.ID) {
				continue
			}
			at, err := MinutesOfDay(r.Time)
			if err != nil {
				continue
			}
			if diff := at - start; diff >= -separationWindow && diff <= separationWindow {
				busyNeighbours++
				break
			}
		}
	}

	switch busyNeighbours {
	case 0:
		return separationAlone, []string{"espacio para grupo"}
	case 1:
		return separationOneNear, nil
	default:
		return separationBase, nil
	}
}
