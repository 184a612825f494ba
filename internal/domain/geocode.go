package domain

// LocationLookup returns the coordinates of a normalized city name, or false
// when the city has none.
type LocationLookup func(city string) (Geo, bool)

// AttachLocations returns a copy of records with Location set for every city
// that lookup resolves. Records for unresolved cities keep a nil Location.
// A nil lookup leaves all locations unset.
func AttachLocations(records []OrderRecord, lookup LocationLookup) []OrderRecord {
	out := make([]OrderRecord, len(records))
	copy(out, records)
	if lookup == nil {
		return out
	}
	for i := range out {
		if geo, ok := lookup(out[i].City); ok {
			out[i].Location = &geo
		} else {
			out[i].Location = nil
		}
	}
	return out
}

// MapPoints projects the located records into map markers, preserving record
// order. Records without a location are omitted.
func MapPoints(records []OrderRecord) []MapPoint {
	points := make([]MapPoint, 0, len(records))
	for _, r := range records {
		if r.Location == nil {
			continue
		}
		points = append(points, MapPoint{
			City:        r.City,
			OrderStatus: r.OrderStatus,
			Lat:         r.Location.Lat,
			Lon:         r.Location.Lon,
		})
	}
	return points
}

